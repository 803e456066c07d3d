package scanner

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	verrors "github.com/toyz/vessel/internal/errors"
	"github.com/toyz/vessel/internal/models"
	"github.com/toyz/vessel/internal/registry"
)

type users struct{}

type orders struct{}

type payments struct{}

func declare(t reflect.Type, calls *[]string, name string) RegisterFunc {
	return func(reg *registry.Registry) error {
		*calls = append(*calls, name)
		return reg.Register(models.Entry{Kind: models.ComponentKind, Type: t})
	}
}

func newCatalog(t *testing.T, calls *[]string) *Catalog {
	t.Helper()
	catalog, err := NewCatalog(
		Namespace{Path: "example.com/shop/orders", Register: declare(reflect.TypeOf(&orders{}), calls, "orders")},
		Namespace{Path: "example.com/shop", Register: func(reg *registry.Registry) error {
			*calls = append(*calls, "shop")
			return nil
		}},
		Namespace{Path: "example.com/shop/orders/payments", Register: declare(reflect.TypeOf(&payments{}), calls, "payments")},
		Namespace{Path: "example.com/shop-admin", Register: declare(reflect.TypeOf(&users{}), calls, "admin")},
		Namespace{Path: "example.com/shop/users", Register: declare(reflect.TypeOf(&users{}), calls, "users")},
	)
	require.NoError(t, err)
	return catalog
}

func TestCatalog_Add(t *testing.T) {
	noop := func(*registry.Registry) error { return nil }

	_, err := NewCatalog(Namespace{Path: "", Register: noop})
	assert.Error(t, err)

	_, err = NewCatalog(Namespace{Path: "example.com/a b", Register: noop})
	assert.Error(t, err)

	_, err = NewCatalog(Namespace{Path: "example.com/app"})
	assert.Error(t, err)

	_, err = NewCatalog(
		Namespace{Path: "example.com/app", Register: noop},
		Namespace{Path: "example.com/app", Register: noop},
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already in catalog")
}

func TestCatalog_Under(t *testing.T) {
	var calls []string
	catalog := newCatalog(t, &calls)

	var paths []string
	for _, ns := range catalog.Under("example.com/shop") {
		paths = append(paths, ns.Path)
	}
	assert.Equal(t, []string{
		"example.com/shop",
		"example.com/shop/orders",
		"example.com/shop/orders/payments",
		"example.com/shop/users",
	}, paths)
	assert.Equal(t, 5, catalog.Len())
}

func TestScan_Recursive(t *testing.T) {
	var calls []string
	reg := registry.New()
	s := New(newCatalog(t, &calls), reg, nil)

	require.NoError(t, s.Scan("example.com/shop/..."))

	assert.Equal(t, []string{"shop", "orders", "payments", "users"}, calls)
	entries := reg.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "example.com/shop/orders", entries[0].Namespace)
	assert.Equal(t, "example.com/shop/orders/payments", entries[1].Namespace)
	assert.True(t, s.loaded["example.com/shop/users"])
	assert.False(t, s.loaded["example.com/shop-admin"])
}

func TestScan_RunsEachNamespaceOnce(t *testing.T) {
	var calls []string
	reg := registry.New()
	s := New(newCatalog(t, &calls), reg, nil)

	require.NoError(t, s.Scan("example.com/shop/orders"))
	require.NoError(t, s.Scan("example.com/shop", "example.com/shop/orders/payments"))

	assert.Equal(t, []string{"orders", "payments", "shop", "users"}, calls)
	assert.Equal(t, 3, reg.Len())
}

func TestScan_Unresolvable(t *testing.T) {
	var calls []string
	reg := registry.New()
	s := New(newCatalog(t, &calls), reg, nil)

	err := s.Scan("example.com/shop/orders", "example.com/billing")
	require.Error(t, err)
	assert.True(t, verrors.HasCode(err, verrors.ScanErrorCode))
	assert.Contains(t, err.Error(), "namespace not found")

	// earlier registrations are kept
	assert.Equal(t, 2, reg.Len())
}

func TestScan_InvalidPath(t *testing.T) {
	s := New(nil, registry.New(), nil)

	err := s.Scan("not a path")
	require.Error(t, err)
	assert.True(t, verrors.HasCode(err, verrors.ScanErrorCode))
}

func TestScan_RegisterFailure(t *testing.T) {
	catalog, err := NewCatalog(Namespace{
		Path:     "example.com/broken",
		Register: func(*registry.Registry) error { return errors.New("bad wiring") },
	})
	require.NoError(t, err)

	err = New(catalog, registry.New(), nil).Scan("example.com/broken")
	require.Error(t, err)
	assert.True(t, verrors.HasCode(err, verrors.ScanErrorCode))
	assert.Contains(t, err.Error(), "bad wiring")
}
