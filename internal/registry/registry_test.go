package registry

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/vessel/internal/errors"
	"github.com/toyz/vessel/internal/models"
)

type userService struct{}

type appConfig struct{}

type auditInterceptor struct{}

func TestRegistry_RegisterKeepsDeclarationOrder(t *testing.T) {
	reg := New()

	require.NoError(t, reg.Register(models.Entry{Kind: models.ComponentKind, Type: reflect.TypeOf(&userService{})}))
	require.NoError(t, reg.Register(models.Entry{Kind: models.ConfigurationKind, Type: reflect.TypeOf(&appConfig{}), Factories: []string{"DB"}}))
	require.NoError(t, reg.Register(models.Entry{Kind: models.HandlerKind, HandlerID: "users.create"}))

	entries := reg.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, models.ComponentKind, entries[0].Kind)
	assert.Equal(t, models.ConfigurationKind, entries[1].Kind)
	assert.Equal(t, "users.create", entries[2].HandlerID)
	assert.Equal(t, 3, reg.Len())
}

func TestRegistry_NormalizesStructTypes(t *testing.T) {
	reg := New()

	require.NoError(t, reg.Register(models.Entry{Kind: models.ComponentKind, Type: reflect.TypeOf(userService{})}))
	require.NoError(t, reg.Register(models.Entry{
		Kind:         models.HandlerKind,
		HandlerID:    "users.create",
		Interceptors: []reflect.Type{reflect.TypeOf(auditInterceptor{})},
	}))

	entries := reg.Entries()
	assert.Equal(t, reflect.TypeOf(&userService{}), entries[0].Type)
	assert.Equal(t, reflect.TypeOf(&auditInterceptor{}), entries[1].Interceptors[0])
}

func TestRegistry_InStampsNamespace(t *testing.T) {
	reg := New()

	require.NoError(t, reg.In("example.com/app/users").Register(models.Entry{Kind: models.ComponentKind, Type: reflect.TypeOf(&userService{})}))
	require.NoError(t, reg.Register(models.Entry{Kind: models.ComponentKind, Type: reflect.TypeOf(&appConfig{})}))

	entries := reg.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "example.com/app/users", entries[0].Namespace)
	assert.Equal(t, "", entries[1].Namespace)
}

func TestRegistry_RejectsInvalidEntries(t *testing.T) {
	tests := []struct {
		name  string
		entry models.Entry
	}{
		{"nil component type", models.Entry{Kind: models.ComponentKind}},
		{"primitive component type", models.Entry{Kind: models.ComponentKind, Type: reflect.TypeOf("")}},
		{"configuration without factories", models.Entry{Kind: models.ConfigurationKind, Type: reflect.TypeOf(&appConfig{})}},
		{"handler without id", models.Entry{Kind: models.HandlerKind}},
		{"handler with primitive interceptor", models.Entry{Kind: models.HandlerKind, HandlerID: "h", Interceptors: []reflect.Type{reflect.TypeOf(0)}}},
		{"unknown kind", models.Entry{Kind: models.Kind(42), Type: reflect.TypeOf(&userService{})}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := New()
			err := reg.Register(tt.entry)
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, errors.RegistrationErrorCode))
			assert.Equal(t, 0, reg.Len())
		})
	}
}

func TestRegistry_Seal(t *testing.T) {
	reg := New()
	view := reg.In("example.com/app")
	reg.Seal()

	assert.True(t, view.Sealed())
	err := view.Register(models.Entry{Kind: models.ComponentKind, Type: reflect.TypeOf(&userService{})})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sealed")
}
