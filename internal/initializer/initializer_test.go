package initializer

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/toyz/vessel/internal/analyzer"
	"github.com/toyz/vessel/internal/collector"
	verrors "github.com/toyz/vessel/internal/errors"
	"github.com/toyz/vessel/internal/graph"
	"github.com/toyz/vessel/internal/models"
	"github.com/toyz/vessel/internal/registry"
	"github.com/toyz/vessel/internal/singleton"
)

type settings struct {
	DSN string
}

type connection struct {
	DSN string
}

type greeter interface {
	Greet() string
}

type englishGreeter struct{}

func (englishGreeter) Greet() string { return "hello" }

type repository struct {
	Conn *connection
}

type service struct {
	Repo    *repository
	Greeter greeter
	Label   string
	started bool
}

func (s *service) PostConstruct() error {
	if s.Repo == nil {
		return errors.New("repository not injected")
	}
	s.started = true
	return nil
}

type dbConfig struct {
	Settings *settings
}

func (c *dbConfig) Connection() *connection {
	return &connection{DSN: "postgres://local"}
}

func (c *dbConfig) Greeter() (greeter, error) {
	return englishGreeter{}, nil
}

type brokenConfig struct{}

func (c *brokenConfig) Connection() (*connection, error) {
	return nil, errors.New("dial refused")
}

type nilConfig struct{}

func (c *nilConfig) Connection() *connection { return nil }

type nilGreeter struct{}

func (*nilGreeter) Greet() string { return "" }

type typedNilConfig struct{}

func (c *typedNilConfig) Greeter() greeter {
	var g *nilGreeter
	return g
}

type panicConfig struct{}

func (c *panicConfig) Connection() *connection { panic("boom") }

type failingHook struct{}

func (f *failingHook) PostConstruct() error { return errors.New("not ready") }

type orphan struct {
	Missing *settings
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

type fixture struct {
	result *collector.Result
	order  []reflect.Type
	cache  *singleton.Cache
}

func prepare(t *testing.T, entries ...models.Entry) *fixture {
	t.Helper()
	reg := registry.New()
	for _, e := range entries {
		require.NoError(t, reg.Register(e))
	}
	result, err := collector.Collect(reg)
	require.NoError(t, err)

	g := graph.New[reflect.Type]()
	analyzer.Analyze(result.Components, result.Controllers, result.Factories, g)
	order, err := g.TopologicalSort()
	require.NoError(t, err)

	return &fixture{result: result, order: order, cache: singleton.New()}
}

func (f *fixture) run(init *Initializer) error {
	return init.Initialize(f.order, f.result.Components, f.result.Controllers, f.result.Factories, f.cache)
}

func TestInitialize_BuildsGraph(t *testing.T) {
	f := prepare(t,
		models.Entry{Kind: models.ComponentKind, Type: typeOf[*service]()},
		models.Entry{Kind: models.ComponentKind, Type: typeOf[*repository]()},
		models.Entry{Kind: models.ComponentKind, Type: typeOf[*settings]()},
		models.Entry{Kind: models.ConfigurationKind, Type: typeOf[*dbConfig](), Factories: []string{"Connection", "Greeter"}},
	)

	require.NoError(t, f.run(New(nil)))

	svcValue, ok := f.cache.Get(typeOf[*service]())
	require.True(t, ok)
	svc := svcValue.(*service)
	repoValue, _ := f.cache.Get(typeOf[*repository]())
	connValue, _ := f.cache.Get(typeOf[*connection]())

	assert.Same(t, repoValue, svc.Repo)
	assert.Same(t, connValue, svc.Repo.Conn)
	assert.Equal(t, "postgres://local", svc.Repo.Conn.DSN)
	assert.Equal(t, "hello", svc.Greeter.Greet())
	assert.Empty(t, svc.Label)
	assert.True(t, svc.started)

	cfgValue, _ := f.cache.Get(typeOf[*dbConfig]())
	settingsValue, _ := f.cache.Get(typeOf[*settings]())
	assert.Same(t, settingsValue, cfgValue.(*dbConfig).Settings)
	assert.Equal(t, 6, f.cache.Len())
}

func TestInitialize_CacheFollowsOrder(t *testing.T) {
	f := prepare(t,
		models.Entry{Kind: models.ComponentKind, Type: typeOf[*repository]()},
		models.Entry{Kind: models.ConfigurationKind, Type: typeOf[*dbConfig](), Factories: []string{"Connection"}},
		models.Entry{Kind: models.ComponentKind, Type: typeOf[*settings]()},
	)

	require.NoError(t, f.run(New(nil)))

	var expected []reflect.Type
	for _, typ := range f.order {
		if f.cache.Has(typ) {
			expected = append(expected, typ)
		}
	}
	assert.Equal(t, expected, f.cache.Types())
}

func TestInitialize_UnresolvedDependency(t *testing.T) {
	f := prepare(t, models.Entry{Kind: models.ComponentKind, Type: typeOf[*repository]()})

	err := f.run(New(nil))
	require.Error(t, err)
	assert.True(t, verrors.HasCode(err, verrors.UnresolvedDependencyErrorCode))
	assert.Contains(t, err.Error(), "*initializer.repository.Conn requires *initializer.connection")
	assert.False(t, f.cache.Has(typeOf[*repository]()))
}

func TestInitialize_FactoryFailures(t *testing.T) {
	tests := []struct {
		name     string
		config   reflect.Type
		factory  string
		produces reflect.Type
		msg      string
	}{
		{"factory error", typeOf[*brokenConfig](), "Connection", typeOf[*connection](), "dial refused"},
		{"nil result", typeOf[*nilConfig](), "Connection", typeOf[*connection](), "returned nil"},
		{"typed nil interface", typeOf[*typedNilConfig](), "Greeter", typeOf[greeter](), "returned nil"},
		{"panic", typeOf[*panicConfig](), "Connection", typeOf[*connection](), "panic: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := prepare(t, models.Entry{Kind: models.ConfigurationKind, Type: tt.config, Factories: []string{tt.factory}})

			err := f.run(New(nil))
			require.Error(t, err)
			assert.True(t, verrors.HasCode(err, verrors.InitializationErrorCode))
			assert.Contains(t, err.Error(), tt.msg)
			assert.False(t, f.cache.Has(tt.produces))
		})
	}
}

func TestInitialize_PostConstructError(t *testing.T) {
	f := prepare(t, models.Entry{Kind: models.ComponentKind, Type: typeOf[*failingHook]()})

	err := f.run(New(nil))
	require.Error(t, err)
	assert.True(t, verrors.HasCode(err, verrors.InitializationErrorCode))
	assert.Contains(t, err.Error(), "post construct: not ready")
}

func TestInitialize_SkipsTypesWithoutDefinition(t *testing.T) {
	f := prepare(t, models.Entry{Kind: models.ComponentKind, Type: typeOf[*settings]()})
	order := append([]reflect.Type{typeOf[*orphan]()}, f.order...)

	core, logs := observer.New(zap.DebugLevel)
	err := New(zap.New(core)).Initialize(order, f.result.Components, f.result.Controllers, f.result.Factories, f.cache)
	require.NoError(t, err)

	assert.False(t, f.cache.Has(typeOf[*orphan]()))
	assert.True(t, f.cache.Has(typeOf[*settings]()))
	assert.Equal(t, 1, logs.FilterMessage("skipping type without definition").Len())
	assert.Equal(t, 1, logs.FilterMessage("constructed singleton").Len())
}

func TestInitialize_BuildsDefinitionsMissingFromOrder(t *testing.T) {
	f := prepare(t,
		models.Entry{Kind: models.ComponentKind, Type: typeOf[*settings]()},
		models.Entry{Kind: models.ControllerKind, Type: typeOf[*orphan]()},
	)

	err := New(nil).Initialize(nil, f.result.Components, f.result.Controllers, f.result.Factories, f.cache)
	require.NoError(t, err)

	assert.Equal(t, []reflect.Type{typeOf[*settings](), typeOf[*orphan]()}, f.cache.Types())
}

func TestConstruct(t *testing.T) {
	cache := singleton.New()
	conn := &connection{DSN: "x"}
	require.NoError(t, cache.Put(typeOf[*connection](), conn))

	instance, err := Construct(typeOf[*repository](), []models.Dependency{{Name: "Conn", Index: 0, Type: typeOf[*connection]()}}, cache)
	require.NoError(t, err)
	assert.Same(t, conn, instance.(*repository).Conn)
	assert.False(t, cache.Has(typeOf[*repository]()))

	_, err = Construct(typeOf[string](), nil, cache)
	assert.Error(t, err)
}
