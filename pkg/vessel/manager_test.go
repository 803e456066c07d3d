package vessel_test

import (
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/toyz/vessel/pkg/vessel"
)

type Database struct {
	DSN string
}

type UserRepository struct {
	DB *Database
}

type AuditLog struct {
	DB *Database
}

type UserService struct {
	Repo  *UserRepository
	Audit *AuditLog
	ready bool
}

func (s *UserService) PostConstruct() error {
	s.ready = s.Repo != nil && s.Audit != nil
	return nil
}

type UserController struct {
	Service *UserService
}

type HealthController struct{}

type Settings struct{}

type DBConfig struct {
	Settings *Settings
}

func (c *DBConfig) Database() *Database {
	return &Database{DSN: "postgres://localhost/app"}
}

// Diamond: Top needs Left and Right, both need Bottom
type Bottom struct{}

type Left struct{ Bottom *Bottom }

type Right struct{ Bottom *Bottom }

type Top struct {
	Left  *Left
	Right *Right
}

// Factory chain X -> Y -> Z
type X struct{ n int }

type Y struct{ X *X }

type Z struct{ Y *Y }

type ChainConfig struct{}

func (c *ChainConfig) MakeZ(y *Y) *Z { return &Z{Y: y} }

func (c *ChainConfig) MakeX() *X { return &X{n: 1} }

func (c *ChainConfig) MakeY(x *X) (*Y, error) { return &Y{X: x}, nil }

type SelfRef struct{ Self *SelfRef }

type PingA struct{ B *PingB }

type PingB struct{ A *PingA }

type Ring1 struct{ Next *Ring2 }

type Ring2 struct{ Next *Ring3 }

type Ring3 struct{ Next *Ring1 }

type Unregistered struct{}

type NeedsUnregistered struct {
	Missing *Unregistered
}

type TimingInterceptor struct {
	vessel.BaseInterceptor
	Audit *AuditLog
}

func newContainer(t *testing.T, register func(reg *vessel.Registry) error) *vessel.ContainerManager {
	t.Helper()
	m, err := vessel.New()
	require.NoError(t, err)
	require.NoError(t, register(m.Registry()))
	return m
}

func registerApp(reg *vessel.Registry) error {
	return errors.Join(
		vessel.ControllerAt[*UserController](reg, "/users"),
		vessel.Component[*UserService](reg),
		vessel.Component[*AuditLog](reg),
		vessel.Component[UserRepository](reg),
		vessel.Configuration[*DBConfig](reg, "Database"),
		vessel.Component[*Settings](reg),
		vessel.Controller[*HealthController](reg),
	)
}

func TestContainer_DependenciesConstructedFirst(t *testing.T) {
	m := newContainer(t, registerApp)
	require.NoError(t, m.Initialize())
	assert.Equal(t, vessel.StateReady, m.State())

	position := make(map[reflect.Type]int)
	for i, typ := range m.ConstructionOrder() {
		position[typ] = i
	}

	edges := [][2]reflect.Type{
		{vessel.TypeOf[*Settings](), vessel.TypeOf[*DBConfig]()},
		{vessel.TypeOf[*DBConfig](), vessel.TypeOf[*Database]()},
		{vessel.TypeOf[*Database](), vessel.TypeOf[*UserRepository]()},
		{vessel.TypeOf[*Database](), vessel.TypeOf[*AuditLog]()},
		{vessel.TypeOf[*UserRepository](), vessel.TypeOf[*UserService]()},
		{vessel.TypeOf[*AuditLog](), vessel.TypeOf[*UserService]()},
		{vessel.TypeOf[*UserService](), vessel.TypeOf[*UserController]()},
	}
	for _, e := range edges {
		require.Contains(t, position, e[0])
		require.Contains(t, position, e[1])
		assert.Less(t, position[e[0]], position[e[1]], "%s must be built before %s", e[0], e[1])
	}
}

func TestContainer_SingletonIdentity(t *testing.T) {
	m := newContainer(t, registerApp)
	require.NoError(t, m.Initialize())

	svc := vessel.MustGet[*UserService](m)
	again, err := m.GetInstance(reflect.TypeOf(UserService{}))
	require.NoError(t, err)
	assert.Same(t, svc, again)
	assert.True(t, svc.ready)

	repo := vessel.MustGet[*UserRepository](m)
	audit := vessel.MustGet[*AuditLog](m)
	db := vessel.MustGet[*Database](m)
	assert.Same(t, repo, svc.Repo)
	assert.Same(t, audit, svc.Audit)
	assert.Same(t, db, repo.DB)
	assert.Same(t, db, audit.DB)
	assert.Equal(t, "postgres://localhost/app", db.DSN)

	controller := vessel.MustGet[*UserController](m)
	assert.Same(t, svc, controller.Service)
}

func TestContainer_DiamondIsDeterministic(t *testing.T) {
	register := func(reg *vessel.Registry) error {
		return errors.Join(
			vessel.Component[*Top](reg),
			vessel.Component[*Left](reg),
			vessel.Component[*Right](reg),
			vessel.Component[*Bottom](reg),
		)
	}

	m := newContainer(t, register)
	require.NoError(t, m.Initialize())

	expected := []reflect.Type{
		vessel.TypeOf[*Bottom](),
		vessel.TypeOf[*Left](),
		vessel.TypeOf[*Right](),
		vessel.TypeOf[*Top](),
	}
	assert.Equal(t, expected, m.ConstructionOrder())

	top := vessel.MustGet[*Top](m)
	assert.Same(t, top.Left.Bottom, top.Right.Bottom)

	for i := 0; i < 5; i++ {
		again := newContainer(t, register)
		require.NoError(t, again.Initialize())
		assert.Equal(t, expected, again.ConstructionOrder())
	}
}

func TestContainer_FactoryChain(t *testing.T) {
	m := newContainer(t, func(reg *vessel.Registry) error {
		return vessel.Configuration[*ChainConfig](reg, "MakeZ", "MakeX", "MakeY")
	})
	require.NoError(t, m.Initialize())

	order := m.ConstructionOrder()
	assert.Equal(t, []reflect.Type{
		vessel.TypeOf[*ChainConfig](),
		vessel.TypeOf[*X](),
		vessel.TypeOf[*Y](),
		vessel.TypeOf[*Z](),
	}, order)

	x := vessel.MustGet[*X](m)
	y := vessel.MustGet[*Y](m)
	z := vessel.MustGet[*Z](m)
	assert.Same(t, x, y.X)
	assert.Same(t, y, z.Y)
	assert.Equal(t, 1, x.n)
}

func TestContainer_CycleDetection(t *testing.T) {
	tests := []struct {
		name     string
		register func(reg *vessel.Registry) error
		members  []string
	}{
		{
			name:     "self reference",
			register: func(reg *vessel.Registry) error { return vessel.Component[*SelfRef](reg) },
			members:  []string{"*vessel_test.SelfRef"},
		},
		{
			name: "two components",
			register: func(reg *vessel.Registry) error {
				return errors.Join(vessel.Component[*PingA](reg), vessel.Component[*PingB](reg))
			},
			members: []string{"*vessel_test.PingA", "*vessel_test.PingB"},
		},
		{
			name: "three components",
			register: func(reg *vessel.Registry) error {
				return errors.Join(
					vessel.Component[*Ring1](reg),
					vessel.Component[*Ring2](reg),
					vessel.Component[*Ring3](reg),
					vessel.Component[*Settings](reg),
				)
			},
			members: []string{"*vessel_test.Ring1", "*vessel_test.Ring2", "*vessel_test.Ring3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newContainer(t, tt.register)

			err := m.Initialize()
			require.Error(t, err)
			assert.True(t, vessel.IsCycle(err))
			for _, member := range tt.members {
				assert.Contains(t, err.Error(), member)
			}
			assert.NotContains(t, err.Error(), "Settings")

			var ve vessel.Error
			require.True(t, errors.As(err, &ve))
			requires, ok := ve.Context()["requires"].(map[string][]string)
			require.True(t, ok)
			assert.Len(t, requires, len(tt.members))
			for _, member := range tt.members {
				assert.NotEmpty(t, requires[member], member)
			}

			assert.Equal(t, vessel.StateFailed, m.State())
			assert.Nil(t, m.GetAllInstances())
			_, lookupErr := m.GetInstance(vessel.TypeOf[*Settings]())
			assert.True(t, vessel.IsNotFound(lookupErr))
		})
	}
}

func TestContainer_UnregisteredDependency(t *testing.T) {
	m := newContainer(t, func(reg *vessel.Registry) error {
		return vessel.Component[*NeedsUnregistered](reg)
	})

	err := m.Initialize()
	require.Error(t, err)
	assert.True(t, vessel.IsUnresolvedDependency(err))
	assert.Contains(t, err.Error(), "Missing")
	assert.Equal(t, vessel.StateFailed, m.State())

	assert.Error(t, m.Initialize())
}

func TestContainer_DuplicateRegistration(t *testing.T) {
	m := newContainer(t, func(reg *vessel.Registry) error {
		return errors.Join(
			vessel.Component[*Database](reg),
			vessel.Configuration[*DBConfig](reg, "Database"),
		)
	})

	err := m.Initialize()
	require.Error(t, err)
	assert.True(t, vessel.IsDuplicateRegistration(err))
}

func TestContainer_InterceptorsAreNotSingletons(t *testing.T) {
	m := newContainer(t, func(reg *vessel.Registry) error {
		return errors.Join(
			registerApp(reg),
			vessel.Handler(reg, "users.create", vessel.TypeOf[*TimingInterceptor]()),
		)
	})
	require.NoError(t, m.Initialize())

	for _, instance := range m.GetAllInstances() {
		_, isInterceptor := instance.(*TimingInterceptor)
		assert.False(t, isInterceptor)
	}
	_, err := m.GetInstance(vessel.TypeOf[*TimingInterceptor]())
	assert.True(t, vessel.IsNotFound(err))

	chain, err := m.Handler("users.create")
	require.NoError(t, err)
	require.Equal(t, 1, chain.Len())
	timing := chain.Interceptors()[0].(*TimingInterceptor)
	assert.Same(t, vessel.MustGet[*AuditLog](m), timing.Audit)
}

func TestContainer_GetAllInstancesIsStable(t *testing.T) {
	m := newContainer(t, registerApp)
	require.NoError(t, m.Initialize())

	first := m.GetAllInstances()
	second := m.GetAllInstances()
	require.Len(t, first, 8)
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Same(t, first[i], second[i])
	}
}

func TestContainer_GetControllers(t *testing.T) {
	m := newContainer(t, registerApp)
	require.NoError(t, m.Initialize())

	controllers := m.GetControllers()
	require.Len(t, controllers, 2)
	assert.IsType(t, &UserController{}, controllers[0])
	assert.IsType(t, &HealthController{}, controllers[1])

	info := m.Controllers()
	assert.Equal(t, "/users", info[0].BasePath)
	assert.Equal(t, "", info[1].BasePath)
}

func TestContainer_Lifecycle(t *testing.T) {
	m := newContainer(t, registerApp)
	assert.Equal(t, vessel.StateNew, m.State())
	assert.NotEmpty(t, m.ID())

	_, err := vessel.Get[*UserService](m)
	require.Error(t, err)
	assert.True(t, vessel.IsNotFound(err))
	assert.ErrorIs(t, err, vessel.ErrNotInitialized)

	require.NoError(t, m.Initialize())

	err = m.Initialize()
	assert.ErrorIs(t, err, vessel.ErrAlreadyInitialized)
	assert.ErrorIs(t, m.ComponentScan("example.com/app"), vessel.ErrAlreadyInitialized)
	assert.Equal(t, vessel.StateReady, m.State())

	err = vessel.Component[*Unregistered](m.Registry())
	assert.Error(t, err, "registry is sealed after Initialize")

	_, err = vessel.Get[*Unregistered](m)
	assert.True(t, vessel.IsNotFound(err))
	assert.NotErrorIs(t, err, vessel.ErrNotInitialized)

	assert.Panics(t, func() { vessel.MustGet[*Unregistered](m) })
}

func TestContainer_ComponentScan(t *testing.T) {
	m, err := vessel.New(vessel.WithNamespaces(
		vessel.Namespace{Path: "example.com/app/data", Register: func(reg *vessel.Registry) error {
			return errors.Join(
				vessel.Configuration[*DBConfig](reg, "Database"),
				vessel.Component[*Settings](reg),
				vessel.Component[*UserRepository](reg),
			)
		}},
		vessel.Namespace{Path: "example.com/app/web", Register: func(reg *vessel.Registry) error {
			return vessel.ControllerAt[*UserController](reg, "/users")
		}},
		vessel.Namespace{Path: "example.com/app/domain", Register: func(reg *vessel.Registry) error {
			return errors.Join(vessel.Component[*UserService](reg), vessel.Component[*AuditLog](reg))
		}},
	))
	require.NoError(t, err)

	require.NoError(t, m.ComponentScan("example.com/app/..."))
	assert.Equal(t, vessel.StateNew, m.State())

	err = m.ComponentScan("example.com/other")
	assert.True(t, vessel.IsScan(err))
	assert.Equal(t, vessel.StateNew, m.State())

	require.NoError(t, m.Initialize())
	controllers := m.Controllers()
	require.Len(t, controllers, 1)
	assert.Equal(t, "example.com/app/web", controllers[0].Namespace)
	assert.Same(t, vessel.MustGet[*UserService](m), controllers[0].Instance.(*UserController).Service)
}

func TestContainer_NewRejectsBadNamespaces(t *testing.T) {
	_, err := vessel.New(vessel.WithNamespaces(vessel.Namespace{Path: "bad path", Register: func(*vessel.Registry) error { return nil }}))
	assert.Error(t, err)
}

func TestContainer_WithRegistryAndLogger(t *testing.T) {
	reg := vessel.NewRegistry()
	require.NoError(t, registerApp(reg))

	core, logs := observer.New(zap.InfoLevel)
	m, err := vessel.New(vessel.WithRegistry(reg), vessel.WithLogger(zap.New(core)))
	require.NoError(t, err)
	require.NoError(t, m.Initialize())

	entries := logs.FilterMessage("container initialized").All()
	require.Len(t, entries, 1)
	assert.Equal(t, m.ID(), entries[0].ContextMap()["container"])
	assert.EqualValues(t, 8, entries[0].ContextMap()["singletons"])
}

var watched *vessel.ContainerManager

type Watcher struct {
	Settings *Settings

	state     vessel.State
	lookupErr error
}

func (w *Watcher) PostConstruct() error {
	w.state = watched.State()
	_, w.lookupErr = watched.GetInstance(vessel.TypeOf[*Settings]())
	return nil
}

func TestContainer_PostConstructCanQueryManager(t *testing.T) {
	m := newContainer(t, func(reg *vessel.Registry) error {
		return errors.Join(vessel.Component[*Settings](reg), vessel.Component[*Watcher](reg))
	})
	watched = m
	t.Cleanup(func() { watched = nil })

	require.NoError(t, m.Initialize())

	w := vessel.MustGet[*Watcher](m)
	assert.Equal(t, vessel.StateInitializingMain, w.state)
	assert.True(t, vessel.IsNotFound(w.lookupErr))
	assert.ErrorIs(t, w.lookupErr, vessel.ErrNotInitialized)
	assert.Equal(t, vessel.StateReady, m.State())
}

func TestContainer_SharedRegistryIsSealed(t *testing.T) {
	reg := vessel.NewRegistry()
	require.NoError(t, registerApp(reg))

	first, err := vessel.New(vessel.WithRegistry(reg))
	require.NoError(t, err)
	require.NoError(t, first.Initialize())

	second, err := vessel.New(vessel.WithRegistry(reg), vessel.WithNamespaces(vessel.Namespace{
		Path:     "example.com/late",
		Register: func(reg *vessel.Registry) error { return vessel.Component[*Unregistered](reg) },
	}))
	require.NoError(t, err)
	err = second.ComponentScan("example.com/late")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "registry is sealed")
	assert.Equal(t, vessel.StateNew, second.State())
}

func TestContainer_ConcurrentLookups(t *testing.T) {
	m := newContainer(t, registerApp)
	require.NoError(t, m.Initialize())
	expected := vessel.MustGet[*UserService](m)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			svc, err := vessel.Get[*UserService](m)
			assert.NoError(t, err)
			assert.Same(t, expected, svc)
			assert.Len(t, m.GetAllInstances(), 8)
		}()
	}
	wg.Wait()
}
