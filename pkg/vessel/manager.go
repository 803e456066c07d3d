// Package vessel is a component container: it discovers declarations by
// namespace, orders them by dependency and builds one singleton per type.
package vessel

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/toyz/vessel/internal/analyzer"
	"github.com/toyz/vessel/internal/collector"
	"github.com/toyz/vessel/internal/errors"
	"github.com/toyz/vessel/internal/graph"
	"github.com/toyz/vessel/internal/initializer"
	"github.com/toyz/vessel/internal/interceptor"
	"github.com/toyz/vessel/internal/scanner"
	"github.com/toyz/vessel/internal/singleton"
	"github.com/toyz/vessel/internal/typeinfo"
)

// ControllerInfo describes an initialized controller
type ControllerInfo struct {
	Type      reflect.Type
	BasePath  string
	Namespace string
	Instance  any
}

// ContainerManager drives scanning and initialization and serves lookups
// once the container is ready. Lookups are safe for concurrent use.
type ContainerManager struct {
	id       string
	logger   *zap.Logger
	registry *Registry
	scanner  *scanner.Scanner

	mu          sync.RWMutex
	state       State
	cache       *singleton.Cache
	controllers []ControllerInfo
	chains      map[string]*Chain
}

// New creates a container manager
func New(opts ...Option) (*ContainerManager, error) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}
	if cfg.registry == nil {
		cfg.registry = NewRegistry()
	}
	if cfg.catalog == nil {
		catalog, err := NewCatalog()
		if err != nil {
			return nil, err
		}
		cfg.catalog = catalog
	}
	if err := cfg.catalog.Add(cfg.namespaces...); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	logger := cfg.logger.With(zap.String("container", id))
	return &ContainerManager{
		id:       id,
		logger:   logger,
		registry: cfg.registry,
		scanner:  scanner.New(cfg.catalog, cfg.registry, logger),
		state:    StateNew,
	}, nil
}

// ID returns the unique id of this container
func (m *ContainerManager) ID() string {
	return m.id
}

// State returns the current lifecycle phase
func (m *ContainerManager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Registry returns the registry the container reads declarations from
func (m *ContainerManager) Registry() *Registry {
	return m.registry
}

// ComponentScan runs the register functions of the given namespaces and all
// namespaces below them. It may be called several times before Initialize.
// A failed scan leaves earlier declarations in place and the container
// usable.
func (m *ContainerManager) ComponentScan(namespaces ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkUnstarted(); err != nil {
		return err
	}
	if m.registry.Sealed() {
		return errors.New(errors.LifecycleErrorCode, "registry is sealed, it was already used to initialize a container")
	}

	m.state = StateScanning
	err := m.scanner.Scan(namespaces...)
	m.state = StateNew
	if err != nil {
		m.logger.Warn("component scan failed", zap.Strings("namespaces", namespaces), zap.Error(err))
		return err
	}
	m.logger.Debug("component scan complete",
		zap.Strings("namespaces", namespaces),
		zap.Int("declarations", m.registry.Len()))
	return nil
}

// Initialize builds every singleton and resolves handler interceptors. It
// runs once; later calls return ErrAlreadyInitialized. On failure the
// container moves to StateFailed and cannot be retried. The manager is not
// locked while factories and PostConstruct hooks run, so they may call State
// or GetInstance; lookups fail with ErrNotInitialized until Initialize returns.
func (m *ContainerManager) Initialize() error {
	m.mu.Lock()
	if err := m.checkUnstarted(); err != nil {
		m.mu.Unlock()
		return err
	}
	if m.state != StateNew {
		m.mu.Unlock()
		return errors.Newf(errors.LifecycleErrorCode, "container is busy (%s)", m.state)
	}
	m.registry.Seal()
	m.state = StateAnalyzing
	m.mu.Unlock()

	start := time.Now()
	built, err := m.initialize()

	m.mu.Lock()
	defer m.mu.Unlock()

	if err != nil {
		m.state = StateFailed
		m.logger.Error("container initialization failed", zap.Error(err))
		return err
	}

	built.cache.Freeze()
	m.cache = built.cache
	m.controllers = built.controllers
	m.chains = built.chains
	m.state = StateReady
	m.logger.Info("container initialized",
		zap.Int("singletons", m.cache.Len()),
		zap.Int("controllers", len(m.controllers)),
		zap.Int("handlers", len(m.chains)),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}

// container is what a successful initialization produces
type container struct {
	cache       *singleton.Cache
	controllers []ControllerInfo
	chains      map[string]*Chain
}

func (m *ContainerManager) setState(state State) {
	m.mu.Lock()
	m.state = state
	m.mu.Unlock()
}

func (m *ContainerManager) initialize() (*container, error) {
	result, err := collector.Collect(m.registry)
	if err != nil {
		return nil, err
	}
	g := graph.New[reflect.Type]()
	analyzer.Analyze(result.Components, result.Controllers, result.Factories, g)

	m.setState(StateSorting)
	order, err := g.TopologicalSort()
	if err != nil {
		var cycle *graph.CycleError[reflect.Type]
		if stderrors.As(err, &cycle) {
			return nil, errors.NewCycleError(typeinfo.Names(cycle.Remaining)).
				WithCause(err).
				WithContext("path", typeinfo.Names(cycle.Path)).
				WithContext("requires", cycleDependencies(g, cycle.Remaining))
		}
		return nil, err
	}
	m.logger.Debug("resolved initialization order",
		zap.Int("nodes", g.Size()),
		zap.Int("edges", g.EdgeCount()))

	m.setState(StateInitializingMain)
	cache := singleton.New()
	if err := initializer.New(m.logger).Initialize(order, result.Components, result.Controllers, result.Factories, cache); err != nil {
		return nil, err
	}

	m.setState(StateInitializingInterceptors)
	resolver := interceptor.NewResolver(m.logger)
	if err := resolver.CollectAndInitializeDependencies(result.Handlers, result.Definitions(), cache); err != nil {
		return nil, err
	}
	resolved, err := resolver.ResolveHandlerInterceptors(result.Handlers, cache)
	if err != nil {
		return nil, err
	}

	chains := make(map[string]*Chain, len(resolved))
	for _, r := range resolved {
		interceptors := make([]HandlerInterceptor, len(r.Interceptors))
		for i, instance := range r.Interceptors {
			hi, ok := instance.(HandlerInterceptor)
			if !ok {
				return nil, errors.NewRegistrationError(r.HandlerID, fmt.Sprintf("%T does not implement vessel.HandlerInterceptor", instance))
			}
			interceptors[i] = hi
		}
		chains[r.HandlerID] = NewChain(r.HandlerID, interceptors...)
	}

	controllers := make([]ControllerInfo, 0, len(result.Controllers))
	for _, def := range result.Controllers {
		instance, _ := cache.Get(def.Type)
		controllers = append(controllers, ControllerInfo{
			Type:      def.Type,
			BasePath:  def.BasePath,
			Namespace: def.Namespace,
			Instance:  instance,
		})
	}

	return &container{cache: cache, controllers: controllers, chains: chains}, nil
}

// cycleDependencies maps each unsorted type to the unsorted types it needs
func cycleDependencies(g *graph.Graph[reflect.Type], remaining []reflect.Type) map[string][]string {
	unsorted := make(map[reflect.Type]bool, len(remaining))
	for _, t := range remaining {
		unsorted[t] = true
	}
	requires := make(map[string][]string, len(remaining))
	for _, t := range remaining {
		var deps []reflect.Type
		for _, d := range g.Dependencies(t) {
			if unsorted[d] {
				deps = append(deps, d)
			}
		}
		requires[t.String()] = typeinfo.Names(deps)
	}
	return requires
}

func (m *ContainerManager) checkUnstarted() error {
	switch m.state {
	case StateReady:
		return ErrAlreadyInitialized
	case StateFailed:
		return errors.New(errors.LifecycleErrorCode, "container initialization failed earlier, create a new container")
	default:
		return nil
	}
}

// GetInstance returns the singleton for t. A struct type is looked up as a
// pointer to it.
func (m *ContainerManager) GetInstance(t reflect.Type) (any, error) {
	if t == nil {
		return nil, errors.NewNotFoundError("<nil>")
	}
	t = typeinfo.Normalize(t)

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.state != StateReady {
		return nil, errors.NewNotFoundError(t.String()).WithCause(ErrNotInitialized)
	}
	instance, ok := m.cache.Get(t)
	if !ok {
		return nil, errors.NewNotFoundError(t.String())
	}
	return instance, nil
}

// Get returns the singleton of type T
func Get[T any](m *ContainerManager) (T, error) {
	var zero T
	instance, err := m.GetInstance(TypeOf[T]())
	if err != nil {
		return zero, err
	}
	typed, ok := instance.(T)
	if !ok {
		return zero, errors.NewNotFoundError(TypeOf[T]().String()).
			WithCause(fmt.Errorf("singleton has type %T", instance))
	}
	return typed, nil
}

// MustGet is Get that panics on error
func MustGet[T any](m *ContainerManager) T {
	instance, err := Get[T](m)
	if err != nil {
		panic(err)
	}
	return instance
}

// GetAllInstances returns every singleton in construction order. It returns
// nil until the container is ready.
func (m *ContainerManager) GetAllInstances() []any {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.state != StateReady {
		return nil
	}
	return m.cache.Values()
}

// ConstructionOrder returns the singleton types in the order they were built
func (m *ContainerManager) ConstructionOrder() []reflect.Type {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.state != StateReady {
		return nil
	}
	return m.cache.Types()
}

// GetControllers returns the controller singletons in registration order
func (m *ContainerManager) GetControllers() []any {
	m.mu.RLock()
	defer m.mu.RUnlock()

	instances := make([]any, 0, len(m.controllers))
	for _, c := range m.controllers {
		instances = append(instances, c.Instance)
	}
	return instances
}

// Controllers returns the controllers with their registration details
func (m *ContainerManager) Controllers() []ControllerInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]ControllerInfo, len(m.controllers))
	copy(result, m.controllers)
	return result
}

// Handler returns the interceptor chain registered for id
func (m *ContainerManager) Handler(id string) (*Chain, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.state != StateReady {
		return nil, errors.NewNotFoundError("handler " + id).WithCause(ErrNotInitialized)
	}
	chain, ok := m.chains[id]
	if !ok {
		return nil, errors.NewNotFoundError("handler " + id)
	}
	return chain, nil
}
