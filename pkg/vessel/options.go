package vessel

import "go.uber.org/zap"

// Option configures a ContainerManager
type Option func(*config)

type config struct {
	logger     *zap.Logger
	catalog    *Catalog
	namespaces []Namespace
	registry   *Registry
}

// WithLogger sets the logger used for lifecycle events. The default discards
// everything.
func WithLogger(logger *zap.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

// WithCatalog sets the namespaces ComponentScan resolves against
func WithCatalog(catalog *Catalog) Option {
	return func(cfg *config) {
		cfg.catalog = catalog
	}
}

// WithNamespaces adds namespaces to the catalog
func WithNamespaces(namespaces ...Namespace) Option {
	return func(cfg *config) {
		cfg.namespaces = append(cfg.namespaces, namespaces...)
	}
}

// WithRegistry makes the container read declarations from reg, which may
// already hold entries made outside of scanning
func WithRegistry(reg *Registry) Option {
	return func(cfg *config) {
		cfg.registry = reg
	}
}
