package scanner

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/mod/module"

	"github.com/toyz/vessel/internal/errors"
	"github.com/toyz/vessel/internal/registry"
)

// Scanner runs namespace register functions against a registry
type Scanner struct {
	catalog  *Catalog
	registry *registry.Registry
	loaded   map[string]bool
	logger   *zap.Logger
}

// New creates a scanner. A nil logger discards output.
func New(catalog *Catalog, reg *registry.Registry, logger *zap.Logger) *Scanner {
	if catalog == nil {
		catalog = &Catalog{namespaces: make(map[string]Namespace)}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scanner{
		catalog:  catalog,
		registry: reg,
		loaded:   make(map[string]bool),
		logger:   logger,
	}
}

// Scan visits each namespace and all namespaces below it, running every
// register function at most once over the scanner's lifetime. A trailing
// "/..." is accepted. The first failure aborts the scan; declarations made
// before it stay in the registry.
func (s *Scanner) Scan(namespaces ...string) error {
	for _, raw := range namespaces {
		root := strings.TrimSuffix(raw, "/...")
		if err := module.CheckImportPath(root); err != nil {
			return errors.NewScanError(raw, err)
		}

		matched := s.catalog.Under(root)
		if len(matched) == 0 {
			return errors.NewScanError(raw, fmt.Errorf("namespace not found")).
				WithSuggestion("run the vessel generator for the package and add its Namespace to the catalog")
		}

		for _, ns := range matched {
			if s.loaded[ns.Path] {
				continue
			}
			s.loaded[ns.Path] = true

			before := s.registry.Len()
			if err := ns.Register(s.registry.In(ns.Path)); err != nil {
				return errors.NewScanError(ns.Path, err)
			}
			s.logger.Debug("scanned namespace",
				zap.String("namespace", ns.Path),
				zap.Int("declarations", s.registry.Len()-before))
		}
	}
	return nil
}
