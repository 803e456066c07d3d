package registry

import (
	"reflect"
	"sync"

	"github.com/toyz/vessel/internal/errors"
	"github.com/toyz/vessel/internal/models"
	"github.com/toyz/vessel/internal/typeinfo"
)

// store is the entry list shared by a registry and its namespace views
type store struct {
	mu      sync.RWMutex
	entries []models.Entry
	sealed  bool
}

// Registry records component declarations in the order they are made. It is
// filled by namespace loaders during scanning and read once by the collector.
type Registry struct {
	store     *store
	namespace string
}

// New creates an empty registry
func New() *Registry {
	return &Registry{store: &store{}}
}

// In returns a view of the registry that stamps entries with namespace
func (r *Registry) In(namespace string) *Registry {
	return &Registry{store: r.store, namespace: namespace}
}

// Namespace returns the namespace entries made through this view are tagged with
func (r *Registry) Namespace() string {
	return r.namespace
}

// Register validates and records a declaration
func (r *Registry) Register(entry models.Entry) error {
	entry.Type = typeinfo.Normalize(entry.Type)
	if err := validate(&entry); err != nil {
		return err
	}
	entry.Namespace = r.namespace

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if r.store.sealed {
		return errors.NewRegistrationError(describe(entry), "registry is sealed, components must be declared before initialization")
	}
	r.store.entries = append(r.store.entries, entry)
	return nil
}

// Entries returns a copy of all entries in declaration order
func (r *Registry) Entries() []models.Entry {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	entries := make([]models.Entry, len(r.store.entries))
	copy(entries, r.store.entries)
	return entries
}

// Len returns the number of recorded entries
func (r *Registry) Len() int {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return len(r.store.entries)
}

// Seal rejects any further registration
func (r *Registry) Seal() {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.sealed = true
}

// Sealed reports whether Seal has been called
func (r *Registry) Sealed() bool {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return r.store.sealed
}

func validate(entry *models.Entry) error {
	switch entry.Kind {
	case models.ComponentKind, models.ControllerKind, models.ConfigurationKind:
		if entry.Type == nil {
			return errors.NewRegistrationError("<nil>", entry.Kind.String()+" type cannot be nil")
		}
		if !typeinfo.IsConstructible(entry.Type) {
			return errors.NewRegistrationError(entry.Type.String(), entry.Kind.String()+" must be a named struct or a pointer to one")
		}
		if entry.Kind == models.ConfigurationKind && len(entry.Factories) == 0 {
			return errors.NewRegistrationError(entry.Type.String(), "configuration declares no factory methods")
		}
	case models.HandlerKind:
		if entry.HandlerID == "" {
			return errors.NewRegistrationError("handler", "handler id cannot be empty")
		}
		interceptors := make([]reflect.Type, len(entry.Interceptors))
		for i, t := range entry.Interceptors {
			t = typeinfo.Normalize(t)
			if !typeinfo.IsConstructible(t) {
				return errors.NewRegistrationError(entry.HandlerID, "interceptor "+typeName(t)+" must be a named struct or a pointer to one")
			}
			interceptors[i] = t
		}
		entry.Interceptors = interceptors
	default:
		return errors.NewRegistrationError(describe(*entry), "unknown declaration kind")
	}
	return nil
}

func describe(entry models.Entry) string {
	if entry.Kind == models.HandlerKind {
		return entry.HandlerID
	}
	return typeName(entry.Type)
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
