package extract

import (
	"fmt"
	"sort"
	"sync"

	"github.com/spf13/afero"
)

const (
	BackendSample    = "sample"
	BackendStatement = "statement"
)

// Factory builds an Extractor reading from fs
type Factory func(fs afero.Fs) (Extractor, error)

// Registry manages extractor backend factories
type Registry interface {
	// Register adds a new backend factory
	Register(backend string, factory Factory) error
	// Create instantiates the named backend
	Create(backend string, fs afero.Fs) (Extractor, error)
	// ListBackends returns the registered backend names in order
	ListBackends() []string
}

type registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

func NewRegistry(factories map[string]Factory) Registry {
	r := &registry{
		factories: make(map[string]Factory, len(factories)),
	}
	for name, factory := range factories {
		r.factories[name] = factory
	}
	return r
}

// NewDefaultRegistry knows the sample stub and the statement parser.
func NewDefaultRegistry() Registry {
	return NewRegistry(map[string]Factory{
		BackendSample:    SampleFactory,
		BackendStatement: StatementFactory,
	})
}

func (r *registry) Register(backend string, factory Factory) error {
	if backend == "" {
		return fmt.Errorf("backend name cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("factory cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[backend]; exists {
		return fmt.Errorf("backend %q is already registered", backend)
	}

	r.factories[backend] = factory
	return nil
}

func (r *registry) Create(backend string, fs afero.Fs) (Extractor, error) {
	r.mu.RLock()
	factory, exists := r.factories[backend]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("backend %q is not registered", backend)
	}

	return factory(fs)
}

func (r *registry) ListBackends() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	backends := make([]string, 0, len(r.factories))
	for backend := range r.factories {
		backends = append(backends, backend)
	}
	sort.Strings(backends)
	return backends
}
