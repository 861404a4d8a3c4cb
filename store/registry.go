package store

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

// StorageFactory opens the storage backing one device namespace.
type StorageFactory func(namespace string) Storage

// Registry lazily builds one Store per device namespace and reuses it for
// every later request from that device.
type Registry struct {
	mu      sync.Mutex
	loading singleflight.Group
	open    StorageFactory
	opts    []Option
	stores  map[string]*Store
}

func NewRegistry(open StorageFactory, opts ...Option) *Registry {
	return &Registry{
		open:   open,
		opts:   opts,
		stores: make(map[string]*Store),
	}
}

// Get returns the store for namespace, loading it from storage on first use.
func (r *Registry) Get(ctx context.Context, namespace string) (*Store, error) {
	namespace = strings.TrimSpace(namespace)
	if namespace == "" {
		return nil, validationError("namespace", "is required")
	}

	if s, ok := r.loaded(namespace); ok {
		return s, nil
	}

	// Devices load in parallel; concurrent first requests from one device
	// share a single load.
	v, err, _ := r.loading.Do(namespace, func() (any, error) {
		if s, ok := r.loaded(namespace); ok {
			return s, nil
		}
		s, err := New(ctx, r.open(namespace), r.opts...)
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.stores[namespace] = s
		r.mu.Unlock()
		logger.Debugf("loaded store for device %s", namespace)
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Store), nil
}

func (r *Registry) loaded(namespace string) (*Store, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.stores[namespace]
	return s, ok
}

// Len reports how many device stores are loaded.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stores)
}
