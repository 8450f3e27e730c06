package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/klothoplatform/cdkbridge/pkg/constructs"
	"github.com/klothoplatform/cdkbridge/pkg/multierr"
	"go.uber.org/zap"
)

// Registry maps construct type names to their [constructs.ConstructType]. Types are registered during
// startup, before any provider is created; registering after that is the caller's responsibility to
// order correctly.
type Registry struct {
	log *zap.Logger

	mu    sync.RWMutex
	types map[string]constructs.ConstructType
	order []string
}

var ErrDuplicateConstructType = errors.New("duplicate construct type")

type DuplicateConstructTypeError struct {
	Type string
}

func (e *DuplicateConstructTypeError) Error() string {
	return fmt.Sprintf("construct type '%s' is already registered", e.Type)
}

func (e *DuplicateConstructTypeError) Is(target error) bool {
	return target == ErrDuplicateConstructType
}

func New(log *zap.Logger) *Registry {
	if log == nil {
		log = zap.L()
	}
	return &Registry{
		log:   log.Named("registry"),
		types: make(map[string]constructs.ConstructType),
	}
}

// Register adds the construct types. Every type whose name is already registered, or appears twice in
// the batch, is reported as a [DuplicateConstructTypeError]; the other types of the batch are still
// registered.
func (r *Registry) Register(types ...constructs.ConstructType) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs multierr.Error
	for _, t := range types {
		name := t.Type()
		if _, ok := r.types[name]; ok {
			errs.Append(&DuplicateConstructTypeError{Type: name})
			continue
		}
		r.types[name] = t
		r.order = append(r.order, name)
		r.log.Debug("registered construct type", zap.String("type", name))
	}
	return errs.ErrOrNil()
}

// MustRegister is [Registry.Register] for load-time registration, where a duplicate is a programming error.
func (r *Registry) MustRegister(types ...constructs.ConstructType) {
	if err := r.Register(types...); err != nil {
		panic(err)
	}
}

func (r *Registry) Lookup(name string) (constructs.ConstructType, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.types[name]
	return t, ok
}

// ListAll returns the registered types in registration order.
func (r *Registry) ListAll() []constructs.ConstructType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make([]constructs.ConstructType, len(r.order))
	for i, name := range r.order {
		all[i] = r.types[name]
	}
	return all
}

// Types returns the registered type names, sorted.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.order))
	copy(names, r.order)
	sort.Strings(names)
	return names
}
