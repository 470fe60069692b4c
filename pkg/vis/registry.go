package vis

import (
	"sync"

	"github.com/vabarbosa/simple-data-vis/pkg/dataset"
	"github.com/vabarbosa/simple-data-vis/pkg/errors"
	"github.com/vabarbosa/simple-data-vis/pkg/options"
	"github.com/vabarbosa/simple-data-vis/pkg/scene"
)

// RenderFunc draws ds into container. Errors are reported to the binding's
// fail hook.
type RenderFunc func(container *scene.Node, ds *dataset.Dataset, opts options.Options) error

// Descriptor describes one chart type.
type Descriptor struct {
	Type        string
	Description string

	// Priority breaks ties when several chart types accept a dataset.
	// Higher wins; equal priorities fall back to registration order.
	Priority int

	// CanRender reports whether the chart suits ds. A nil predicate means
	// the chart is only used when requested by type.
	CanRender func(ds *dataset.Dataset) bool

	Render RenderFunc
}

// Accepts reports whether d's predicate accepts ds.
func (d *Descriptor) Accepts(ds *dataset.Dataset) bool {
	return d.CanRender != nil && d.CanRender(ds)
}

// Registry is an append-only list of chart descriptors.
// Duplicate types may coexist.
type Registry struct {
	mu      sync.RWMutex
	entries []*Descriptor
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends d.
func (r *Registry) Register(d Descriptor) error {
	if err := errors.ValidateTypeTag(d.Type); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidDescriptor, err, "invalid chart descriptor")
	}
	if d.Render == nil {
		return errors.New(errors.ErrCodeInvalidDescriptor, "chart %q has no render function", d.Type)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, &d)
	return nil
}

// RegisterFunc appends a descriptor with no predicate.
func (r *Registry) RegisterFunc(typ string, render RenderFunc) error {
	return r.Register(Descriptor{Type: typ, Render: render})
}

// MustRegister is Register for package initialization.
func (r *Registry) MustRegister(d Descriptor) {
	if err := r.Register(d); err != nil {
		panic(err)
	}
}

// All returns the descriptors in registration order.
func (r *Registry) All() []*Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*Descriptor(nil), r.entries...)
}

// Types returns the registered type tags in registration order.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.entries))
	for i, d := range r.entries {
		out[i] = d.Type
	}
	return out
}

// Lookup returns every descriptor registered under typ.
func (r *Registry) Lookup(typ string) []*Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*Descriptor
	for _, d := range r.entries {
		if d.Type == typ {
			out = append(out, d)
		}
	}
	return out
}

// Len returns the number of descriptors.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

var defaultRegistry = NewRegistry()

// Default returns the process-wide registry the chart package fills at init.
func Default() *Registry { return defaultRegistry }

// Register appends d to the default registry.
func Register(d Descriptor) error { return defaultRegistry.Register(d) }

// RegisterFunc appends a predicate-less descriptor to the default registry.
func RegisterFunc(typ string, render RenderFunc) error {
	return defaultRegistry.RegisterFunc(typ, render)
}
