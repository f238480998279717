package metric

import (
	"fmt"
	"log/slog"
	"math"
	"sync"
)

// Registry owns metric descriptors and their current values.
//
// Writers hold the exclusive lock for the duration of a whole batch and
// readers hold the shared lock while copying, so a snapshot sees either all
// of a batch or none of it.
type Registry struct {
	mu      sync.RWMutex
	entries []*entry
	index   map[string]*entry
}

type entry struct {
	desc      Descriptor
	value     float64
	histogram HistogramValue
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{index: make(map[string]*entry)}
}

// Register adds a descriptor with a zero value.
func (r *Registry) Register(d Descriptor) error {
	if err := d.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.index[d.Name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateMetric, d.Name)
	}

	// Own the bucket slice so callers cannot mutate it later
	buckets := make([]float64, len(d.Buckets))
	copy(buckets, d.Buckets)
	d.Buckets = buckets

	e := &entry{desc: d}
	if d.Kind == KindHistogram {
		e.histogram.Counts = make([]uint64, len(buckets)+1)
	}

	r.entries = append(r.entries, e)
	r.index[d.Name] = e

	slog.Debug("registered metric", "name", d.Name, "type", d.Kind)
	return nil
}

// MustRegister registers all descriptors and panics on the first error.
func (r *Registry) MustRegister(ds ...Descriptor) {
	for _, d := range ds {
		if err := r.Register(d); err != nil {
			panic(err)
		}
	}
}

// SetGauge replaces the value of a gauge.
func (r *Registry) SetGauge(name string, v float64) error {
	return r.Apply([]Update{Set(name, v)})
}

// IncrementCounter adds a non-negative delta to a counter.
func (r *Registry) IncrementCounter(name string, delta float64) error {
	return r.Apply([]Update{Add(name, delta)})
}

// ObserveHistogram records one observation in a histogram.
func (r *Registry) ObserveHistogram(name string, v float64) error {
	return r.Apply([]Update{Observe(name, v)})
}

// Apply writes a batch of updates as one unit. The batch is validated up
// front; if any update is invalid nothing is written.
func (r *Registry) Apply(batch []Update) error {
	if len(batch) == 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	targets := make([]*entry, len(batch))
	for i, u := range batch {
		e, err := r.check(u)
		if err != nil {
			return err
		}
		targets[i] = e
	}

	for i, u := range batch {
		e := targets[i]
		switch u.Op {
		case OpSet:
			e.value = u.Value
		case OpAdd:
			e.value += u.Value
		case OpObserve:
			e.histogram.observe(e.desc.Buckets, u.Value)
		}
	}

	return nil
}

// check resolves the target entry of u. Caller holds r.mu.
func (r *Registry) check(u Update) (*entry, error) {
	e, ok := r.index[u.Name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMetric, u.Name)
	}

	want := u.Op.kind()
	if want == "" {
		return nil, fmt.Errorf("unsupported update %s for %q", u.Op, u.Name)
	}
	if e.desc.Kind != want {
		return nil, fmt.Errorf("%w: %s on %s %q", ErrTypeMismatch, u.Op, e.desc.Kind, u.Name)
	}

	switch u.Op {
	case OpAdd:
		if u.Value < 0 || !finite(u.Value) {
			return nil, fmt.Errorf("%w: %v for %q", ErrInvalidDelta, u.Value, u.Name)
		}
	case OpObserve:
		if !finite(u.Value) {
			return nil, fmt.Errorf("%w: %v for %q", ErrInvalidObservation, u.Value, u.Name)
		}
	}

	return e, nil
}

// Snapshot returns a deep copy of all metrics in registration order.
func (r *Registry) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	samples := make([]Sample, len(r.entries))
	for i, e := range r.entries {
		// Buckets are never mutated after registration and can be shared
		s := Sample{Descriptor: e.desc, Value: e.value}
		if e.desc.Kind == KindHistogram {
			s.Histogram = e.histogram.clone()
		}
		samples[i] = s
	}

	return Snapshot{samples: samples}
}

// Descriptors returns all registered descriptors in registration order.
func (r *Registry) Descriptors() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ds := make([]Descriptor, len(r.entries))
	for i, e := range r.entries {
		ds[i] = e.desc
	}
	return ds
}

// Len returns the number of registered metrics.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
