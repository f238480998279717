package metric

import (
	"fmt"
	"math"

	"github.com/prometheus/common/model"
)

// Kind defines the semantic type of a metric.
type Kind string

const (
	KindGauge     Kind = "gauge"
	KindCounter   Kind = "counter"
	KindHistogram Kind = "histogram"
)

// Descriptor holds immutable metric metadata.
type Descriptor struct {
	Name string
	Help string
	Kind Kind

	// Buckets are the inclusive upper bounds of a histogram, ascending.
	// The +Inf bucket is implicit.
	Buckets []float64
}

// Gauge returns a gauge descriptor.
func Gauge(name, help string) Descriptor {
	return Descriptor{Name: name, Help: help, Kind: KindGauge}
}

// Counter returns a counter descriptor.
func Counter(name, help string) Descriptor {
	return Descriptor{Name: name, Help: help, Kind: KindCounter}
}

// Histogram returns a histogram descriptor with the given bucket bounds.
func Histogram(name, help string, buckets ...float64) Descriptor {
	return Descriptor{Name: name, Help: help, Kind: KindHistogram, Buckets: buckets}
}

// Validate checks name syntax, kind and bucket layout.
func (d Descriptor) Validate() error {
	if !model.IsValidLegacyMetricName(d.Name) {
		return fmt.Errorf("%w: invalid name %q", ErrInvalidDescriptor, d.Name)
	}

	switch d.Kind {
	case KindGauge, KindCounter:
		if len(d.Buckets) > 0 {
			return fmt.Errorf("%w: %s %q cannot have buckets", ErrInvalidDescriptor, d.Kind, d.Name)
		}
	case KindHistogram:
		if len(d.Buckets) == 0 {
			return fmt.Errorf("%w: histogram %q needs at least one bucket", ErrInvalidDescriptor, d.Name)
		}
		for i, b := range d.Buckets {
			if math.IsNaN(b) || math.IsInf(b, 0) {
				return fmt.Errorf("%w: histogram %q bucket %v is not finite", ErrInvalidDescriptor, d.Name, b)
			}
			if i > 0 && b <= d.Buckets[i-1] {
				return fmt.Errorf("%w: histogram %q buckets must be strictly ascending", ErrInvalidDescriptor, d.Name)
			}
		}
	default:
		return fmt.Errorf("%w: unsupported kind %q for %q", ErrInvalidDescriptor, d.Kind, d.Name)
	}

	return nil
}

// HistogramValue is the cumulative state of a histogram.
// Counts has one entry per bucket bound plus a trailing +Inf entry.
type HistogramValue struct {
	Counts []uint64
	Sum    float64
	Count  uint64
}

func (h HistogramValue) clone() HistogramValue {
	counts := make([]uint64, len(h.Counts))
	copy(counts, h.Counts)
	return HistogramValue{Counts: counts, Sum: h.Sum, Count: h.Count}
}

// observe records v against bounds using cumulative bucket semantics.
func (h *HistogramValue) observe(bounds []float64, v float64) {
	// Index of the first bound >= v; len(bounds) is the +Inf bucket.
	first := len(bounds)
	for i, b := range bounds {
		if v <= b {
			first = i
			break
		}
	}
	for i := first; i < len(h.Counts); i++ {
		h.Counts[i]++
	}
	h.Sum += v
	h.Count++
}
