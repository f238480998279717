package metric

// Sample is one metric as captured by a snapshot.
// Value is used for gauges and counters, Histogram for histograms.
type Sample struct {
	Descriptor
	Value     float64
	Histogram HistogramValue
}

// Snapshot is an immutable, self-consistent copy of a registry.
type Snapshot struct {
	samples []Sample
}

// Samples returns the captured metrics in registration order.
// The returned slice must not be modified.
func (s Snapshot) Samples() []Sample {
	return s.samples
}

// Len returns the number of captured metrics.
func (s Snapshot) Len() int {
	return len(s.samples)
}

// Lookup returns the sample with the given name.
func (s Snapshot) Lookup(name string) (Sample, bool) {
	for _, sample := range s.samples {
		if sample.Name == name {
			return sample, true
		}
	}
	return Sample{}, false
}
