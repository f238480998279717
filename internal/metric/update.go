package metric

import "fmt"

// Op identifies the operation carried by an Update.
type Op uint8

const (
	OpSet Op = iota + 1
	OpAdd
	OpObserve
)

// String returns the op name.
func (o Op) String() string {
	switch o {
	case OpSet:
		return "set"
	case OpAdd:
		return "add"
	case OpObserve:
		return "observe"
	default:
		return fmt.Sprintf("op(%d)", uint8(o))
	}
}

// kind returns the metric kind an op applies to.
func (o Op) kind() Kind {
	switch o {
	case OpSet:
		return KindGauge
	case OpAdd:
		return KindCounter
	case OpObserve:
		return KindHistogram
	default:
		return ""
	}
}

// Update is a single write produced by a sampler.
type Update struct {
	Name  string
	Op    Op
	Value float64
}

// Set replaces a gauge value.
func Set(name string, v float64) Update {
	return Update{Name: name, Op: OpSet, Value: v}
}

// Add increments a counter by delta.
func Add(name string, delta float64) Update {
	return Update{Name: name, Op: OpAdd, Value: delta}
}

// Observe records a histogram observation.
func Observe(name string, v float64) Update {
	return Update{Name: name, Op: OpObserve, Value: v}
}
