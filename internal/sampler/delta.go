package sampler

// counterDelta tracks one cumulative OS counter across polls.
type counterDelta struct {
	prev uint64
	seen bool
}

// next returns max(0, cur-prev). The first reading only sets the baseline
// and reports ok=false. A counter that went backwards (remount, driver
// reload, wrap) contributes zero and re-bases on the new value.
func (d *counterDelta) next(cur uint64) (delta uint64, ok bool) {
	prev, seen := d.prev, d.seen
	d.prev, d.seen = cur, true
	if !seen {
		return 0, false
	}
	if cur < prev {
		return 0, true
	}
	return cur - prev, true
}

// floatDelta is counterDelta for float counters such as CPU seconds.
type floatDelta struct {
	prev float64
	seen bool
}

func (d *floatDelta) next(cur float64) (delta float64, ok bool) {
	prev, seen := d.prev, d.seen
	d.prev, d.seen = cur, true
	if !seen {
		return 0, false
	}
	if cur < prev {
		return 0, true
	}
	return cur - prev, true
}
