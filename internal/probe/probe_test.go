package probe

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCPUTimesTotal(t *testing.T) {
	ct := CPUTimes{User: 1, Nice: 2, System: 3, Idle: 4, Iowait: 5, Irq: 6, Softirq: 7, Steal: 8}
	require.Equal(t, 36.0, ct.Total())
}

func TestParseErrorUnwrap(t *testing.T) {
	_, cause := strconv.ParseFloat("x", 64)
	err := &ParseError{Source: "/proc/loadavg", Err: cause}

	var numErr *strconv.NumError
	require.True(t, errors.As(err, &numErr))
	require.Contains(t, err.Error(), "/proc/loadavg")
}

func TestHostMemory(t *testing.T) {
	m, err := Host{}.Memory(context.Background())
	if err != nil {
		t.Skipf("memory not readable here: %v", err)
	}
	require.Positive(t, m.Total)
	require.LessOrEqual(t, m.Available, m.Total)
}
