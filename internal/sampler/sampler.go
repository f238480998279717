// Package sampler turns raw host readings into metric updates.
//
// Each sampler owns the previous readings it needs for deltas and rates.
// That state is only touched from Collect, which the scheduler never calls
// concurrently for the same sampler.
package sampler

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"time"

	"github.com/neox5/hostbox/internal/metric"
	"github.com/neox5/hostbox/internal/probe"
)

// Sampler produces metric updates for one resource domain.
type Sampler interface {
	// Name identifies the sampler in logs and configuration.
	Name() string

	// Describe returns every metric the sampler writes. Called once at startup.
	Describe() []metric.Descriptor

	// Collect reads the host and returns one batch of updates.
	Collect(ctx context.Context) ([]metric.Update, error)
}

// ErrorKind classifies collection failures.
type ErrorKind int

const (
	Unavailable ErrorKind = iota + 1
	PermissionDenied
	ParseError
)

func (k ErrorKind) String() string {
	switch k {
	case Unavailable:
		return "unavailable"
	case PermissionDenied:
		return "permission_denied"
	case ParseError:
		return "parse_error"
	default:
		return "unknown"
	}
}

// CollectionError is returned by Collect when the host cannot be read.
type CollectionError struct {
	Sampler string
	Kind    ErrorKind
	Err     error
}

func (e *CollectionError) Error() string {
	return fmt.Sprintf("%s sampler: %s: %v", e.Sampler, e.Kind, e.Err)
}

func (e *CollectionError) Unwrap() error {
	return e.Err
}

// classify wraps a probe error into a CollectionError.
func classify(sampler string, err error) error {
	var ce *CollectionError
	if errors.As(err, &ce) {
		return err
	}

	kind := Unavailable
	var numErr *strconv.NumError
	var parseErr *probe.ParseError
	switch {
	case errors.Is(err, fs.ErrPermission):
		kind = PermissionDenied
	case errors.As(err, &numErr), errors.As(err, &parseErr):
		kind = ParseError
	}

	return &CollectionError{Sampler: sampler, Kind: kind, Err: err}
}

// Clock returns the current time. Samplers that compute rates take one so
// tests can control elapsed time.
type Clock func() time.Time

// Names lists the samplers in their default order.
var Names = []string{"cpu", "memory", "disk", "network", "system"}

// Options configures the sampler set built by New.
type Options struct {
	// MountPoint is the filesystem reported by the disk sampler.
	MountPoint string
}

// New builds the named sampler on top of the local host probes.
func New(name string, opts Options) (Sampler, error) {
	h := probe.Host{}
	switch name {
	case "cpu":
		return NewCPU(h), nil
	case "memory":
		return NewMemory(h), nil
	case "disk":
		return NewDisk(h, opts.MountPoint), nil
	case "network":
		return NewNetwork(h, time.Now), nil
	case "system":
		return NewSystem(h), nil
	default:
		return nil, fmt.Errorf("unknown sampler: %s", name)
	}
}
