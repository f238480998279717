package metric

import "errors"

var (
	// ErrDuplicateMetric is returned when a name is registered twice.
	ErrDuplicateMetric = errors.New("duplicate metric")

	// ErrUnknownMetric is returned for updates to unregistered names.
	ErrUnknownMetric = errors.New("unknown metric")

	// ErrTypeMismatch is returned when an update does not match the metric kind.
	ErrTypeMismatch = errors.New("metric type mismatch")

	// ErrInvalidDelta is returned for negative or non-finite counter increments.
	ErrInvalidDelta = errors.New("invalid counter delta")

	// ErrInvalidObservation is returned for non-finite histogram observations.
	ErrInvalidObservation = errors.New("invalid histogram observation")

	// ErrInvalidDescriptor is returned when a descriptor fails validation.
	ErrInvalidDescriptor = errors.New("invalid metric descriptor")
)
