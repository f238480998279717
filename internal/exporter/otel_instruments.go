package exporter

import (
	"context"
	"fmt"

	"github.com/neox5/hostbox/internal/metric"
	otelmetric "go.opentelemetry.io/otel/metric"
)

// instrument is the OTEL observable backing one registry metric.
type instrument struct {
	counter otelmetric.Float64ObservableCounter
	gauge   otelmetric.Float64ObservableGauge
}

// registerOTELInstruments creates an instrument for every gauge and counter
// in the registry. Histograms have no asynchronous OTEL counterpart and are
// only served on the scrape endpoint.
func registerOTELInstruments(e *OTELExporter) error {
	e.instruments = make(map[string]instrument)

	for _, d := range e.registry.Descriptors() {
		var inst instrument

		switch d.Kind {
		case metric.KindCounter:
			counter, err := e.meter.Float64ObservableCounter(
				d.Name,
				otelmetric.WithDescription(d.Help),
			)
			if err != nil {
				return fmt.Errorf("failed to create counter %q: %w", d.Name, err)
			}
			inst.counter = counter

		case metric.KindGauge:
			gauge, err := e.meter.Float64ObservableGauge(
				d.Name,
				otelmetric.WithDescription(d.Help),
			)
			if err != nil {
				return fmt.Errorf("failed to create gauge %q: %w", d.Name, err)
			}
			inst.gauge = gauge

		default:
			e.logger.Debug("skipping otel metric", "name", d.Name, "kind", d.Kind)
			continue
		}

		e.instruments[d.Name] = inst
		e.logger.Debug("registered otel metric", "name", d.Name, "kind", d.Kind)
	}

	return registerOTELCallback(e)
}

// registerOTELCallback observes one registry snapshot per collection.
func registerOTELCallback(e *OTELExporter) error {
	observables := make([]otelmetric.Observable, 0, len(e.instruments))
	for _, inst := range e.instruments {
		if inst.counter != nil {
			observables = append(observables, inst.counter)
		}
		if inst.gauge != nil {
			observables = append(observables, inst.gauge)
		}
	}
	if len(observables) == 0 {
		return nil
	}

	_, err := e.meter.RegisterCallback(
		func(ctx context.Context, observer otelmetric.Observer) error {
			snap := e.registry.Snapshot()
			e.logger.Debug("otel push", "metrics", snap.Len())

			for _, s := range snap.Samples() {
				inst, ok := e.instruments[s.Name]
				if !ok {
					continue
				}
				if inst.counter != nil {
					observer.ObserveFloat64(inst.counter, s.Value)
				}
				if inst.gauge != nil {
					observer.ObserveFloat64(inst.gauge, s.Value)
				}
			}
			return nil
		},
		observables...,
	)
	if err != nil {
		return fmt.Errorf("failed to register callback: %w", err)
	}

	return nil
}
