package metrics

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// OTelExporter provides OpenTelemetry metrics export following OTel standards
type OTelExporter struct {
	meterProvider *sdkmetric.MeterProvider
	collector     Collector

	// OTel meters and instruments
	meter            metric.Meter
	statusCountGauge metric.Int64ObservableGauge

	receivedCounter metric.Int64Counter
	rejectedCounter metric.Int64Counter
	dispatchCounter metric.Int64Counter
}

// NewOTelExporter creates a new OpenTelemetry metrics exporter with Prometheus format
func NewOTelExporter(collector Collector) (*OTelExporter, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return nil, fmt.Errorf("creating prometheus exporter: %w", err)
	}

	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
	)
	otel.SetMeterProvider(meterProvider)

	meter := meterProvider.Meter(
		"directory-relay",
		metric.WithInstrumentationVersion("1.0.0"),
	)

	oe := &OTelExporter{
		meterProvider: meterProvider,
		collector:     collector,
		meter:         meter,
	}

	if err := oe.registerInstruments(); err != nil {
		return nil, fmt.Errorf("registering instruments: %w", err)
	}

	return oe, nil
}

// registerInstruments creates and registers all OpenTelemetry metric instruments
func (oe *OTelExporter) registerInstruments() error {
	var err error

	// Status count gauge (per lifecycle state)
	oe.statusCountGauge, err = oe.meter.Int64ObservableGauge(
		"relay.events.status.count",
		metric.WithDescription("Number of stored events by lifecycle state"),
		metric.WithUnit("{events}"),
		metric.WithInt64Callback(oe.observeStatusCounts),
	)
	if err != nil {
		return fmt.Errorf("creating status count gauge: %w", err)
	}

	oe.receivedCounter, err = oe.meter.Int64Counter(
		"relay.events.received",
		metric.WithDescription("Verified webhook deliveries accepted, by source and dedup result"),
		metric.WithUnit("{events}"),
	)
	if err != nil {
		return fmt.Errorf("creating received counter: %w", err)
	}

	oe.rejectedCounter, err = oe.meter.Int64Counter(
		"relay.events.rejected",
		metric.WithDescription("Webhook deliveries rejected before ingestion, by reason"),
		metric.WithUnit("{events}"),
	)
	if err != nil {
		return fmt.Errorf("creating rejected counter: %w", err)
	}

	oe.dispatchCounter, err = oe.meter.Int64Counter(
		"relay.dispatch.deliveries",
		metric.WithDescription("Outbound notification attempts, by reconciliation action and outcome"),
		metric.WithUnit("{deliveries}"),
	)
	if err != nil {
		return fmt.Errorf("creating dispatch counter: %w", err)
	}

	return nil
}

// observeStatusCounts is a callback that reports stored event counts per state
func (oe *OTelExporter) observeStatusCounts(ctx context.Context, observer metric.Int64Observer) error {
	counts, err := oe.collector.GetStatusCounts(ctx)
	if err != nil {
		return err
	}

	for state, count := range counts {
		observer.Observe(count, metric.WithAttributes(
			attribute.String("event.state", state),
		))
	}

	return nil
}

// RecordReceived counts an accepted delivery, distinguishing first
// deliveries from acknowledged duplicates
func (oe *OTelExporter) RecordReceived(ctx context.Context, source string, duplicate bool) {
	result := "stored"
	if duplicate {
		result = "duplicate"
	}
	oe.receivedCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("event.source", source),
		attribute.String("event.result", result),
	))
}

// RecordRejected counts a delivery turned away before ingestion
func (oe *OTelExporter) RecordRejected(ctx context.Context, reason string) {
	oe.rejectedCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("event.reason", reason),
	))
}

// RecordDispatch counts an outbound notification attempt
func (oe *OTelExporter) RecordDispatch(ctx context.Context, action string, delivered bool) {
	outcome := "delivered"
	if !delivered {
		outcome = "failed"
	}
	oe.dispatchCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("dispatch.action", action),
		attribute.String("dispatch.outcome", outcome),
	))
}

// ServeHTTP serves Prometheus-formatted metrics on the given HTTP handler
func (oe *OTelExporter) ServeHTTP() http.Handler {
	return promhttp.Handler()
}

// Shutdown gracefully shuts down the meter provider
func (oe *OTelExporter) Shutdown(ctx context.Context) error {
	if oe.meterProvider != nil {
		return oe.meterProvider.Shutdown(ctx)
	}
	return nil
}
