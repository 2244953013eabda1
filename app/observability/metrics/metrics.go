package metrics

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	GatewayRequestsTotal   metric.Int64Counter
	GatewayDurationSeconds metric.Float64Histogram
	SessionsCreatedTotal   metric.Int64Counter
	SignupsTotal           metric.Int64Counter
	PlansSavedTotal        metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metrics instruments ONLY ONCE, from the
// globally configured MeterProvider. Instruments that fail to register fall
// back to no-op instruments from the same meter.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("WanderMind")
		m := &AppMetrics{}
		var err error

		m.GatewayRequestsTotal, err = meter.Int64Counter(
			"gateway_requests_total",
			metric.WithDescription("Generative model gateway calls by operation and outcome"),
			metric.WithUnit("{request}"),
		)
		logInstrumentErr("gateway_requests_total", err)

		m.GatewayDurationSeconds, err = meter.Float64Histogram(
			"gateway_duration_seconds",
			metric.WithDescription("Duration of generative model gateway calls in seconds"),
			metric.WithUnit("s"),
		)
		logInstrumentErr("gateway_duration_seconds", err)

		m.SessionsCreatedTotal, err = meter.Int64Counter(
			"sessions_created_total",
			metric.WithDescription("Planning sessions created"),
			metric.WithUnit("{session}"),
		)
		logInstrumentErr("sessions_created_total", err)

		m.SignupsTotal, err = meter.Int64Counter(
			"signups_total",
			metric.WithDescription("User accounts created"),
			metric.WithUnit("{user}"),
		)
		logInstrumentErr("signups_total", err)

		m.PlansSavedTotal, err = meter.Int64Counter(
			"plans_saved_total",
			metric.WithDescription("Itineraries saved as plans"),
			metric.WithUnit("{plan}"),
		)
		logInstrumentErr("plans_saved_total", err)

		appMetrics = m
	})
}

func logInstrumentErr(name string, err error) {
	if err != nil {
		slog.Warn("Metrics: failed to create instrument", slog.String("instrument", name), slog.Any("error", err))
	}
}

// Get returns the global AppMetrics, initializing it against whatever
// MeterProvider is installed (a no-op one in tests).
func Get() *AppMetrics {
	InitAppMetrics()
	return appMetrics
}

// RecordGateway records one gateway call with its outcome.
func (m *AppMetrics) RecordGateway(ctx context.Context, operation string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	attrs := metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("outcome", outcome),
	)
	if m.GatewayRequestsTotal != nil {
		m.GatewayRequestsTotal.Add(ctx, 1, attrs)
	}
	if m.GatewayDurationSeconds != nil {
		m.GatewayDurationSeconds.Record(ctx, time.Since(start).Seconds(), attrs)
	}
}

// Inc adds one to counter if it was registered.
func Inc(ctx context.Context, counter metric.Int64Counter) {
	if counter != nil {
		counter.Add(ctx, 1)
	}
}
