// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/confdoc

package confdoc

import (
	"io"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
)

// instrumentationName identifies confdoc spans and metrics.
const instrumentationName = "github.com/woozymasta/confdoc"

// newTracer returns tracer from provider or the global provider when nil.
func newTracer(provider trace.TracerProvider) trace.Tracer {
	if provider == nil {
		provider = otel.GetTracerProvider()
	}

	return provider.Tracer(instrumentationName)
}

// newLoadCounter returns schema load counter from provider or the global provider when nil.
func newLoadCounter(provider metric.MeterProvider) metric.Int64Counter {
	if provider == nil {
		provider = otel.GetMeterProvider()
	}

	counter, err := provider.Meter(instrumentationName).Int64Counter(
		"confdoc.schema.loads",
		metric.WithDescription("Schema loads by outcome"),
		metric.WithUnit("{load}"),
	)
	if err != nil {
		otel.Handle(err)
		return noop.Int64Counter{}
	}

	return counter
}

// loggerOrDiscard returns logger or a logger dropping every record.
func loggerOrDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return logger
}
