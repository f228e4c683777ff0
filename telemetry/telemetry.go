// SPDX-License-Identifier: MIT

// Package telemetry installs an OpenTelemetry tracer provider that writes
// pipeline spans as JSON, one run per file.
package telemetry

import (
	"context"
	"fmt"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// ServiceName identifies spans emitted by this module.
const ServiceName = "syntenyqc"

// Provider returns a tracer provider exporting synchronously to w.
// Spans are flushed as they end, so a crashed run still leaves a trace.
func Provider(w io.Writer, version string) (*sdktrace.TracerProvider, error) {
	exp, err := stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, fmt.Errorf("telemetry: exporter: %w", err)
	}
	res := resource.NewSchemaless(
		semconv.ServiceNameKey.String(ServiceName),
		semconv.ServiceVersionKey.String(version),
		attribute.String("service.component", "sieve"),
	)

	return sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exp),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
	), nil
}

// Init installs a Provider writing to w as the global tracer provider and
// returns its shutdown func.
func Init(w io.Writer, version string) (func(context.Context) error, error) {
	tp, err := Provider(w, version)
	if err != nil {
		return nil, err
	}
	otel.SetTracerProvider(tp)

	return tp.Shutdown, nil
}

// Tracer returns the module tracer from the global provider. Without Init it
// is a no-op tracer.
func Tracer() trace.Tracer {
	return otel.Tracer(ServiceName)
}
