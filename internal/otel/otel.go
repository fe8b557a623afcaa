package otel

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"storefront/internal/log"
)

const appName = "storefront"

var Tracer = otel.Tracer(appName)

type ShutdownFunc func(context.Context) error

func RecordError(err error, span trace.Span) {
	if err == nil {
		return
	}
	span.AddEvent(err.Error())
	span.SetStatus(codes.Error, err.Error())
	span.RecordError(err)
}

// InitOtelSdk wires the OTLP trace pipeline. An empty endpoint leaves the
// global no-op provider in place.
func InitOtelSdk(c context.Context, endpoint string) (ShutdownFunc, error) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "InitOtelSdk").
		Logger()

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	if endpoint == "" {
		logger.Info().
			Str(log.KeyProcess, "Init TracerProvider").
			Msg("otel endpoint is empty, tracing disabled")
		return func(context.Context) error { return nil }, nil
	}

	logger.Info().
		Str(log.KeyProcess, "Init TraceExporter").
		Msg("initializing traceExporter")
	traceExporter, err := otlptracegrpc.New(
		c,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		err = errors.Join(err, errors.New("failed creating traceExporter"))
		logger.Error().
			Err(err).
			Str(log.KeyProcess, "Init TraceExporter").
			Msg(err.Error())
		return nil, err
	}
	logger.Info().
		Str(log.KeyProcess, "Init TraceExporter").
		Msg("initialized traceExporter")

	logger.Info().
		Str(log.KeyProcess, "Init TracerProvider").
		Msg("initializing tracerProvider")
	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter, sdktrace.WithBatchTimeout(5*time.Second)),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(appName),
		)),
	)
	otel.SetTracerProvider(tracerProvider)
	logger.Info().
		Str(log.KeyProcess, "Init TracerProvider").
		Msg("initialized tracerProvider")

	return tracerProvider.Shutdown, nil
}
