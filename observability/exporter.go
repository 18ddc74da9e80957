package observability

// https://opentelemetry.io/docs/languages/go/exporters/

import (
	"context"
	"io"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/sdk/metric"
)

// NewConsoleMetricsExporter serves the demo and test environments. The
// periodic reader pushes to w every interval, and the returned shutdown
// flushes whatever is still pending.
func NewConsoleMetricsExporter(
	w io.Writer,
	interval, timeout time.Duration,
	opts ...stdoutmetric.Option,
) (*metric.MeterProvider, func(ctx context.Context) error, error) {
	if w != nil {
		opts = append(opts, stdoutmetric.WithWriter(w))
	}
	exporter, err := stdoutmetric.New(opts...)
	if err != nil {
		return nil, nil, err
	}
	mp := metric.NewMeterProvider(metric.WithReader(metric.NewPeriodicReader(
		exporter,
		metric.WithInterval(interval),
		metric.WithTimeout(timeout),
	)))
	otel.SetMeterProvider(mp)
	return mp, mp.Shutdown, nil
}
