package observability

import (
	"context"
	"runtime"
	"strings"

	"github.com/samber/lo"
	otelruntime "go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel/metric"
)

const (
	MetricAppGoroutines = "xset.app.goroutines"
	MetricAppProcesses  = "xset.app.processes"
)

func appMeterName(name string) string {
	builder := &strings.Builder{}
	builder.WriteString("xset/app/")
	if len(strings.TrimSpace(name)) > 0 {
		builder.WriteString(name)
	} else {
		builder.WriteString("default")
	}
	return builder.String()
}

// RegisterAppStats attaches the process gauges and the go runtime
// instrumentation to mp.
func RegisterAppStats(mp metric.MeterProvider, name string) error {
	meter := mp.Meter(
		appMeterName(name),
		metric.WithInstrumentationVersion(otelruntime.Version()),
	)
	_ = lo.Must[metric.Int64ObservableUpDownCounter](meter.Int64ObservableUpDownCounter(
		MetricAppGoroutines,
		metric.WithDescription(`The application goroutines' info.`),
		metric.WithInt64Callback(func(ctx context.Context, ob metric.Int64Observer) error {
			ob.Observe(int64(runtime.NumGoroutine()))
			return nil
		}),
	))
	_ = lo.Must[metric.Int64ObservableUpDownCounter](meter.Int64ObservableUpDownCounter(
		MetricAppProcesses,
		metric.WithDescription(`The application processes' info.`),
		metric.WithInt64Callback(func(ctx context.Context, ob metric.Int64Observer) error {
			ob.Observe(int64(runtime.GOMAXPROCS(0)))
			return nil
		}),
	))
	return otelruntime.Start(otelruntime.WithMeterProvider(mp))
}
