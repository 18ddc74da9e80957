package tree

import (
	"context"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const (
	MetricInserts   = "xset.rbset.inserts"
	MetricErases    = "xset.rbset.erases"
	MetricRotations = "xset.rbset.rotations"
	MetricFixups    = "xset.rbset.fixup.steps"
	MetricSize      = "xset.rbset.size"

	MetricOutcomeKey = attribute.Key("outcome")
)

var (
	outcomeInserted    = metric.WithAttributeSet(attribute.NewSet(MetricOutcomeKey.String("inserted")))
	outcomeDuplicate   = metric.WithAttributeSet(attribute.NewSet(MetricOutcomeKey.String("duplicate")))
	outcomeAllocFailed = metric.WithAttributeSet(attribute.NewSet(MetricOutcomeKey.String("alloc_failed")))
	outcomeRemoved     = metric.WithAttributeSet(attribute.NewSet(MetricOutcomeKey.String("removed")))
	outcomeAbsent      = metric.WithAttributeSet(attribute.NewSet(MetricOutcomeKey.String("absent")))
)

// rbSetStats never blocks, so the engine stays free of suspension points.
type rbSetStats struct {
	ctx       context.Context
	inserts   metric.Int64Counter
	erases    metric.Int64Counter
	rotations metric.Int64Counter
	fixups    metric.Int64Counter
	size      metric.Int64UpDownCounter
}

func newRBSetStats(meter metric.Meter) *rbSetStats {
	if meter == nil {
		meter = noop.NewMeterProvider().Meter("xset/rbset")
	}
	return &rbSetStats{
		ctx: context.Background(),
		inserts: lo.Must[metric.Int64Counter](meter.Int64Counter(
			MetricInserts,
			metric.WithDescription(`The rbset insert calls by outcome.`),
		)),
		erases: lo.Must[metric.Int64Counter](meter.Int64Counter(
			MetricErases,
			metric.WithDescription(`The rbset erase calls by outcome.`),
		)),
		rotations: lo.Must[metric.Int64Counter](meter.Int64Counter(
			MetricRotations,
			metric.WithDescription(`The rbset single rotations.`),
		)),
		fixups: lo.Must[metric.Int64Counter](meter.Int64Counter(
			MetricFixups,
			metric.WithDescription(`The rbset rebalance loop iterations.`),
		)),
		size: lo.Must[metric.Int64UpDownCounter](meter.Int64UpDownCounter(
			MetricSize,
			metric.WithDescription(`The rbset stored keys.`),
		)),
	}
}

func (stats *rbSetStats) inserted() {
	stats.inserts.Add(stats.ctx, 1, outcomeInserted)
	stats.size.Add(stats.ctx, 1)
}

func (stats *rbSetStats) duplicated() {
	stats.inserts.Add(stats.ctx, 1, outcomeDuplicate)
}

func (stats *rbSetStats) allocFailed() {
	stats.inserts.Add(stats.ctx, 1, outcomeAllocFailed)
}

func (stats *rbSetStats) removed() {
	stats.erases.Add(stats.ctx, 1, outcomeRemoved)
	stats.size.Add(stats.ctx, -1)
}

func (stats *rbSetStats) absent() {
	stats.erases.Add(stats.ctx, 1, outcomeAbsent)
}

func (stats *rbSetStats) rotated() {
	stats.rotations.Add(stats.ctx, 1)
}

func (stats *rbSetStats) rebalanced(steps int64) {
	if steps > 0 {
		stats.fixups.Add(stats.ctx, steps)
	}
}

func (stats *rbSetStats) released(n int64) {
	if n > 0 {
		stats.size.Add(stats.ctx, -n)
	}
}
