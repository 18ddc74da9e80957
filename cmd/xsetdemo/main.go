// Command xsetdemo replays a fixed sequence of inserts and erases on a
// red-black set, checks its invariants and writes the final shape as a
// graphviz file.
//
//	xsetdemo --out set.dot && dot -Tpng set.dot -o set.png
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/pflag"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/benz9527/xset/lib/tree"
	"github.com/benz9527/xset/lib/xlog"
	"github.com/benz9527/xset/observability"
)

const appName = "xsetdemo"

type config struct {
	out        string
	logLevel   string
	logEncoder string
	metrics    bool
	maxNodes   int

	// Redirections, std streams when nil.
	logOut     io.Writer
	metricsOut io.Writer
}

func parseFlags(args []string) (*config, error) {
	cfg := &config{}
	fs := pflag.NewFlagSet(appName, pflag.ContinueOnError)
	fs.StringVarP(&cfg.out, "out", "o", "set.dot", "graphviz output file")
	fs.StringVar(&cfg.logLevel, "log-level", "info", "debug|info|warn|error")
	fs.StringVar(&cfg.logEncoder, "log-encoder", "json", "json|text")
	fs.BoolVar(&cfg.metrics, "metrics", false, "print the set metrics on exit")
	fs.IntVar(&cfg.maxNodes, "max-nodes", 0, "bound the node arena, 0 is unbounded")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if cfg.out == "" {
		return nil, fmt.Errorf("[%s] empty output path", appName)
	}
	if cfg.maxNodes < 0 {
		return nil, fmt.Errorf("[%s] negative max nodes %d", appName, cfg.maxNodes)
	}
	return cfg, nil
}

func newLogger(lc fx.Lifecycle, cfg *config) (xlog.XLogger, error) {
	lvl, err := xlog.ParseLogLevel(cfg.logLevel)
	if err != nil {
		return nil, err
	}
	enc, err := xlog.ParseLogEncoder(cfg.logEncoder)
	if err != nil {
		return nil, err
	}
	opts := []xlog.XLoggerOption{
		xlog.WithXLoggerLevel(lvl),
		xlog.WithXLoggerEncoder(enc),
	}
	if cfg.logOut != nil {
		opts = append(opts, xlog.WithXLoggerWriteSyncer(zapcore.Lock(zapcore.AddSync(cfg.logOut))))
	}
	logger := xlog.NewXLogger(opts...)
	// Appended first, so it runs after every other stop hook.
	lc.Append(fx.StopHook(func() {
		_ = logger.Sync()
	}))
	return logger, nil
}

func newMeterProvider(lc fx.Lifecycle, cfg *config, logger xlog.XLogger) (metric.MeterProvider, error) {
	if !cfg.metrics {
		return noop.NewMeterProvider(), nil
	}
	mp, shutdown, err := observability.NewConsoleMetricsExporter(cfg.metricsOut, time.Minute, 5*time.Second)
	if err != nil {
		return nil, err
	}
	if err = observability.RegisterAppStats(mp, appName); err != nil {
		return nil, err
	}
	lc.Append(fx.StopHook(func(ctx context.Context) error {
		logger.Debug("flushing metrics")
		return shutdown(ctx)
	}))
	return mp, nil
}

func newSet(lc fx.Lifecycle, cfg *config, mp metric.MeterProvider, logger xlog.XLogger) tree.RBSet[int] {
	opts := []tree.RBSetOption[int]{
		tree.WithRBSetMeter[int](mp.Meter("xset/rbset")),
	}
	if cfg.maxNodes > 0 {
		opts = append(opts, tree.WithRBSetAllocator[int](tree.BoundedAllocator(cfg.maxNodes)))
	}
	set := tree.NewRBSet[int](opts...)
	lc.Append(fx.StopHook(func() {
		logger.Debug("releasing set", zap.Int64("size", set.Len()))
		set.Release()
	}))
	return set
}

func newApp(cfg *config, opts ...fx.Option) *fx.App {
	opts = append([]fx.Option{
		fx.Supply(cfg),
		fx.Provide(
			newLogger,
			newMeterProvider,
			newSet,
		),
		fx.WithLogger(func(logger xlog.XLogger) fxevent.Logger {
			return xlog.NewFxXLogger(logger)
		}),
		fx.Invoke(registerScenario),
	}, opts...)
	return fx.New(opts...)
}

func run(cfg *config) error {
	app := newApp(cfg)
	if err := app.Err(); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.Start(ctx); err != nil {
		return err
	}
	return app.Stop(ctx)
}

func main() {
	cfg, err := parseFlags(os.Args[1:])
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err = run(cfg); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
