package main

import (
	"context"
	"os"

	"github.com/samber/lo"
	"go.uber.org/fx"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/benz9527/xset/lib/tree"
	"github.com/benz9527/xset/lib/tree/dot"
	"github.com/benz9527/xset/lib/xlog"
)

// Graph name written into set.dot.
const dotGraphName = "AST"

type stepKind uint8

const (
	stepInsert stepKind = iota
	stepErase
)

func (k stepKind) String() string {
	if k == stepInsert {
		return "insert"
	}
	return "erase"
}

type scenarioStep struct {
	kind stepKind
	keys []int
}

// Exercises every insert case and every erase case at least once.
var demoScenario = []scenarioStep{
	{stepInsert, []int{30, 20, 10, 40, 50, 6, 7, 8}},
	{stepErase, []int{7, 6, 30}},
	{stepInsert, []int{100, 33, 47, 7}},
	{stepErase, []int{50, 100}},
	{stepInsert, []int{50, 100}},
	{stepErase, []int{47, 50}},
}

func runScenario(set tree.RBSet[int], steps []scenarioStep, logger xlog.XLogger) error {
	for _, step := range steps {
		for _, key := range step.keys {
			switch step.kind {
			case stepInsert:
				inserted, err := set.Insert(key)
				if err != nil {
					logger.ErrorStack(err, "insert failed", zap.Int("key", key), zap.Int64("size", set.Len()))
					return err
				}
				logger.Debug("insert", zap.Int("key", key), zap.Bool("inserted", inserted), zap.Int64("size", set.Len()))
			case stepErase:
				removed := set.Erase(key)
				logger.Debug("erase", zap.Int("key", key), zap.Int("removed", removed), zap.Int64("size", set.Len()))
			default:
			}
		}
		if err := tree.Validate[int](set, nil); err != nil {
			logger.Error(err, "invariants broken", zap.Stringer("after", step.kind), zap.Ints("keys", step.keys))
			return err
		}
	}
	logger.Info("scenario done",
		zap.Int64("size", set.Len()),
		zap.Int("height", tree.Height[int](set)),
		zap.Ints("preorder", lo.Map(set.Snapshot(), func(view tree.RBNodeView[int], _ int) int {
			return view.Key
		})),
	)
	return nil
}

func writeDOT(path string, set tree.RBSet[int]) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()
	return dot.Write[int](f, set.Snapshot(), dot.WithGraphName(dotGraphName))
}

func registerScenario(lc fx.Lifecycle, cfg *config, set tree.RBSet[int], logger xlog.XLogger) {
	lc.Append(fx.StartHook(func(ctx context.Context) error {
		if err := runScenario(set, demoScenario, logger); err != nil {
			return err
		}
		if err := writeDOT(cfg.out, set); err != nil {
			logger.Error(err, "write dot failed", zap.String("out", cfg.out))
			return err
		}
		logger.Info("dot written", zap.String("out", cfg.out))
		return nil
	}))
}
