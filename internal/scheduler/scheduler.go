package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type Task func(ctx context.Context) error

// Every runs task immediately and then on every tick until ctx is cancelled.
func Every(ctx context.Context, interval time.Duration, name string, task Task, log *zap.Logger) {
	t := time.NewTicker(interval)
	defer t.Stop()

	// run immediately
	if err := task(ctx); err != nil {
		log.Error("task failed", zap.String("task", name), zap.Error(err))
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := task(ctx); err != nil {
				log.Error("task failed", zap.String("task", name), zap.Error(err))
			}
		}
	}
}
