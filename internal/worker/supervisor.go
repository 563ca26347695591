package worker

import (
	"context"
	"fmt"
	"time"
)

// Supervise keeps the worker running until ctx is cancelled, restarting Run after a
// failure or panic. The cache store is durable, so a restart only loses the worker's
// in-memory state.
func (w *Worker) Supervise(ctx context.Context) {
	for {
		err := w.runSafe(ctx)
		if ctx.Err() != nil {
			return
		}

		if err != nil {
			w.log.Error("Cache worker exited: %v (restarting in %s)", err, w.restartDelay)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(w.restartDelay):
		}
	}
}

func (w *Worker) runSafe(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return w.Run(ctx)
}
