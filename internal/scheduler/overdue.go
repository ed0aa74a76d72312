// Package scheduler runs the background jobs of the billing service. The
// only job today is the overdue sweep; invoice OVERDUE transitions are
// time-based and never computed inside the pricing core.
package scheduler

import (
	"context"
	"time"

	"github.com/couriersync/billing/internal/config"
	invoicedomain "github.com/couriersync/billing/internal/invoice/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("scheduler",
	fx.Invoke(RunOverdueSweep),
)

func RunOverdueSweep(lc fx.Lifecycle, cfg config.Config, svc invoicedomain.Service, log *zap.Logger) {
	interval, err := time.ParseDuration(cfg.Scheduler.OverdueSweepInterval)
	if err != nil || interval <= 0 {
		interval = time.Hour
	}

	sweepLog := log.Named("scheduler.overdue")
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				ticker := time.NewTicker(interval)
				defer ticker.Stop()
				for {
					select {
					case <-ctx.Done():
						return
					case <-ticker.C:
						flipped, err := svc.SweepOverdue(ctx)
						if err != nil {
							sweepLog.Error("overdue sweep failed", zap.Error(err))
							continue
						}
						if flipped > 0 {
							sweepLog.Info("invoices marked overdue", zap.Int("count", flipped))
						}
					}
				}
			}()
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			<-done
			return nil
		},
	})
}
