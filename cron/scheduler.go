package cron

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"chargehub/config"
	"chargehub/services/sweep"
)

// StartScheduler triggers the sweep on the configured fixed cadence.
// An invocation that is still running when the next tick fires makes the
// tick a no-op (SkipIfStillRunning), so at most one pass is in flight per
// process.
func StartScheduler(svc sweep.SweepService, logger *zap.Logger) *cron.Cron {
	cronLogger := cron.PrintfLogger(zap.NewStdLog(logger))
	c := cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cronLogger),
		cron.Recover(cronLogger),
	))

	interval := config.AppConfig.SweepInterval
	_, err := c.AddFunc("@every "+interval.String(), func() {
		ctx, cancel := context.WithTimeout(context.Background(), config.AppConfig.SweepTimeout)
		defer cancel()
		// Run logs its own outcome; the trigger never treats a failed pass
		// as fatal, so scheduling always continues.
		_, _ = svc.Run(ctx, time.Now().UTC())
	})
	if err != nil {
		logger.Fatal("cron: failed to register sweep job", zap.Error(err))
	}

	c.Start()
	logger.Info("cron: sweep scheduler started", zap.Duration("interval", interval))
	return c
}
