package cron

import (
	"context"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"chargehub/config"
	"chargehub/services/sweep"
)

const TypeSweepRun = "sweep:run"

// InitSweepWorker runs the distributed sweep mode in background: an asynq
// scheduler enqueues a sweep task on the configured cadence and the worker
// processes it. With several instances sharing one Redis, only one of them
// picks up each tick; the pass lease covers the rest.
func InitSweepWorker(svc sweep.SweepService) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisSweepDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: config.AppConfig.WorkerConcurrency,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeSweepRun, handleSweepTask(svc))

	scheduler := asynq.NewScheduler(redisOpts, nil)
	spec := "@every " + config.AppConfig.SweepInterval.String()
	if _, err := scheduler.Register(spec, asynq.NewTask(TypeSweepRun, nil)); err != nil {
		log.Fatalf("[SweepWorker] failed to register periodic sweep: %v", err)
	}

	go func() {
		if err := scheduler.Run(); err != nil {
			log.Printf("[SweepWorker] scheduler stopped: %v", err)
		}
	}()

	// Start async worker with retry logic
	go func() {
		log.Println("[SweepWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[SweepWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[SweepWorker] max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

func handleSweepTask(svc sweep.SweepService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		ctx, cancel := context.WithTimeout(ctx, config.AppConfig.SweepTimeout)
		defer cancel()

		// Returning the error lets asynq retry sooner than the next tick;
		// re-running is harmless because released state is idempotent.
		_, err := svc.Run(ctx, time.Now().UTC())
		return err
	}
}
