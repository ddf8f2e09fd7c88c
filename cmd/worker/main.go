package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/ariefcatur/go-court-reservations/internal/app"
	"github.com/ariefcatur/go-court-reservations/internal/booking"
	"github.com/ariefcatur/go-court-reservations/internal/config"
	kafkax "github.com/ariefcatur/go-court-reservations/internal/kafka"
	"github.com/ariefcatur/go-court-reservations/internal/logging"
	"github.com/ariefcatur/go-court-reservations/internal/service"
	"github.com/ariefcatur/go-court-reservations/internal/worker"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.New(os.Stderr, "error", "text", "court-worker").Error("config", "err", err)
		os.Exit(1)
	}
	name := cfg.ServiceName + "-worker"
	log := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat, name)
	if !cfg.KafkaEnabled() {
		log.Error("KAFKA_BROKERS is required for the worker")
		os.Exit(1)
	}
	loc, _ := cfg.Location()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Store: only a shared database is useful here. With the memory driver
	// notifications go out without names and the API runs completion itself.
	var store booking.Store
	if cfg.StoreDriver == config.DriverPostgres {
		s, closeStore, err := app.OpenStore(ctx, cfg, log)
		if err != nil {
			log.Error("store", "err", err)
			os.Exit(1)
		}
		defer closeStore()
		store = s
	}

	// Redis: dedup keys are scoped to the worker.
	wcfg := *cfg
	wcfg.ServiceName = name
	cache, closeCache := app.OpenCache(ctx, &wcfg, log)
	defer closeCache()

	svc := &worker.Service{
		Store:    store,
		Cache:    cache,
		Notifier: worker.LogNotifier{Log: log},
		Log:      log,
	}

	// Completion publishes status changes like the API does, so users are
	// notified through the same consumer.
	prod := kafkax.NewProducer(cfg.KafkaBrokers, 256, log)
	prod.Start(ctx)

	var sched *worker.Scheduler
	if store != nil {
		club := &service.Service{Store: store, Cache: cache, Publisher: prod, Log: log, Name: name, Location: loc}
		sched, err = worker.NewScheduler(cfg.CompleteSchedule, club, log)
		if err != nil {
			log.Error("scheduler", "err", err)
			os.Exit(1)
		}
		sched.Start()
	}

	// Consumer
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.KafkaGroup, booking.WorkerTopics, cfg.WorkerCount, log)
	go func() {
		log.Info("consumer started", "group", cfg.KafkaGroup, "topics", booking.WorkerTopics, "workers", cfg.WorkerCount)
		if err := cons.Start(ctx, svc.HandleEvent); err != nil {
			log.Error("consumer exit", "err", err)
			cancel()
		}
	}()

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case <-ctx.Done():
	}
	log.Info("shutting down worker")
	if sched != nil {
		sched.Stop()
	}
	prod.Close()
	prod.WaitClosed()
	cancel()
}
