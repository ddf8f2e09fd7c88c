package main

import (
	"context"
	"crypto/rand"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ariefcatur/go-court-reservations/internal/app"
	"github.com/ariefcatur/go-court-reservations/internal/auth"
	"github.com/ariefcatur/go-court-reservations/internal/config"
	"github.com/ariefcatur/go-court-reservations/internal/httpx"
	kafkax "github.com/ariefcatur/go-court-reservations/internal/kafka"
	"github.com/ariefcatur/go-court-reservations/internal/logging"
	"github.com/ariefcatur/go-court-reservations/internal/service"
	"github.com/ariefcatur/go-court-reservations/internal/worker"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.New(os.Stderr, "error", "text", "court-api").Error("config", "err", err)
		os.Exit(1)
	}
	log := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat, cfg.ServiceName)
	loc, _ := cfg.Location()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Store
	store, closeStore, err := app.OpenStore(ctx, cfg, log)
	if err != nil {
		log.Error("store", "err", err)
		os.Exit(1)
	}
	defer closeStore()

	// Redis
	cache, closeCache := app.OpenCache(ctx, cfg, log)
	defer closeCache()

	// Kafka producer
	var pub service.Publisher = kafkax.Nop{}
	var prod *kafkax.Producer
	if cfg.KafkaEnabled() {
		prod = kafkax.NewProducer(cfg.KafkaBrokers, 1024, log)
		prod.Start(ctx)
		pub = prod
	} else {
		log.Info("kafka disabled, events are dropped")
	}

	secret := []byte(cfg.JWTSecret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			log.Error("jwt secret", "err", err)
			os.Exit(1)
		}
		log.Warn("JWT_SECRET not set, using a random secret; tokens will not survive a restart")
	}
	tokens := &auth.Tokens{Secret: secret, TTL: cfg.JWTTTL, Issuer: cfg.ServiceName}

	svc := &service.Service{
		Store:     store,
		Cache:     cache,
		Publisher: pub,
		Tokens:    tokens,
		Log:       log,
		Name:      cfg.ServiceName,
		Location:  loc,
	}

	// The worker cannot see an in-memory store, so this process completes
	// finished reservations itself.
	var sched *worker.Scheduler
	if cfg.StoreDriver == config.DriverMemory {
		sched, err = worker.NewScheduler(cfg.CompleteSchedule, svc, log)
		if err != nil {
			log.Error("scheduler", "err", err)
			os.Exit(1)
		}
		sched.Start()
	}

	router := httpx.NewRouter(log)
	api := &httpx.API{
		Svc:          svc,
		Tokens:       tokens,
		Log:          log,
		LoginLimiter: httpx.NewRateLimiter(cfg.LoginRPS, cfg.LoginBurst),
	}
	api.Register(router)

	// HTTP server
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("http listening", "addr", cfg.HTTPAddr, "store", cfg.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("listen", "err", err)
			os.Exit(1)
		}
	}()

	// wait signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	if sched != nil {
		sched.Stop()
	}
	if prod != nil {
		prod.Close()      // flush queued events
		prod.WaitClosed() // drain
	}
	cancel()
}
