package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	_ "pizzaflow/docs"
	"pizzaflow/pkg/config"
	"pizzaflow/pkg/events"
	"pizzaflow/pkg/httpapi"
	"pizzaflow/pkg/logger"
	"pizzaflow/pkg/metrics"
	"pizzaflow/pkg/order/eta"
	"pizzaflow/pkg/order/ledger"
	"pizzaflow/pkg/otel"
	"pizzaflow/pkg/service"
)

// @title Pizzaria API
// @version 1.0
// @description Order intake for the pizzeria: orders are kept in a binary search tree keyed by delivery time.
// @host localhost:5000
// @BasePath /
func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.New(os.Stderr, logger.LevelError, "pizzaria", nil).Error(context.Background(), "load config", "error", err)
		os.Exit(1)
	}

	log := logger.New(os.Stdout, logger.ParseLevel(cfg.Log.Level), cfg.Tracing.ServiceName, otel.GetTraceID)
	defer func() { _ = log.Sync() }()

	tp, shutdownTracing, err := otel.InitTracing(log, otel.Config{
		ServiceName: cfg.Tracing.ServiceName,
		Host:        cfg.Tracing.Endpoint,
		Probability: cfg.Tracing.Probability,
	})
	if err != nil {
		log.Error(context.Background(), "init tracing", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	publisher := newPublisher(cfg.Events, log)
	defer func() { _ = publisher.Close() }()

	book := ledger.New(ledger.WithBalancing(cfg.Ledger.Balanced))
	svc := service.New(book, eta.New(cfg.ETA),
		service.WithLogger(log),
		service.WithMetrics(m),
		service.WithPublisher(publisher),
	)

	srv := &http.Server{
		Addr: cfg.HTTP.Addr,
		Handler: httpapi.New(httpapi.Config{
			Service:        svc,
			Log:            log,
			Tracer:         tp.Tracer(cfg.Tracing.ServiceName),
			Metrics:        m,
			Gatherer:       reg,
			AllowedOrigins: cfg.HTTP.AllowedOrigins,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info(context.Background(), "listening", "addr", cfg.HTTP.Addr, "balanced", cfg.Ledger.Balanced)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(context.Background(), "server closed", "error", err)
			os.Exit(1)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error(ctx, "shutdown", "error", err)
	}
	log.Info(ctx, "stopped", "orders", book.Count())
}

func newPublisher(cfg config.EventsConfig, log *logger.Logger) events.Publisher {
	switch cfg.Driver {
	case "redis":
		log.Info(context.Background(), "publishing events to redis", "addr", cfg.Redis.Addr, "channel", cfg.Redis.Channel)
		return events.NewRedis(redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr}), cfg.Redis.Channel)
	case "kafka":
		log.Info(context.Background(), "publishing events to kafka", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
		return events.NewKafka(events.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic))
	default:
		return events.Nop{}
	}
}
