package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"demo/grouporders/internal/cache"
	"demo/grouporders/internal/command"
	"demo/grouporders/internal/config"
	"demo/grouporders/internal/events"
	"demo/grouporders/internal/metrics"
	"demo/grouporders/internal/model"
	"demo/grouporders/internal/scheduler"
	"demo/grouporders/internal/service"
	"demo/grouporders/internal/store"
)

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	cfg := config.FromEnv()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		cancel()
	}()

	// Schema first, then the pool.
	if err := store.Migrate(cfg.DBDSN); err != nil {
		log.Fatal("migrate", zap.Error(err))
	}
	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		log.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()
	repo := store.New(pool)

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatal("redis url", zap.Error(err))
	}
	rdb := redis.NewClient(redisOpts)
	defer func() { _ = rdb.Close() }()
	cch := cache.New(rdb)

	if cfg.WarmCache {
		if err := cch.RebuildFrom(ctx, repo); err != nil {
			// The cache is disposable; a failed warm-up only costs reads.
			log.Warn("cache warm failed", zap.Error(err))
		} else {
			log.Info("cache warmed from store")
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	met := metrics.New(reg)

	pub := events.NewKafka(cfg.KafkaBrokers, cfg.EventTopic)
	defer func() { _ = pub.Close() }()

	svc := service.New(repo, cch, pub, log, met, service.Options{
		Restaurants:  cfg.Restaurants,
		CloseAfter:   cfg.DefaultCloseAfter,
		SelectionTTL: cfg.SelectionTTL,
	})

	sched := scheduler.New(repo, svc, cfg.SchedulerInterval, log)
	go sched.Run(ctx)

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.KafkaBrokers,
		Topic:       cfg.CommandTopic,
		GroupID:     cfg.KafkaGroup,
		MinBytes:    1e3,
		MaxBytes:    10e6,
		StartOffset: kafka.FirstOffset,
	})
	defer reader.Close()

	go consumeCommands(ctx, reader, svc, log)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /groups", func(w http.ResponseWriter, r *http.Request) {
		if orders, err := cch.ListOpenOrders(r.Context()); err == nil {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Cache", "HIT")
			_ = json.NewEncoder(w).Encode(orders)
			return
		}
		orders, err := svc.GetActiveOrders(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Cache", "MISS")
		_ = json.NewEncoder(w).Encode(orders)
	})

	mux.HandleFunc("GET /groups/{id}/orders", func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if _, err := repo.GetGroupOrder(r.Context(), id); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				http.NotFound(w, r)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		userOrders, err := repo.ListUserOrdersFor(r.Context(), id)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(userOrders)
	})

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: mux}
	go func() {
		log.Info("http listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shCtx, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(shCtx)
	log.Info("bye")
}

func consumeCommands(ctx context.Context, reader *kafka.Reader, svc *service.Service, log *zap.Logger) {
	for {
		m, err := reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			log.Error("kafka fetch", zap.Error(err))
			time.Sleep(500 * time.Millisecond)
			continue
		}

		cmd, err := command.Decode(m.Value)
		if err != nil {
			log.Warn("invalid command", zap.Int64("offset", m.Offset), zap.Error(err))
			_ = reader.CommitMessages(context.Background(), m)
			continue
		}

		if err := command.Apply(ctx, svc, cmd); err != nil {
			if expected(err) {
				// Declined by the engine, not broken: commit and move on.
				log.Info("command declined",
					zap.String("type", string(cmd.Type)),
					zap.String("user_id", cmd.UserID),
					zap.Error(err))
			} else {
				// Store trouble; leave the offset so the message is retried.
				log.Error("command failed",
					zap.String("type", string(cmd.Type)),
					zap.Int64("offset", m.Offset),
					zap.Error(err))
				continue
			}
		}

		if err := reader.CommitMessages(ctx, m); err != nil {
			log.Error("commit failed", zap.Error(err))
		}
	}
}

// expected reports whether the error is a normal lifecycle outcome
// rather than an infrastructure failure.
func expected(err error) bool {
	var conflict *model.ConflictError
	return errors.Is(err, model.ErrNotFound) ||
		errors.Is(err, model.ErrAlreadyClosed) ||
		errors.Is(err, model.ErrGroupClosed) ||
		errors.Is(err, model.ErrNotLeader) ||
		errors.Is(err, model.ErrUnsupportedRestaurant) ||
		errors.Is(err, model.ErrEmptyItems) ||
		errors.Is(err, model.ErrItemNotFound) ||
		errors.Is(err, model.ErrCloseTimeInPast) ||
		errors.As(err, &conflict)
}
