package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"kycgate/internal/events"
	"kycgate/internal/kyc/handler"
	kycmetrics "kycgate/internal/kyc/metrics"
	"kycgate/internal/kyc/service"
	"kycgate/internal/kyc/store"
	"kycgate/internal/ocr"
	"kycgate/internal/platform/config"
	"kycgate/internal/platform/httpserver"
	"kycgate/internal/platform/logger"
	"kycgate/internal/platform/metrics"
	"kycgate/internal/platform/middleware"
	"kycgate/internal/platform/redis"
	"kycgate/internal/storage"
	"kycgate/pkg/platform/httputil"
)

// main wires dependencies and keeps the server lifecycle small. Business
// logic lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	ctx := context.Background()

	// Submission corpus: postgres when configured, in-memory otherwise.
	var submissionStore store.Store
	if cfg.DatabaseURL != "" {
		db, err := store.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Error("postgres connection failed", "error", err.Error())
			os.Exit(1)
		}
		defer db.Close()
		submissionStore = store.NewPostgres(db)
		log.Info("using postgres submission store")
	} else {
		submissionStore = store.NewInMemoryStore()
		log.Warn("DATABASE_URL not set, using in-memory submission store")
	}

	// Image store: disk when configured, inline references otherwise.
	var imageStore storage.ImageStore
	if cfg.ImageStoreRoot != "" {
		ds, err := storage.NewDiskStore(cfg.ImageStoreRoot)
		if err != nil {
			log.Error("image store init failed", "error", err.Error())
			os.Exit(1)
		}
		imageStore = ds
	} else {
		imageStore = storage.NewInlineStore()
		log.Warn("IMAGE_STORE_ROOT not set, keeping images inline on records")
	}

	// Verdict events: best-effort, disabled without brokers.
	var publisher events.Publisher = events.NoopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kp, err := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, log)
		if err != nil {
			log.Error("kafka publisher init failed", "error", err.Error())
			os.Exit(1)
		}
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = kp.Close(closeCtx)
		}()
		publisher = kp
	}

	redisClient, err := redis.New(cfg.RedisURL)
	if err != nil {
		log.Error("redis connection failed", "error", err.Error())
		os.Exit(1)
	}
	if redisClient == nil {
		log.Warn("REDIS_URL not set, submit rate limiting disabled")
	}

	pipelineMetrics := kycmetrics.New()
	httpMetrics := metrics.New()

	svc, err := service.New(submissionStore, ocr.NewTesseractRecognizer(), imageStore,
		service.WithLogger(log),
		service.WithMetrics(pipelineMetrics),
		service.WithEventPublisher(publisher),
		service.WithTracing(),
		service.WithDuplicateThreshold(cfg.DuplicateThreshold),
		service.WithOCR(cfg.OCRLanguage, cfg.OCRTimeout),
	)
	if err != nil {
		log.Error("service init failed", "error", err.Error())
		os.Exit(1)
	}

	var limiterMW func(http.Handler) http.Handler
	if redisClient != nil {
		limiter := middleware.NewRateLimiter(redisClient.Client, cfg.SubmitRatePerMinute, time.Minute, log)
		limiterMW = limiter.Limit
	}

	handlerOpts := []handler.Option{handler.WithLogger(log)}
	if limiterMW != nil {
		handlerOpts = append(handlerOpts, handler.WithSubmitMiddleware(limiterMW))
	}

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.Recovery(log),
		middleware.Logger(log),
		middleware.ContentTypeJSON,
		middleware.LatencyMiddleware(httpMetrics),
		middleware.Timeout(2*time.Minute),
	)
	handler.New(svc, handlerOpts...).Register(router)

	router.Handle("/metrics", promhttp.Handler())
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if redisClient != nil {
			if err := redisClient.Health(r.Context()); err != nil {
				httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
				return
			}
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	srv := httpserver.New(cfg.Addr, router)
	log.Info("starting kycgate", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err.Error())
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err.Error())
		os.Exit(1)
	}
	log.Info("kycgate stopped")
}
