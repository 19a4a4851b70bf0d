package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BerylCAtieno/ai-stack-agent/internal/a2a"
	"github.com/BerylCAtieno/ai-stack-agent/internal/api"
	"github.com/BerylCAtieno/ai-stack-agent/internal/checkout"
	"github.com/BerylCAtieno/ai-stack-agent/internal/config"
	"github.com/BerylCAtieno/ai-stack-agent/internal/logger"
	"github.com/BerylCAtieno/ai-stack-agent/internal/notify"
	"github.com/BerylCAtieno/ai-stack-agent/internal/observability"
	"github.com/BerylCAtieno/ai-stack-agent/internal/pipeline"
	"github.com/BerylCAtieno/ai-stack-agent/internal/ratelimit"
	"github.com/BerylCAtieno/ai-stack-agent/internal/stackgen"
	"github.com/BerylCAtieno/ai-stack-agent/internal/store"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

const serviceName = "ai-stack-agent"

func newServeCmd() *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), migrate)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", true, "Run database migrations before serving")
	return cmd
}

func runServe(parent context.Context, migrate bool) error {
	cfg := config.Load()

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing := observability.Init(ctx, log, observability.Config{
		Enabled:     cfg.Otel.Enabled,
		ServiceName: serviceName,
		Environment: cfg.AppEnv,
		Version:     version,
		Endpoint:    cfg.Otel.Endpoint,
		Insecure:    cfg.Otel.Insecure,
		SampleRatio: cfg.Otel.SampleRatio,
	})

	st, err := store.Open(cfg.DBDriver, cfg.DatabaseURL, log)
	if err != nil {
		return err
	}
	defer st.Close()
	if migrate {
		if err := st.AutoMigrate(); err != nil {
			return err
		}
	}

	model, closeModel, err := stackgen.NewModel(ctx, cfg.Generation)
	if err != nil {
		return err
	}
	defer closeModel()

	queue := notify.NewQueue(newMailer(cfg, log), log, notify.QueueConfig{
		Workers:     cfg.Notify.Workers,
		Size:        cfg.Notify.QueueSize,
		Timeout:     cfg.Notify.Timeout,
		FrontendURL: cfg.FrontendURL,
	})

	var provider checkout.PaymentProvider
	if cfg.Checkout.StripeSecretKey != "" {
		provider = checkout.NewStripeProvider(cfg.Checkout.StripeSecretKey, nil)
	} else {
		log.Warn("STRIPE_SECRET_KEY not set, checkout disabled")
	}
	payments := checkout.NewService(provider, checkout.Config{
		DefaultAmount: cfg.Checkout.DefaultAmount,
		Currency:      cfg.Checkout.Currency,
	}, log)

	limiters, closeLimiters := newLimiters(ctx, cfg, log)
	defer closeLimiters()

	stacks := pipeline.New(st, stackgen.New(model, log), queue, log, pipeline.Options{
		GenerationTimeout: cfg.Generation.Timeout,
	})

	routerCfg := api.RouterConfig{
		Stacks:      api.NewStackHandler(stacks, payments, log),
		Agent:       a2a.NewHandler(stacks, cfg.BaseURL, log),
		Limiters:    limiters,
		Log:         log,
		Production:  cfg.IsProduction(),
		FrontendURL: cfg.FrontendURL,
	}
	if cfg.Otel.Enabled {
		routerCfg.ServiceName = serviceName
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.NewRouter(routerCfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("AI stack agent starting", "port", cfg.Port, "env", cfg.AppEnv, "provider", model.Name())
		log.Info("Agent card available", "url", cfg.BaseURL+"/.well-known/agent.json")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		log.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP shutdown failed", "error", err)
	}
	if err := queue.Close(); err != nil {
		log.Error("Notification queue shutdown failed", "error", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Warn("Tracer shutdown failed", "error", err)
	}
	log.Info("Server stopped")
	return nil
}

func newMailer(cfg config.Config, log *logger.Logger) notify.Mailer {
	if cfg.Email.SendGridAPIKey == "" {
		log.Warn("SENDGRID_API_KEY not set, results emails will only be logged")
		return notify.NewLogMailer(log)
	}
	sg, err := notify.NewSendGrid(log, notify.SendGridConfig{
		APIKey:    cfg.Email.SendGridAPIKey,
		BaseURL:   cfg.Email.SendGridBaseURL,
		FromEmail: cfg.Email.FromEmail,
		FromName:  cfg.Email.FromName,
		Timeout:   cfg.Notify.Timeout,
	})
	if err != nil {
		log.Warn("SendGrid disabled", "error", err)
		return notify.NewLogMailer(log)
	}
	return sg
}

// newLimiters uses Redis when REDIS_ADDR answers a ping and process memory
// otherwise.
func newLimiters(ctx context.Context, cfg config.Config, log *logger.Logger) (api.Limiters, func()) {
	if !cfg.RateLimit.Enabled {
		log.Warn("Rate limiting disabled")
		return api.Limiters{}, func() {}
	}

	var counter ratelimit.Store = ratelimit.NewMemoryStore()
	closeFn := func() {}
	if cfg.RateLimit.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RateLimit.RedisAddr,
			Password: cfg.RateLimit.RedisPassword,
			DB:       cfg.RateLimit.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Warn("Redis unavailable, using in-memory rate limiting", "addr", cfg.RateLimit.RedisAddr, "error", err)
			_ = rdb.Close()
		} else {
			log.Info("Redis connected for rate limiting", "addr", cfg.RateLimit.RedisAddr)
			counter = ratelimit.NewRedisStore(rdb)
			closeFn = func() { _ = rdb.Close() }
		}
	}

	return api.Limiters{
		General:  ratelimit.New(counter, ratelimit.GeneralRule, log),
		Generate: ratelimit.New(counter, ratelimit.GenerateRule, log),
		Results:  ratelimit.New(counter, ratelimit.ResultsRule, log),
	}, closeFn
}
