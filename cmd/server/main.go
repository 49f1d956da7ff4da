package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	stdouttrace "go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/gouravdhdb/storefront/internal/commerce"
	"github.com/gouravdhdb/storefront/internal/dispatch"
	"github.com/gouravdhdb/storefront/internal/httpapi"
	"github.com/gouravdhdb/storefront/internal/port"
	"github.com/gouravdhdb/storefront/internal/store"
)

// @title Storefront API
// @version 1.0
// @description Cart, voucher and order operations for the storefront UI
// @BasePath /
func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	exp, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		log.Fatalf("trace exporter: %v", err)
	}
	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exp))
	otel.SetTracerProvider(tp)
	defer tp.Shutdown(context.Background())

	st, err := buildStore(ctx)
	if err != nil {
		log.Fatalf("store: %v", err)
	}

	dispatcher, closeDispatcher, err := buildDispatcher()
	if err != nil {
		log.Fatalf("dispatcher: %v", err)
	}
	if closeDispatcher != nil {
		defer closeDispatcher()
	}

	machine, err := commerce.New(ctx, commerce.Config{
		Store:      st,
		Dispatcher: dispatcher,
		Notify: func(n commerce.Notification) {
			log.Printf("notification (success=%v): %s", n.Success, n.Message)
		},
	})
	if err != nil {
		log.Fatalf("commerce: %v", err)
	}

	api := httpapi.NewServer(machine)
	srv := &http.Server{Addr: getEnv("HTTP_ADDR", ":8080"), Handler: api.Router}
	go func() {
		log.Printf("http listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	_ = srv.Shutdown(shutdownCtx)
	machine.Wait()
}

func buildStore(ctx context.Context) (port.Store, error) {
	switch backend := getEnv("STORE_BACKEND", "file"); backend {
	case "file":
		return store.NewFile(getEnv("DATA_DIR", "data"))
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: getEnv("REDIS_ADDR", "localhost:6379")})
		return store.NewRedis(client), nil
	case "postgres":
		pool, err := pgxpool.New(ctx, getEnv("DATABASE_URL", "postgres://localhost:5432/storefront"))
		if err != nil {
			return nil, fmt.Errorf("pgxpool.New: %w", err)
		}
		if err := store.EnsureSchema(ctx, pool); err != nil {
			return nil, fmt.Errorf("store.EnsureSchema: %w", err)
		}
		return store.NewPostgres(pool), nil
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", backend)
	}
}

func buildDispatcher() (port.Dispatcher, func() error, error) {
	switch kind := getEnv("DISPATCHER", "none"); kind {
	case "none":
		return nil, nil, nil
	case "telegram":
		token := os.Getenv("TELEGRAM_BOT_TOKEN")
		chatID := os.Getenv("TELEGRAM_CHAT_ID")
		if token == "" || chatID == "" {
			return nil, nil, fmt.Errorf("TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID are required")
		}
		return dispatch.NewTelegram(token, chatID), nil, nil
	case "stan":
		d, err := dispatch.NewStan(
			getEnv("STAN_CLUSTER_ID", "storefront-cluster"),
			getEnv("STAN_CLIENT_ID", fmt.Sprintf("storefront-%d", time.Now().UnixNano())),
			getEnv("NATS_URL", "nats://localhost:4222"),
			getEnv("STAN_SUBJECT", "order-notifications"),
		)
		if err != nil {
			return nil, nil, err
		}
		return d, d.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown DISPATCHER %q", kind)
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
