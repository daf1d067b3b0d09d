// The auto-server relies on otelhttp for instrumentation: one server span
// per request, created by the middleware, with no explicit spans or log
// events in the handlers. Compare with cmd/manual-server.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"oteldemo/user-service/internal/config"
	"oteldemo/user-service/internal/httpapi"
	"oteldemo/user-service/internal/obs"
	"oteldemo/user-service/internal/service"
	"oteldemo/user-service/internal/store"
	"oteldemo/user-service/internal/store/memory"
	"oteldemo/user-service/internal/store/postgres"
	"oteldemo/user-service/internal/telemetry"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	cfg := config.Load()
	shutdownTelemetry := telemetry.Setup("otel-demo-auto")
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTelemetry(ctx)
	}()

	var users store.UserStore
	var sessions store.SessionStore
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("db connect: %v", err)
		}
		defer pool.Close()
		st := postgres.NewStore(pool)
		users, sessions = st, st
	} else {
		st := memory.New()
		users, sessions = st, st
	}

	var verifier service.Verifier = service.PlaintextVerifier{}
	if cfg.PasswordScheme == "bcrypt" {
		verifier = service.BcryptVerifier{}
	}

	svc := service.New(users, sessions, service.Options{
		Verifier:   verifier,
		SessionTTL: cfg.SessionTTL,
	})
	handler := httpapi.NewHandler(svc, obs.Nop())

	otelHandler := otelhttp.NewHandler(httpapi.CORSMiddleware(httpapi.LoggingMiddleware(handler.Routes())), "user-service")
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      otelHandler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("auto-server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
