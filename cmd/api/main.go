package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"articlehub.org/internal/auth"
	"articlehub.org/internal/httpapi"
	"articlehub.org/internal/obs"
	"articlehub.org/internal/store/pg"
)

var (
	version = "0.3.1"
	commit  = "dev"
)

func main() {
	obs.Init()
	obs.InitBuildInfo(version, commit)

	dsn := os.Getenv("HUB_PG_DSN")
	if dsn == "" {
		log.Fatal("HUB_PG_DSN is required")
	}
	store, err := pg.Open(dsn)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer store.Close()

	// Fail-fast: a weak token secret must never make it past startup.
	tokens, err := auth.NewTokens(os.Getenv("HUB_JWT_SECRET"))
	if err != nil {
		log.Fatalf("token setup: %v", err)
	}

	var attempts auth.AttemptStore
	if addr := os.Getenv("HUB_REDIS_ADDR"); addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: os.Getenv("HUB_REDIS_PASSWORD"),
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := client.Ping(pingCtx).Err(); err != nil {
			cancel()
			log.Fatalf("redis ping failed: %v", err)
		}
		cancel()
		defer client.Close()
		attempts = auth.NewRedisAttemptStore(client)
	} else {
		mem := auth.NewMemoryAttemptStore()
		defer mem.Close()
		attempts = mem
	}

	sessions := auth.NewService(auth.NewPGUserStore(store.DB()), tokens, attempts)

	api := httpapi.New(
		httpapi.ReadyProbe{DB: store.DB()},
		version,
		sessions,
		store,
		httpapi.WithCookieSecure(os.Getenv("HUB_COOKIE_SECURE") == "true"),
	)

	addr := os.Getenv("HUB_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("Starting articlehub-api %s on %s", version, srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	log.Println("Stopped")
}
