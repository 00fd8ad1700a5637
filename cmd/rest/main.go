package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"querynotes-be/internal/bootstrap"
	"querynotes-be/internal/config"
	"querynotes-be/internal/server"
	"querynotes-be/internal/tracer"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// 1. Load Configuration
	cfg := config.Load()
	if cfg.Auth.JwtSecret == "" {
		log.Fatal("[FATAL] JWT_SECRET is required")
	}

	// 2. Initialize Tracer
	shutdownTracer := tracer.InitTracer(cfg.Tracing)

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(cfg)

	// 4. Start Background Services
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		log.Println("[INFO] Background: Starting Consumer Service...")
		if err := container.ConsumerService.Consume(ctx); err != nil {
			log.Printf("[WARN] Background Consumer Error: %v", err)
		}
	}()

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Run Server
	go func() {
		if err := srv.Run(); err != nil {
			log.Printf("[FATAL] Server stopped: %v", err)
			cancel()
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case <-ctx.Done():
	}

	log.Println("[INFO] Shutting down...")
	if err := srv.Shutdown(shutdownTimeout); err != nil {
		log.Printf("[WARN] Server shutdown: %v", err)
	}
	cancel()
	container.Close()
	if err := shutdownTracer(context.Background()); err != nil {
		log.Printf("[WARN] Tracer shutdown: %v", err)
	}
}
