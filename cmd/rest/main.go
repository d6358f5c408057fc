package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"ai-agent-gateway-be/internal/bootstrap"
	"ai-agent-gateway-be/internal/config"
	"ai-agent-gateway-be/internal/server"
	"ai-agent-gateway-be/internal/tracer"
	"ai-agent-gateway-be/pkg/database"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Start Background Services
	log.Println("Background: Starting Webhook Delivery Worker...")
	if err := container.DeliveryWorker.Start(); err != nil {
		log.Fatalf("Failed to start delivery worker: %v", err)
	}

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Run Server with graceful shutdown
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig

		log.Println("Shutting down...")
		if err := srv.Shutdown(); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
		container.Flush()
	}()

	if err := srv.Run(); err != nil {
		log.Fatal(err)
	}
}
