package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"disclosure-engine-be/internal/bootstrap"
	"disclosure-engine-be/internal/config"
	"disclosure-engine-be/internal/server"
	"disclosure-engine-be/internal/tracer"
	"disclosure-engine-be/pkg/database"

	gormLogger "gorm.io/gorm/logger"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	// 2. Tracer (opt-in)
	shutdownTracer := tracer.InitTracer(cfg.App.OtelEnabled)
	defer shutdownTracer(context.Background())

	// 3. Initialize Database
	level := gormLogger.Info
	if cfg.IsProduction() {
		level = gormLogger.Warn
	}
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection, level)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 4. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)
	defer container.Close()

	// 5. Start Background Services
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Println("Background: Starting report worker...")
	if err := container.ConsumerService.Consume(ctx); err != nil {
		log.Printf("Background Consumer Error: %v", err)
	}

	// 6. Run Server until a signal arrives
	srv := server.New(cfg, container)
	go func() {
		<-ctx.Done()
		log.Println("Shutting down...")
		if err := srv.Shutdown(); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
	}()

	if err := srv.Run(); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}
