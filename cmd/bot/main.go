package main

import (
	"context"
	"log"

	"chat-moderation-be/internal/bootstrap"
	"chat-moderation-be/internal/config"
	"chat-moderation-be/internal/model"
	"chat-moderation-be/internal/server"
	"chat-moderation-be/internal/tracer"
	"chat-moderation-be/pkg/database"

	"gorm.io/gorm"
)

func main() {
	// 0. Initialize Tracer
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()
	if err := cfg.ResolveGroupNum(); err != nil {
		log.Fatalf("[FATAL] %v", err)
	}
	log.Printf("[INFO] Moderating group %s (channels: %s, %s, %s)",
		cfg.Bot.GroupNum, cfg.GroupChannel(), cfg.ModChannel(), cfg.CommitteeChannel())

	// 2. Initialize Database (optional case archive)
	var gormDB *gorm.DB
	if cfg.Database.Connection != "" {
		db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
		if err != nil {
			log.Panicf("Unable to connect to GORM DB: %v", err)
		}
		if err := db.AutoMigrate(&model.ModerationCase{}); err != nil {
			log.Panicf("Unable to migrate case archive: %v", err)
		}
		gormDB = db
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Start Background Services
	go func() {
		log.Println("Background: Starting Ingest Service...")
		if err := container.IngestService.Consume(context.Background()); err != nil {
			log.Printf("Background Ingest Error: %v", err)
		}
	}()

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Run Server
	log.Fatal(srv.Run())
}
