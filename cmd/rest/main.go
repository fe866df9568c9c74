package main

import (
	"context"
	"log"

	"healthmesh-be/internal/bootstrap"
	"healthmesh-be/internal/config"
	"healthmesh-be/internal/server"
	"healthmesh-be/internal/tracer"
	"healthmesh-be/pkg/database"
)

func main() {
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	cfg := config.Load()

	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	container := bootstrap.NewContainer(gormDB, cfg)

	go func() {
		log.Println("Background: Starting Consumer Service...")
		if err := container.ConsumerService.Consume(context.Background()); err != nil {
			log.Printf("Background Consumer Error: %v", err)
		}
	}()

	if err := container.NotificationService.Start(); err != nil {
		log.Printf("Background Notification Error: %v", err)
	}

	srv := server.New(cfg, container)

	log.Fatal(srv.Run())
}
