package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"skiphire/frontend/skips"
	"skiphire/infrastructure/audit"
	"skiphire/infrastructure/cache"
	"skiphire/infrastructure/config"
	httpserver "skiphire/infrastructure/http"
	"skiphire/infrastructure/pricing"
	"skiphire/infrastructure/sqlite"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	db, err := sqlite.OpenDB(cfg.SQLitePath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := sqlite.ApplyEmbeddedMigrations(context.Background(), db); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}

	source := pricing.NewClient(cfg.PricingBaseURL, pricing.Location{Postcode: cfg.Postcode, Area: cfg.Area}, cfg.FetchTimeout)
	pages := cache.NewPageCache[*skips.Page]()
	auditSvc := audit.NewService()

	server := httpserver.NewServer(cfg, db, source, pages, auditSvc)
	if err := server.Start(); err != nil {
		log.Fatalf("start server: %v", err)
	}
	log.Printf("skiphire listening on %s (pricing %s)", cfg.Addr, source.Endpoint())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	if err := server.Stop(); err != nil {
		log.Printf("graceful shutdown error: %v", err)
	}
}
