package main

import (
	"log"

	"docreview-backend/internal/bootstrap"
	"docreview-backend/internal/shared/config"
	"docreview-backend/internal/shared/server"
)

func main() {
	cfg := config.Load()
	app, err := bootstrap.Build(cfg)
	if err != nil {
		log.Fatalf("bootstrap build: %v", err)
	}
	defer app.Close()

	addr := server.Addr(cfg.Port)
	log.Printf("Starting API server on %s (env=%s store=%s db=%s)", addr, cfg.Env, cfg.ObjectStoreType, cfg.DocumentDB)

	if err := app.Router.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
