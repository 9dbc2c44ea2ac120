package main

// Run database migrations or provision DynamoDB tables:
//   go run ./cmd/migrate

import (
	"context"
	"log"
	"os"

	"docreview-backend/internal/shared/config"
	"docreview-backend/internal/shared/storage/db"
	"docreview-backend/internal/shared/storage/dynamo"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	switch cfg.DocumentDB {
	case "dynamodb":
		client, err := dynamo.NewClient(ctx, cfg.AWSRegion, cfg.AWSEndpointURL)
		if err != nil {
			log.Printf("failed to build dynamodb client: %v", err)
			os.Exit(1)
		}
		for _, table := range []string{cfg.DynamoDocsTable, cfg.DynamoAppsTable} {
			created, err := dynamo.EnsureTable(ctx, client, table)
			if err != nil {
				log.Printf("failed to ensure table %s: %v", table, err)
				os.Exit(1)
			}
			log.Printf("table %s ready (created=%t)", table, created)
		}
	case "memory":
		log.Printf("DOCUMENT_DB=memory; nothing to migrate")
	default:
		opts := db.OptionsFromEnv(db.DefaultMigrateOptions())
		sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
		if err != nil {
			log.Printf("failed to connect database: %v", err)
			os.Exit(1)
		}
		defer sqlDB.Close()

		if err := db.RunMigrations(ctx, sqlDB); err != nil {
			log.Printf("failed to run migrations: %v", err)
			os.Exit(1)
		}
	}
}
