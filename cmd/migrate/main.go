package main

import (
	"context"
	"fmt"

	"github.com/JSONbored/directory-relay/config"
	"github.com/JSONbored/directory-relay/event/postgres"
)

/* migrate - creates the relay's schema against the configured database
 * Usage: go run cmd/migrate/main.go
 * Requires DATABASE_URL (or a .env file carrying it)
 */

func main() {
	cfg, err := config.GetConfig()
	if err != nil {
		fmt.Printf("❌ Error loading config: %v\n", err)
		return
	}
	if cfg.DatabaseURL == "" {
		fmt.Println("❌ DATABASE_URL is required")
		return
	}

	ctx := context.Background()

	fmt.Println("🔗 Connecting to PostgreSQL...")
	repo, err := postgres.NewRepository(ctx, cfg.DatabaseURL)
	if err != nil {
		fmt.Printf("❌ Connection failed: %v\n", err)
		return
	}
	defer repo.Close(ctx)

	if err := repo.CreateTable(ctx); err != nil {
		fmt.Printf("❌ Migration failed: %v\n", err)
		return
	}

	fmt.Println("✓ inbound_events table is ready")
}
