// Command forumstats recomputes every user's forum statistics and reputation.
package main

import (
	"context"
	"fmt"
	"log"

	"cinetheque/internal/config"
	"cinetheque/internal/database"
	"cinetheque/internal/repository"
	"cinetheque/internal/service"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	stats := service.NewStatsService(repository.NewStatsRepository(db), repository.NewUserRepository(db))
	result, err := stats.RecomputeAll(context.Background())
	if err != nil {
		log.Fatalf("Forum stats rollup failed: %v", err)
	}

	fmt.Printf("✅ Updated forum stats for %d users in %s\n", result.Processed, result.Duration)
	if result.Failed > 0 {
		fmt.Printf("⚠️  %d users failed; see log for details\n", result.Failed)
	}
}
