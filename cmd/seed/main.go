// Command seed fills the database with reference data and a fake community.
package main

import (
	"context"
	"fmt"
	"log"

	"cinetheque/internal/config"
	"cinetheque/internal/database"
	"cinetheque/internal/seed"

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

	seeder, err := seed.NewSeeder(db, seed.DefaultOptions())
	if err != nil {
		log.Fatalf("Failed to prepare seeder: %v", err)
	}

	summary, err := seeder.Run(context.Background())
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	fmt.Println("✅ Seeding complete")
	fmt.Printf("   users=%d movies=%d series=%d\n", summary.Users, summary.Movies, summary.Series)
	fmt.Printf("   topics=%d posts=%d replies=%d votes=%d\n", summary.Topics, summary.Posts, summary.Replies, summary.Votes)
	fmt.Printf("   playlists=%d bookmarks=%d skipped=%d\n", summary.Playlists, summary.Bookmarks, summary.Skipped)
	fmt.Printf("   stats: processed=%d failed=%d in %s\n", summary.Stats.Processed, summary.Stats.Failed, summary.Stats.Duration)
	fmt.Printf("   every user logs in with password %q\n", seed.Password)
}
