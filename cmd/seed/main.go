// Command seed fills the database with fake users, threads and replies.
package main

import (
	"context"
	"flag"
	"log"

	"threadline/internal/config"
	"threadline/internal/database"
	"threadline/internal/repository"
	"threadline/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 20, "Number of users to create")
	threadsPerUser := flag.Int("threads", 3, "Top-level threads per user")
	repliesPerThread := flag.Int("replies", 2, "Replies per thread")
	seedValue := flag.Int64("seed", 0, "Random seed (0 for random)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := database.Migrate(ctx, db); err != nil {
		log.Fatalf("Failed to migrate: %v", err)
	}

	s := seed.NewSeeder(repository.NewUserRepository(db), repository.NewThreadRepository(db), *seedValue)
	res, err := s.Run(ctx, seed.Options{
		Users:            *numUsers,
		ThreadsPerUser:   *threadsPerUser,
		RepliesPerThread: *repliesPerThread,
	})
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Seeded %d users, %d threads, %d replies", len(res.Users), res.Threads, res.Replies)
}
