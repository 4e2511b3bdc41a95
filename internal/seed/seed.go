// Package seed fills a development database with fake profiles, threads and replies.
package seed

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"strings"

	"github.com/brianvoe/gofakeit/v6"

	"threadline/internal/model"
	"threadline/internal/repository"
)

// Options controls how much data Run creates.
type Options struct {
	Users            int
	ThreadsPerUser   int
	RepliesPerThread int
}

// Seeder writes through the repositories so seeded rows obey the same rules as live ones.
type Seeder struct {
	users   repository.UserRepository
	threads repository.ThreadRepository
	faker   *gofakeit.Faker
	rng     *rand.Rand
}

func NewSeeder(users repository.UserRepository, threads repository.ThreadRepository, seed int64) *Seeder {
	if seed == 0 {
		seed = rand.Int63()
	}
	return &Seeder{
		users:   users,
		threads: threads,
		faker:   gofakeit.New(seed),
		rng:     rand.New(rand.NewSource(seed)),
	}
}

// Result reports what Run created.
type Result struct {
	Users   []model.User
	Threads int
	Replies int
}

// Run creates opts.Users onboarded profiles, a few top-level threads for each,
// and replies written by other seeded users.
func (s *Seeder) Run(ctx context.Context, opts Options) (*Result, error) {
	res := &Result{}

	for i := 0; i < opts.Users; i++ {
		u, err := s.createUser(ctx, i)
		if err != nil {
			return res, err
		}
		res.Users = append(res.Users, *u)
	}
	log.Printf("[Seed] Users OK: count=%d", len(res.Users))

	if len(res.Users) == 0 {
		return res, nil
	}

	for _, author := range res.Users {
		for j := 0; j < opts.ThreadsPerUser; j++ {
			thread, err := s.threads.Create(ctx, author.ID, s.faker.Sentence(12))
			if err != nil {
				return res, fmt.Errorf("seed thread for user %d: %w", author.ID, err)
			}
			res.Threads++

			for k := 0; k < opts.RepliesPerThread; k++ {
				replier := s.pickOther(res.Users, author.ID)
				if _, err := s.threads.CreateReply(ctx, thread.ID, replier.ID, s.faker.Sentence(8)); err != nil {
					return res, fmt.Errorf("seed reply to thread %d: %w", thread.ID, err)
				}
				res.Replies++
			}
		}
	}
	log.Printf("[Seed] Threads OK: threads=%d replies=%d", res.Threads, res.Replies)

	return res, nil
}

func (s *Seeder) createUser(ctx context.Context, n int) (*model.User, error) {
	bio := s.faker.Sentence(10)
	// suffix keeps usernames unique across the run
	username := fmt.Sprintf("%s%d", strings.ToLower(s.faker.Username()), n)
	if len(username) > model.MaxUsernameLength {
		username = username[len(username)-model.MaxUsernameLength:]
	}

	u := &model.User{
		ExternalID: "seed_" + s.faker.UUID(),
		Username:   username,
		Name:       s.faker.Name(),
		Bio:        &bio,
		Image:      fmt.Sprintf("https://picsum.photos/seed/%s/200/200", s.faker.UUID()),
	}
	if err := s.users.Upsert(ctx, u); err != nil {
		return nil, fmt.Errorf("seed user %s: %w", username, err)
	}
	return u, nil
}

// pickOther returns a random user other than excludeID, or the only user when there is one.
func (s *Seeder) pickOther(users []model.User, excludeID int64) model.User {
	if len(users) == 1 {
		return users[0]
	}
	for {
		u := users[s.rng.Intn(len(users))]
		if u.ID != excludeID {
			return u
		}
	}
}
