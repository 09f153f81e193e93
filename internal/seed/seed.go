// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"warbler/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumMessages int
	ShouldClean bool
}

// Seeder populates the database with fake but plausible social data.
type Seeder struct {
	db *gorm.DB
	r  *rand.Rand
}

// NewSeeder returns a Seeder bound to the given database.
func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	//nolint:gosec // Weak random number generator is fine for seeding
	return &Seeder{db: db, r: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// Run seeds users, messages, follows and likes per the options.
func (s *Seeder) Run(opts Options) error {
	log.Printf("🌱 Starting database seeding with %d users and %d messages...",
		opts.NumUsers, opts.NumMessages)

	if opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			log.Println("⚠️  Warning: Could not clear all existing data, but continuing anyway...")
		}
	}

	users, err := s.createUsers(opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("✓ %d test users created", len(users))

	messages, err := s.createMessages(users, opts.NumMessages)
	if err != nil {
		return fmt.Errorf("failed to create messages: %w", err)
	}
	log.Printf("✓ %d messages created", len(messages))

	follows, err := s.createFollows(users)
	if err != nil {
		return fmt.Errorf("failed to create follows: %w", err)
	}
	log.Printf("✓ %d follow edges created", follows)

	likes, err := s.createLikes(users, messages)
	if err != nil {
		return fmt.Errorf("failed to create likes: %w", err)
	}
	log.Printf("✓ %d likes created", likes)

	log.Println("🎉 Database seeding completed successfully!")
	return nil
}

// ClearAll wipes every seeded table.
func (s *Seeder) ClearAll() error {
	log.Println("🗑️  Clearing existing data...")
	sql := `TRUNCATE TABLE likes, follows, messages, users RESTART IDENTITY CASCADE;`
	return s.db.Exec(sql).Error
}

func (s *Seeder) createUsers(count int) ([]models.User, error) {
	// All seed users share this password so they are usable from the UI.
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	users := make([]models.User, 0, count)
	for i := 0; i < count; i++ {
		username := seedUsername(i)
		user := models.User{
			Username:       username,
			Email:          gofakeit.Email(),
			Password:       string(hash),
			Bio:            gofakeit.Sentence(8),
			Location:       seedLocation(),
			ImageURL:       fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
			HeaderImageURL: models.DefaultHeaderImageURL,
		}
		if err := s.db.Create(&user).Error; err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

// seedUsername builds a username that fits the 20-character cap and stays
// unique via a numeric suffix.
func seedUsername(i int) string {
	base := strings.ToLower(gofakeit.FirstName())
	if len(base) > 14 {
		base = base[:14]
	}
	return fmt.Sprintf("%s_%d", base, i)
}

// seedLocation trims a fake city to the 20-character location cap.
func seedLocation() string {
	city := gofakeit.City()
	if len(city) > 20 {
		city = city[:20]
	}
	return city
}

func (s *Seeder) createMessages(users []models.User, count int) ([]models.Message, error) {
	if len(users) == 0 {
		return nil, nil
	}

	messages := make([]models.Message, 0, count)
	for i := 0; i < count; i++ {
		text := gofakeit.Sentence(8)
		if len(text) > models.MaxMessageLength {
			text = text[:models.MaxMessageLength]
		}
		message := models.Message{
			Text:      text,
			UserID:    users[s.r.Intn(len(users))].ID,
			CreatedAt: time.Now().Add(-time.Duration(s.r.Intn(30*24)) * time.Hour),
		}
		if err := s.db.Create(&message).Error; err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}
	return messages, nil
}

func (s *Seeder) createFollows(users []models.User) (int, error) {
	created := 0
	for _, follower := range users {
		// Each user follows roughly a third of the others.
		for _, followed := range users {
			if follower.ID == followed.ID || s.r.Intn(3) != 0 {
				continue
			}
			follow := models.Follow{FollowerID: follower.ID, FollowedID: followed.ID}
			if err := s.db.Create(&follow).Error; err != nil {
				return created, err
			}
			created++
		}
	}
	return created, nil
}

func (s *Seeder) createLikes(users []models.User, messages []models.Message) (int, error) {
	created := 0
	for _, user := range users {
		for _, message := range messages {
			if message.UserID == user.ID || s.r.Intn(5) != 0 {
				continue
			}
			like := models.Like{UserID: user.ID, MessageID: message.ID}
			if err := s.db.Create(&like).Error; err != nil {
				return created, err
			}
			created++
		}
	}
	return created, nil
}
