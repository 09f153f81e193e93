package service

import (
	"context"
	"testing"

	"warbler/internal/database"
	"warbler/internal/models"
	"warbler/internal/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a fresh in-memory SQLite database with the full schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, database.Migrate(db))
	return db
}

// signupUser runs the real signup path and returns the stored user.
func signupUser(t *testing.T, auth *AuthService, username string) *models.User {
	t.Helper()

	user, err := auth.Signup(context.Background(), SignupInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	return user
}

func newTestServices(t *testing.T) (*AuthService, *UserService, *MessageService, *gorm.DB) {
	t.Helper()

	db := setupTestDB(t)
	userRepo := repository.NewUserRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	return NewAuthService(userRepo),
		NewUserService(userRepo),
		NewMessageService(messageRepo, true),
		db
}
