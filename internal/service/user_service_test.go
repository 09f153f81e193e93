package service

import (
	"context"
	"testing"

	"warbler/internal/cache"
	"warbler/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// enableCache points the cache layer at a throwaway miniredis and disables it
// again when the test ends (re-initializing against the closed address fails
// the ping, which leaves caching off).
func enableCache(t *testing.T) *miniredis.Miniredis {
	t.Helper()

	mr := miniredis.RunT(t)
	cache.InitRedis(mr.Addr())
	t.Cleanup(func() {
		addr := mr.Addr()
		mr.Close()
		cache.InitRedis(addr)
	})
	return mr
}

func TestUserService_UpdateProfile(t *testing.T) {
	auth, users, _, _ := newTestServices(t)
	ctx := context.Background()

	user := signupUser(t, auth, "tuckerdiane")

	updated, err := users.UpdateProfile(ctx, user.ID, UpdateProfileInput{
		Password:       "password123",
		Bio:            "bird enthusiast",
		Location:       "Portland",
		HeaderImageURL: "https://example.com/header.jpg",
	})
	require.NoError(t, err)
	assert.Equal(t, "bird enthusiast", updated.Bio)
	assert.Equal(t, "Portland", updated.Location)
	assert.Equal(t, "https://example.com/header.jpg", updated.HeaderImageURL)
	// Untouched fields keep their values.
	assert.Equal(t, "tuckerdiane", updated.Username)
}

// The cached user payload is JSON and the password digest is stripped by its
// json tag, so a cache hit before an edit must not break the confirmation
// check or clobber the stored digest.
func TestUserService_UpdateProfile_AfterCachedRead(t *testing.T) {
	enableCache(t)

	auth, users, _, _ := newTestServices(t)
	ctx := context.Background()

	user := signupUser(t, auth, "tuckerdiane")

	// Two reads: the first populates the cache, the second is served from it.
	_, err := users.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	cached, err := users.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.Empty(t, cached.Password)

	updated, err := users.UpdateProfile(ctx, user.ID, UpdateProfileInput{
		Password: "password123",
		Bio:      "bird enthusiast",
	})
	require.NoError(t, err)
	assert.Equal(t, "bird enthusiast", updated.Bio)

	// The stored digest survived the edit.
	authed, err := auth.Authenticate(ctx, "tuckerdiane", "password123")
	require.NoError(t, err)
	require.NotNil(t, authed)
}

func TestUserService_UpdateProfile_WrongConfirmationPassword(t *testing.T) {
	auth, users, _, _ := newTestServices(t)
	ctx := context.Background()

	user := signupUser(t, auth, "tuckerdiane")

	_, err := users.UpdateProfile(ctx, user.ID, UpdateProfileInput{
		Password: "not-the-password",
		Bio:      "should not land",
	})
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", appErrorCode(t, err))
	assert.Equal(t, "Access unauthorized", err.(*models.AppError).Message)

	// The edit did not land.
	reloaded, err := users.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, reloaded.Bio)
}

func TestUserService_UpdateProfile_AnonymousActor(t *testing.T) {
	_, users, _, _ := newTestServices(t)

	_, err := users.UpdateProfile(context.Background(), 0, UpdateProfileInput{
		Password: "password123",
	})
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", appErrorCode(t, err))
}

func TestUserService_UpdateProfile_DuplicateUsername(t *testing.T) {
	auth, users, _, _ := newTestServices(t)
	ctx := context.Background()

	signupUser(t, auth, "alice")
	bob := signupUser(t, auth, "bob")

	_, err := users.UpdateProfile(ctx, bob.ID, UpdateProfileInput{
		Password: "password123",
		Username: "alice",
	})
	require.Error(t, err)
	assert.Equal(t, "DUPLICATE", appErrorCode(t, err))
}

func TestUserService_UpdateProfile_InvalidFields(t *testing.T) {
	auth, users, _, _ := newTestServices(t)
	ctx := context.Background()

	user := signupUser(t, auth, "tuckerdiane")

	_, err := users.UpdateProfile(ctx, user.ID, UpdateProfileInput{
		Password: "password123",
		Location: "a location well beyond twenty characters",
	})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", appErrorCode(t, err))

	_, err = users.UpdateProfile(ctx, user.ID, UpdateProfileInput{
		Password: "password123",
		ImageURL: "not a url",
	})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", appErrorCode(t, err))
}

func TestUserService_DeleteAccount(t *testing.T) {
	auth, users, messages, db := newTestServices(t)
	ctx := context.Background()

	user := signupUser(t, auth, "tuckerdiane")
	posted, err := messages.Post(ctx, user.ID, "about to vanish")
	require.NoError(t, err)

	require.NoError(t, users.DeleteAccount(ctx, user.ID))

	_, err = users.GetUserByID(ctx, user.ID)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", appErrorCode(t, err))

	var messageCount int64
	require.NoError(t, db.Model(&models.Message{}).Where("id = ?", posted.ID).Count(&messageCount).Error)
	assert.Zero(t, messageCount)
}

func TestUserService_DeleteAccount_StaleActor(t *testing.T) {
	auth, users, _, _ := newTestServices(t)
	ctx := context.Background()

	user := signupUser(t, auth, "tuckerdiane")
	require.NoError(t, users.DeleteAccount(ctx, user.ID))

	// A second delete with the same (now stale) identity reports not found.
	err := users.DeleteAccount(ctx, user.ID)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", appErrorCode(t, err))
}
