package repository

import (
	"context"
	"testing"
	"time"

	"warbler/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowRepository_FollowAndIsFollowing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	require.NoError(t, repo.Follow(ctx, alice.ID, bob.ID))

	following, err := repo.IsFollowing(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, following)

	// Follows are directed; the reverse edge is independent.
	reverse, err := repo.IsFollowing(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, reverse)

	followedBy, err := repo.IsFollowedBy(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, followedBy)
}

func TestFollowRepository_Follow_Idempotent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	require.NoError(t, repo.Follow(ctx, alice.ID, bob.ID))
	require.NoError(t, repo.Follow(ctx, alice.ID, bob.ID))

	var count int64
	require.NoError(t, db.Model(&models.Follow{}).
		Where("follower_id = ? AND followed_id = ?", alice.ID, bob.ID).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestFollowRepository_Unfollow_AbsentIsNoop(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	require.NoError(t, repo.Unfollow(ctx, alice.ID, bob.ID))

	require.NoError(t, repo.Follow(ctx, alice.ID, bob.ID))
	require.NoError(t, repo.Unfollow(ctx, alice.ID, bob.ID))

	following, err := repo.IsFollowing(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, following)
}

func TestFollowRepository_FollowersAndFollowing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")

	// bob and carol follow alice; alice follows carol.
	base := time.Now().UTC().Add(-time.Hour)
	require.NoError(t, db.Create(&models.Follow{
		FollowerID: bob.ID, FollowedID: alice.ID, CreatedAt: base,
	}).Error)
	require.NoError(t, db.Create(&models.Follow{
		FollowerID: carol.ID, FollowedID: alice.ID, CreatedAt: base.Add(time.Minute),
	}).Error)
	require.NoError(t, db.Create(&models.Follow{
		FollowerID: alice.ID, FollowedID: carol.ID, CreatedAt: base.Add(2 * time.Minute),
	}).Error)

	followers, err := repo.Followers(ctx, alice.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, followers, 2)
	// Newest edge first.
	assert.Equal(t, "carol", followers[0].Username)
	assert.Equal(t, "bob", followers[1].Username)

	following, err := repo.Following(ctx, alice.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, following, 1)
	assert.Equal(t, "carol", following[0].Username)

	page, err := repo.Followers(ctx, alice.ID, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "bob", page[0].Username)
}
