package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "studentblog/internal/errors"
	"studentblog/internal/model"
	"studentblog/internal/repository"
	"studentblog/internal/testutil"
)

func TestUserService_CacheAside(t *testing.T) {
	gormDB := testutil.NewDB(t)
	client, mr := testutil.NewRedis(t)
	repo := repository.NewUserRepository(gormDB)
	svc := NewUserService(repo, client)
	ctx := context.Background()

	user := &model.User{Username: "alice", Email: "alice@example.com", PasswordHash: "hash"}
	require.NoError(t, repo.Create(ctx, user))
	key := "user:" + user.ID.String()

	got, err := svc.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "hash", got.PasswordHash, "first read comes from the database")

	cached, err := mr.Get(key)
	require.NoError(t, err)
	assert.Contains(t, cached, `"username":"alice"`)
	assert.NotContains(t, cached, "hash")

	// the row is gone, so a successful read must be served from Redis
	require.NoError(t, gormDB.Delete(&model.User{}, "id = ?", user.ID).Error)
	got, err = svc.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, model.RoleUser, got.Role)
	assert.Empty(t, got.PasswordHash)

	svc.Invalidate(ctx, user.ID)
	assert.False(t, mr.Exists(key))
	_, err = svc.GetUser(ctx, user.ID)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestUserService_UnknownUser(t *testing.T) {
	client, mr := testutil.NewRedis(t)
	svc := NewUserService(repository.NewUserRepository(testutil.NewDB(t)), client)

	_, err := svc.GetUser(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	assert.Empty(t, mr.Keys(), "misses are not cached")
}
