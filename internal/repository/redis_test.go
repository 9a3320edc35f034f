package repository

import (
	"context"
	"testing"
	"time"

	"staybook/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisSessionRepository(t *testing.T) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	defer s.Close()

	client := redis.NewClient(&redis.Options{
		Addr: s.Addr(),
	})
	defer client.Close()

	repo := NewRedisSessionRepository(client, 10*time.Minute)
	ctx := context.Background()

	t.Run("SaveAndGetSession", func(t *testing.T) {
		session := &models.VerificationSession{
			ID:       "sess-1",
			Email:    "a@b.com",
			Code:     "123456",
			IssuedAt: time.Now().UTC().Truncate(time.Second),
		}

		err := repo.SaveSession(ctx, session)
		require.NoError(t, err)

		got, err := repo.GetSession(ctx, "sess-1")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, session.Email, got.Email)
		assert.Equal(t, session.Code, got.Code)
		assert.False(t, got.Confirmed)
	})

	t.Run("GetNonExistentSession", func(t *testing.T) {
		got, err := repo.GetSession(ctx, "missing")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("ConfirmedFlagRoundTrip", func(t *testing.T) {
		session := &models.VerificationSession{ID: "sess-2", Email: "x@y.com", Code: "654321", IssuedAt: time.Now()}
		require.NoError(t, repo.SaveSession(ctx, session))

		session.Confirmed = true
		require.NoError(t, repo.SaveSession(ctx, session))

		got, err := repo.GetSession(ctx, "sess-2")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.True(t, got.Confirmed)
	})

	t.Run("DeleteSession", func(t *testing.T) {
		session := &models.VerificationSession{ID: "sess-3", Email: "x@y.com", Code: "111111", IssuedAt: time.Now()}
		require.NoError(t, repo.SaveSession(ctx, session))

		err := repo.DeleteSession(ctx, "sess-3")
		require.NoError(t, err)

		got, _ := repo.GetSession(ctx, "sess-3")
		assert.Nil(t, got)
	})

	t.Run("SessionExpiresWithTTL", func(t *testing.T) {
		session := &models.VerificationSession{ID: "sess-4", Email: "x@y.com", Code: "222222", IssuedAt: time.Now()}
		require.NoError(t, repo.SaveSession(ctx, session))

		s.FastForward(11 * time.Minute)

		got, err := repo.GetSession(ctx, "sess-4")
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestRedisSessionRepositoryNilClient(t *testing.T) {
	repo := NewRedisSessionRepository(nil, time.Minute)
	ctx := context.Background()

	_, err := repo.GetSession(ctx, "any")
	assert.Error(t, err)
	assert.Error(t, repo.SaveSession(ctx, &models.VerificationSession{ID: "any"}))
	assert.Error(t, repo.DeleteSession(ctx, "any"))
}
