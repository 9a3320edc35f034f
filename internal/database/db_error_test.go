package database

import (
	"context"
	"io"
	"testing"

	"staybook/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestDB_ErrorPaths(t *testing.T) {
	logger := zerolog.New(io.Discard)
	db, err := NewDB(":memory:", &logger)
	assert.NoError(t, err)
	db.Close() // Close the DB to trigger errors

	ctx := context.Background()

	t.Run("AppendBooking_Error", func(t *testing.T) {
		err := db.AppendBooking(ctx, &models.Booking{})
		assert.Error(t, err)
	})

	t.Run("FindByCode_Error", func(t *testing.T) {
		_, err := db.FindByCode(ctx, "123456")
		assert.Error(t, err)
	})

	t.Run("LoadAll_Error", func(t *testing.T) {
		_, err := db.LoadAll(ctx)
		assert.Error(t, err)
	})

	t.Run("CountBookings_Error", func(t *testing.T) {
		_, err := db.CountBookings(ctx)
		assert.Error(t, err)
	})
}
