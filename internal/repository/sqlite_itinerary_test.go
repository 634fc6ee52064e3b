package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/travellabs/tripbot/internal/domain"
	"github.com/travellabs/tripbot/internal/testutil"
)

func TestItineraryRepo_UpsertReplaces(t *testing.T) {
	database := testutil.NewTestDB(t)
	trips := NewSQLiteTripRepo(database)
	repo := NewSQLiteItineraryRepo(database)
	ctx := context.Background()

	trip := testutil.NewTestTrip()
	require.NoError(t, trips.Create(ctx, trip))

	at := time.Date(2025, 5, 20, 8, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Upsert(ctx, &domain.Itinerary{TripID: trip.ID, Model: "m1", Raw: "{}", Markdown: "# v1", CreatedAt: at}))
	require.NoError(t, repo.Upsert(ctx, &domain.Itinerary{TripID: trip.ID, Model: "m2", Raw: "{}", Markdown: "# v2", CreatedAt: at.Add(time.Hour)}))

	got, err := repo.GetByTrip(ctx, trip.ID)
	require.NoError(t, err)
	assert.Equal(t, "m2", got.Model)
	assert.Equal(t, "# v2", got.Markdown)
	assert.Equal(t, at.Add(time.Hour), got.CreatedAt)
}

func TestItineraryRepo_RequiresTrip(t *testing.T) {
	repo := NewSQLiteItineraryRepo(testutil.NewTestDB(t))
	err := repo.Upsert(context.Background(), &domain.Itinerary{TripID: "ghost", Raw: "x", Markdown: "x", CreatedAt: time.Now()})
	assert.Error(t, err)
}

func TestItineraryRepo_NotFound(t *testing.T) {
	repo := NewSQLiteItineraryRepo(testutil.NewTestDB(t))
	_, err := repo.GetByTrip(context.Background(), "none")
	assert.ErrorIs(t, err, ErrNotFound)
}
