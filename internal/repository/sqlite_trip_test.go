package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/travellabs/tripbot/internal/domain"
	"github.com/travellabs/tripbot/internal/testutil"
)

func TestTripRepo_CreateAndGet(t *testing.T) {
	repo := NewSQLiteTripRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	trip := testutil.NewTestTrip(testutil.WithLanguage(domain.LanguageChinese))
	require.NoError(t, repo.Create(ctx, trip))

	got, err := repo.GetByID(ctx, trip.ID)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(trip, got))
}

func TestTripRepo_PartialRecordKeepsNulls(t *testing.T) {
	repo := NewSQLiteTripRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	trip := testutil.NewTestTrip()
	trip.Record.Unset(domain.FieldPurpose)
	trip.Record.Unset(domain.FieldDescription)
	trip.Confirmed = false
	require.NoError(t, repo.Create(ctx, trip))

	got, err := repo.GetByID(ctx, trip.ID)
	require.NoError(t, err)
	assert.False(t, got.Record.IsSet(domain.FieldPurpose))
	assert.False(t, got.Record.IsSet(domain.FieldDescription))
	assert.False(t, got.Confirmed)
	assert.Equal(t, "Kyoto", got.Record.Value(domain.FieldTo))
}

func TestTripRepo_GetByID_NotFound(t *testing.T) {
	repo := NewSQLiteTripRepo(testutil.NewTestDB(t))

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTripRepo_ListNewestFirst(t *testing.T) {
	repo := NewSQLiteTripRepo(testutil.NewTestDB(t))
	ctx := context.Background()
	base := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)

	for i, dest := range []string{"Lima", "Oslo", "Hanoi"} {
		trip := testutil.NewTestTrip(
			testutil.WithField(domain.FieldTo, dest),
			testutil.WithCreatedAt(base.Add(time.Duration(i)*time.Hour)),
		)
		require.NoError(t, repo.Create(ctx, trip))
	}

	trips, err := repo.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, trips, 3)
	assert.Equal(t, "Hanoi", trips[0].Record.Value(domain.FieldTo))
	assert.Equal(t, "Lima", trips[2].Record.Value(domain.FieldTo))
	assert.Nil(t, trips[0].Turns)

	limited, err := repo.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestTripRepo_Delete(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteTripRepo(database)
	ctx := context.Background()

	trip := testutil.NewTestTrip()
	require.NoError(t, repo.Create(ctx, trip))
	require.NoError(t, repo.Delete(ctx, trip.ID))

	_, err := repo.GetByID(ctx, trip.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	var turns int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM trip_turns`).Scan(&turns))
	assert.Zero(t, turns)

	assert.ErrorIs(t, repo.Delete(ctx, trip.ID), ErrNotFound)
}

func TestTripRepo_DuplicateID(t *testing.T) {
	repo := NewSQLiteTripRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	trip := testutil.NewTestTrip()
	require.NoError(t, repo.Create(ctx, trip))
	assert.Error(t, repo.Create(ctx, trip))
}
