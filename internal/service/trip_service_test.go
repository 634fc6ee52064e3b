package service

import (
	"context"
	"database/sql"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/travellabs/tripbot/internal/db"
	"github.com/travellabs/tripbot/internal/domain"
	"github.com/travellabs/tripbot/internal/repository"
	"github.com/travellabs/tripbot/internal/testutil"
)

func newTripService(t *testing.T) (TripService, repository.TripRepo) {
	t.Helper()
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLiteTripRepo(database)
	return NewTripService(repo, repository.NewSQLiteUnitOfWork(database)), repo
}

func TestSaveConfirmed_AssignsIDAndTimestamp(t *testing.T) {
	svc, repo := newTripService(t)
	ctx := context.Background()

	trip := testutil.NewTestTrip()
	trip.ID = ""
	trip.CreatedAt = time.Time{}

	require.NoError(t, svc.SaveConfirmed(ctx, trip))
	assert.NotEmpty(t, trip.ID)
	assert.False(t, trip.CreatedAt.IsZero())
	assert.Equal(t, 0, trip.CreatedAt.Nanosecond())

	got, err := repo.GetByID(ctx, trip.ID)
	require.NoError(t, err)
	assert.Equal(t, trip.Record.Values(), got.Record.Values())
	assert.Equal(t, trip.Turns, got.Turns)
}

func TestSaveConfirmed_KeepsExistingID(t *testing.T) {
	svc, _ := newTripService(t)
	trip := testutil.NewTestTrip()
	id := trip.ID

	require.NoError(t, svc.SaveConfirmed(context.Background(), trip))
	assert.Equal(t, id, trip.ID)

	got, err := svc.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, got.Confirmed)
}

func TestSaveConfirmed_RejectsUnconfirmed(t *testing.T) {
	svc, _ := newTripService(t)
	trip := testutil.NewTestTrip()
	trip.Confirmed = false

	err := svc.SaveConfirmed(context.Background(), trip)
	assert.ErrorIs(t, err, ErrTripNotConfirmed)
}

func TestSaveConfirmed_RejectsIncomplete(t *testing.T) {
	svc, _ := newTripService(t)
	trip := testutil.NewTestTrip()
	trip.Record.Unset(domain.FieldDuration)

	err := svc.SaveConfirmed(context.Background(), trip)
	assert.ErrorIs(t, err, ErrTripIncomplete)
	assert.ErrorContains(t, err, "duration")
}

func TestSaveConfirmed_RollbackOnTurnFailure(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLiteTripRepo(database)
	ctx := context.Background()

	// ExecContext calls: #1 = trip row, #2 = first turn, #3 = second turn
	failUoW := &failingWriteUoW{
		db:     database,
		failOn: 3,
		err:    errors.New("injected turn insert failure"),
	}
	svc := NewTripService(repo, failUoW)

	trip := testutil.NewTestTrip()
	err := svc.SaveConfirmed(ctx, trip)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "injected turn insert failure")

	trips, err := repo.List(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, trips, "trip row should be rolled back with its turns")

	var turns int
	require.NoError(t, database.QueryRowContext(ctx, `SELECT COUNT(*) FROM trip_turns`).Scan(&turns))
	assert.Zero(t, turns)
}

func TestTripService_ListAndDelete(t *testing.T) {
	svc, _ := newTripService(t)
	ctx := context.Background()

	base := time.Date(2025, 5, 19, 9, 0, 0, 0, time.UTC)
	older := testutil.NewTestTrip(testutil.WithCreatedAt(base))
	newer := testutil.NewTestTrip(testutil.WithCreatedAt(base.Add(time.Hour)))
	require.NoError(t, svc.SaveConfirmed(ctx, older))
	require.NoError(t, svc.SaveConfirmed(ctx, newer))

	trips, err := svc.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, trips, 2)
	assert.Equal(t, newer.ID, trips[0].ID)

	require.NoError(t, svc.Delete(ctx, newer.ID))
	_, err = svc.GetByID(ctx, newer.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, newer.ID), repository.ErrNotFound)
}

// failingWriteUoW hands out stores whose Nth write inside the
// transaction fails with err. Reads are not counted.
type failingWriteUoW struct {
	db     *sql.DB
	failOn int32
	err    error
}

func (u *failingWriteUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, s repository.Stores) error) error {
	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	conn := &failingWrites{DBTX: tx, failOn: u.failOn, err: u.err}
	if err := fn(ctx, repository.NewStores(conn)); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

type failingWrites struct {
	db.DBTX
	writes atomic.Int32
	failOn int32
	err    error
}

func (f *failingWrites) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if f.writes.Add(1) == f.failOn {
		return nil, f.err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
