package repository

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/travellabs/tripbot/internal/db"
	"github.com/travellabs/tripbot/internal/domain"
	"github.com/travellabs/tripbot/internal/testutil"
)

// newConcurrentTestDB creates a file-backed SQLite database in a temp directory.
// Unlike :memory:, a file-backed DB shares state across all connections in the
// pool, which is required to test real concurrent access with WAL mode.
func newConcurrentTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(filepath.Join(t.TempDir(), "concurrent_test.db"))
	require.NoError(t, err, "failed to create concurrent test database")
	t.Cleanup(func() { database.Close() })
	return database
}

// TestConcurrentAccess_ReadDuringWrite lists trips from several readers
// while one writer keeps saving. WAL mode lets readers proceed without
// seeing half-written rows.
func TestConcurrentAccess_ReadDuringWrite(t *testing.T) {
	database := newConcurrentTestDB(t)
	ctx := context.Background()
	trips := NewSQLiteTripRepo(database)
	base := time.Date(2025, 5, 19, 9, 0, 0, 0, time.UTC)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 20; i++ {
			trip := testutil.NewTestTrip(
				testutil.WithField(domain.FieldTo, fmt.Sprintf("City-%d", i)),
				testutil.WithCreatedAt(base.Add(time.Duration(i)*time.Minute)),
			)
			if err := trips.Create(ctx, trip); err != nil {
				t.Errorf("writer: create trip %d: %v", i, err)
				return
			}
		}
	}()

	for r := 0; r < 5; r++ {
		wg.Add(1)
		go func(reader int) {
			defer wg.Done()
			for i := 0; i < 10; i++ {
				listed, err := trips.List(ctx, 0)
				if err != nil {
					t.Errorf("reader %d: list trips: %v", reader, err)
					return
				}
				for _, trip := range listed {
					if trip.ID == "" || trip.Record.Value(domain.FieldTo) == "" {
						t.Errorf("reader %d: got partially written trip", reader)
					}
				}
			}
		}(r)
	}

	wg.Wait()

	listed, err := trips.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, listed, 20)
	assert.Equal(t, "City-19", listed[0].Record.Value(domain.FieldTo))
}

// TestConcurrentAccess_SequentialWritesConcurrentReads builds state one
// save at a time, then checks many readers see the same complete data.
func TestConcurrentAccess_SequentialWritesConcurrentReads(t *testing.T) {
	database := newConcurrentTestDB(t)
	ctx := context.Background()
	trips := NewSQLiteTripRepo(database)
	itineraries := NewSQLiteItineraryRepo(database)

	const tripCount = 10
	ids := make([]string, 0, tripCount)
	for i := 0; i < tripCount; i++ {
		trip := testutil.NewTestTrip()
		require.NoError(t, trips.Create(ctx, trip))
		require.NoError(t, itineraries.Upsert(ctx, &domain.Itinerary{
			TripID:    trip.ID,
			Model:     "scripted",
			Raw:       fmt.Sprintf("plan %d", i),
			Markdown:  fmt.Sprintf("# Plan %d", i),
			CreatedAt: trip.CreatedAt,
		}))
		ids = append(ids, trip.ID)
	}

	var wg sync.WaitGroup
	const readers = 20
	for r := 0; r < readers; r++ {
		wg.Add(1)
		go func(reader int) {
			defer wg.Done()

			listed, err := trips.List(ctx, 0)
			if err != nil {
				t.Errorf("reader %d: list trips: %v", reader, err)
				return
			}
			if len(listed) != tripCount {
				t.Errorf("reader %d: expected %d trips, got %d", reader, tripCount, len(listed))
			}

			id := ids[reader%tripCount]
			trip, err := trips.GetByID(ctx, id)
			if err != nil {
				t.Errorf("reader %d: get trip: %v", reader, err)
				return
			}
			if len(trip.Turns) != 2 {
				t.Errorf("reader %d: expected 2 turns, got %d", reader, len(trip.Turns))
			}
			if _, err := itineraries.GetByTrip(ctx, id); err != nil {
				t.Errorf("reader %d: get itinerary: %v", reader, err)
			}
		}(r)
	}

	wg.Wait()
}
