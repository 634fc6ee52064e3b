package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/travellabs/tripbot/internal/db"
	"github.com/travellabs/tripbot/internal/domain"
)

// SQLiteItineraryRepo keeps the latest generated itinerary per trip.
type SQLiteItineraryRepo struct {
	db db.DBTX
}

func NewSQLiteItineraryRepo(conn db.DBTX) *SQLiteItineraryRepo {
	return &SQLiteItineraryRepo{db: conn}
}

// Upsert stores it, replacing any earlier itinerary for the same trip.
func (r *SQLiteItineraryRepo) Upsert(ctx context.Context, it *domain.Itinerary) error {
	query := `INSERT INTO itineraries (trip_id, model, raw, markdown, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(trip_id) DO UPDATE SET
			model = excluded.model,
			raw = excluded.raw,
			markdown = excluded.markdown,
			created_at = excluded.created_at`
	_, err := r.db.ExecContext(ctx, query,
		it.TripID, it.Model, it.Raw, it.Markdown, formatTime(it.CreatedAt))
	if err != nil {
		return fmt.Errorf("upserting itinerary: %w", err)
	}
	return nil
}

func (r *SQLiteItineraryRepo) GetByTrip(ctx context.Context, tripID string) (*domain.Itinerary, error) {
	var (
		it        domain.Itinerary
		createdAt string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT trip_id, model, raw, markdown, created_at FROM itineraries WHERE trip_id = ?`, tripID).
		Scan(&it.TripID, &it.Model, &it.Raw, &it.Markdown, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("itinerary for trip %s: %w", tripID, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning itinerary: %w", err)
	}
	if it.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing itinerary created_at: %w", err)
	}
	return &it, nil
}
