package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/travellabs/tripbot/internal/db"
	"github.com/travellabs/tripbot/internal/domain"
)

// SQLiteTripRepo implements TripRepo using a SQLite database.
type SQLiteTripRepo struct {
	db db.DBTX
}

// NewSQLiteTripRepo creates a repo over a database or transaction.
func NewSQLiteTripRepo(conn db.DBTX) *SQLiteTripRepo {
	return &SQLiteTripRepo{db: conn}
}

const tripColumns = `id, language, from_location, to_location, traveling_with, travel_when,
	duration, purpose, transportation, description, confirmed, created_at`

// Create inserts the trip row and then its turns in order. Callers that
// need both to land together run it inside a UnitOfWork.
func (r *SQLiteTripRepo) Create(ctx context.Context, t *domain.Trip) error {
	rec := t.Record
	query := `INSERT INTO trips (` + tripColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		string(t.Language),
		nullableString(rec.From),
		nullableString(rec.To),
		nullableString(rec.TravelingWith),
		nullableString(rec.When),
		nullableString(rec.Duration),
		nullableString(rec.Purpose),
		nullableString(rec.Transportation),
		nullableString(rec.Description),
		boolToInt(t.Confirmed),
		formatTime(t.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting trip: %w", err)
	}

	for i, turn := range t.Turns {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO trip_turns (trip_id, seq, role, content) VALUES (?, ?, ?, ?)`,
			t.ID, i, string(turn.Role), turn.Content)
		if err != nil {
			return fmt.Errorf("inserting trip turn %d: %w", i, err)
		}
	}
	return nil
}

func (r *SQLiteTripRepo) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+tripColumns+` FROM trips WHERE id = ?`, id)
	t, err := scanTrip(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("trip %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning trip: %w", err)
	}

	turns, err := r.listTurns(ctx, id)
	if err != nil {
		return nil, err
	}
	t.Turns = turns
	return t, nil
}

func (r *SQLiteTripRepo) List(ctx context.Context, limit int) ([]*domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips ORDER BY created_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing trips: %w", err)
	}
	defer rows.Close()

	var trips []*domain.Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning trip row: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating trips: %w", err)
	}
	return trips, nil
}

// Delete removes the trip; turns and itineraries cascade.
func (r *SQLiteTripRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM trips WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting trip: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting trip: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("trip %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *SQLiteTripRepo) listTurns(ctx context.Context, tripID string) ([]domain.Turn, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT role, content FROM trip_turns WHERE trip_id = ? ORDER BY seq`, tripID)
	if err != nil {
		return nil, fmt.Errorf("listing trip turns: %w", err)
	}
	defer rows.Close()

	var turns []domain.Turn
	for rows.Next() {
		var role, content string
		if err := rows.Scan(&role, &content); err != nil {
			return nil, fmt.Errorf("scanning trip turn: %w", err)
		}
		turns = append(turns, domain.Turn{Role: domain.Role(role), Content: content})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating trip turns: %w", err)
	}
	return turns, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrip(row rowScanner) (*domain.Trip, error) {
	var (
		t                                                         domain.Trip
		lang, createdAt                                           string
		from, to, with, when, duration, purpose, transport, descr sql.NullString
		confirmed                                                 int
	)
	err := row.Scan(&t.ID, &lang, &from, &to, &with, &when,
		&duration, &purpose, &transport, &descr, &confirmed, &createdAt)
	if err != nil {
		return nil, err
	}

	t.Language = domain.Language(lang)
	t.Record = domain.TravelRecord{
		From:           stringPtr(from),
		To:             stringPtr(to),
		TravelingWith:  stringPtr(with),
		When:           stringPtr(when),
		Duration:       stringPtr(duration),
		Purpose:        stringPtr(purpose),
		Transportation: stringPtr(transport),
		Description:    stringPtr(descr),
	}
	t.Confirmed = intToBool(confirmed)
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &t, nil
}
