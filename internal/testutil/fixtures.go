package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/travellabs/tripbot/internal/db"
	"github.com/travellabs/tripbot/internal/domain"
)

// NewTestDB opens an empty, migrated in-memory trip store that is closed
// with the test.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := db.OpenDB(db.MemoryPath)
	if err != nil {
		t.Fatalf("opening trip store: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

// FullRecord returns a record with every required field set and no
// description.
func FullRecord() domain.TravelRecord {
	var r domain.TravelRecord
	r.Set(domain.FieldFrom, "New York, USA")
	r.Set(domain.FieldTo, "Kyoto")
	r.Set(domain.FieldTravelingWith, "2 people (couple)")
	r.Set(domain.FieldWhen, "next week (2025-05-26)")
	r.Set(domain.FieldDuration, "10 days")
	r.Set(domain.FieldPurpose, "cultural")
	r.Set(domain.FieldTransportation, "public transport and walking")
	return r
}

// Trip options
type TripOption func(*domain.Trip)

func WithLanguage(lang domain.Language) TripOption {
	return func(t *domain.Trip) { t.Language = lang }
}

func WithField(f domain.Field, v string) TripOption {
	return func(t *domain.Trip) { t.Record.Set(f, v) }
}

func WithCreatedAt(at time.Time) TripOption {
	return func(t *domain.Trip) { t.CreatedAt = at }
}

func WithTurns(turns ...domain.Turn) TripOption {
	return func(t *domain.Trip) { t.Turns = turns }
}

// NewTestTrip builds a confirmed trip with a full record and description.
func NewTestTrip(opts ...TripOption) *domain.Trip {
	rec := FullRecord()
	rec.Set(domain.FieldDescription, "A slow, temple-filled honeymoon in Kyoto.")
	t := &domain.Trip{
		ID:        uuid.NewString(),
		Language:  domain.LanguageEnglish,
		Record:    rec,
		Confirmed: true,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
		Turns: []domain.Turn{
			{Role: domain.RoleAssistant, Content: "Welcome!"},
			{Role: domain.RoleUser, Content: "Kyoto from New York next week"},
		},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}
