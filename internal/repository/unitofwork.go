package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/travellabs/tripbot/internal/db"
)

// Stores is the set of repositories bound to one connection or
// transaction.
type Stores struct {
	Trips       TripRepo
	Itineraries ItineraryRepo
}

// NewStores binds every repository to conn.
func NewStores(conn db.DBTX) Stores {
	return Stores{
		Trips:       NewSQLiteTripRepo(conn),
		Itineraries: NewSQLiteItineraryRepo(conn),
	}
}

// UnitOfWork runs fn against stores that share a single transaction.
// The transaction commits when fn returns nil and is rolled back
// otherwise, including when fn panics.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, s Stores) error) error
}

type SQLiteUnitOfWork struct {
	db *sql.DB
}

func NewSQLiteUnitOfWork(conn *sql.DB) *SQLiteUnitOfWork {
	return &SQLiteUnitOfWork{db: conn}
}

func (u *SQLiteUnitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context, s Stores) error) (err error) {
	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	done := false
	defer func() {
		if done {
			return
		}
		// Runs on error returns and while a panic unwinds.
		if rbErr := tx.Rollback(); rbErr != nil && err != nil {
			err = errors.Join(err, fmt.Errorf("rolling back: %w", rbErr))
		}
	}()

	if err := fn(ctx, NewStores(tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	done = true
	return nil
}
