package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/travellabs/tripbot/internal/domain"
	"github.com/travellabs/tripbot/internal/repository"
)

type tripService struct {
	trips    repository.TripRepo
	uow      repository.UnitOfWork
	observer UseCaseObserver
}

func NewTripService(trips repository.TripRepo, uow repository.UnitOfWork, observers ...UseCaseObserver) TripService {
	return &tripService{
		trips:    trips,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

// SaveConfirmed stores the trip and its conversation in one transaction.
// An empty ID is filled with a new UUID.
func (s *tripService) SaveConfirmed(ctx context.Context, t *domain.Trip) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{}
	defer observe(ctx, s.observer, "save-trip", startedAt, fields, &err)

	if !t.Confirmed {
		return ErrTripNotConfirmed
	}
	if missing := t.Record.Missing(); len(missing) > 0 {
		return fmt.Errorf("%w: missing %v", ErrTripIncomplete, missing)
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = startedAt.Truncate(time.Second)
	}
	fields["trip_id"] = t.ID
	fields["turns"] = len(t.Turns)

	return s.uow.WithinTx(ctx, func(ctx context.Context, st repository.Stores) error {
		if err := st.Trips.Create(ctx, t); err != nil {
			return fmt.Errorf("saving trip: %w", err)
		}
		return nil
	})
}

func (s *tripService) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	return s.trips.GetByID(ctx, id)
}

func (s *tripService) List(ctx context.Context, limit int) ([]*domain.Trip, error) {
	return s.trips.List(ctx, limit)
}

func (s *tripService) Delete(ctx context.Context, id string) (err error) {
	defer observe(ctx, s.observer, "delete-trip", time.Now().UTC(), map[string]any{"trip_id": id}, &err)
	return s.trips.Delete(ctx, id)
}
