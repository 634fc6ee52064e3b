package repository

import (
	"context"

	"github.com/travellabs/tripbot/internal/domain"
)

// TripRepo stores confirmed trips together with their conversation.
type TripRepo interface {
	Create(ctx context.Context, t *domain.Trip) error
	GetByID(ctx context.Context, id string) (*domain.Trip, error)
	// List returns trips newest first without their turns. limit <= 0
	// returns all of them.
	List(ctx context.Context, limit int) ([]*domain.Trip, error)
	Delete(ctx context.Context, id string) error
}

type ItineraryRepo interface {
	Upsert(ctx context.Context, it *domain.Itinerary) error
	GetByTrip(ctx context.Context, tripID string) (*domain.Itinerary, error)
}
