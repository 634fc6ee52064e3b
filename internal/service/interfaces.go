package service

import (
	"context"

	"github.com/travellabs/tripbot/internal/domain"
)

// TripService persists confirmed trips handed off by the dialogue.
type TripService interface {
	SaveConfirmed(ctx context.Context, t *domain.Trip) error
	GetByID(ctx context.Context, id string) (*domain.Trip, error)
	List(ctx context.Context, limit int) ([]*domain.Trip, error)
	Delete(ctx context.Context, id string) error
}

// ItineraryService produces travel plans for saved trips. Generate
// returns the stored itinerary unless refresh is set or none exists.
type ItineraryService interface {
	Generate(ctx context.Context, tripID string, refresh bool) (*domain.Itinerary, error)
	Get(ctx context.Context, tripID string) (*domain.Itinerary, error)
}
