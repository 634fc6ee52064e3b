package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/travellabs/tripbot/internal/domain"
	"github.com/travellabs/tripbot/internal/itinerary"
	"github.com/travellabs/tripbot/internal/repository"
)

// Generator turns a trip into a plan. *itinerary.Generator satisfies it.
type Generator interface {
	Generate(ctx context.Context, trip *domain.Trip) (*itinerary.Result, error)
}

type itineraryService struct {
	trips       repository.TripRepo
	itineraries repository.ItineraryRepo
	generator   Generator
	observer    UseCaseObserver
	now         func() time.Time
}

func NewItineraryService(
	trips repository.TripRepo,
	itineraries repository.ItineraryRepo,
	generator Generator,
	observers ...UseCaseObserver,
) ItineraryService {
	return &itineraryService{
		trips:       trips,
		itineraries: itineraries,
		generator:   generator,
		observer:    useCaseObserverOrNoop(observers),
		now:         time.Now,
	}
}

func (s *itineraryService) Get(ctx context.Context, tripID string) (*domain.Itinerary, error) {
	return s.itineraries.GetByTrip(ctx, tripID)
}

func (s *itineraryService) Generate(ctx context.Context, tripID string, refresh bool) (it *domain.Itinerary, err error) {
	startedAt := s.now().UTC()
	fields := map[string]any{"trip_id": tripID, "refresh": refresh}
	defer observe(ctx, s.observer, "generate-itinerary", startedAt, fields, &err)

	if !refresh {
		cached, err := s.itineraries.GetByTrip(ctx, tripID)
		if err == nil {
			fields["cached"] = true
			return cached, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}

	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}

	res, err := s.generator.Generate(ctx, trip)
	if err != nil {
		return nil, fmt.Errorf("generating itinerary: %w", err)
	}
	fields["parsed"] = res.Parsed()
	fields["hotels"] = len(res.Hotels)

	it = &domain.Itinerary{
		TripID:    trip.ID,
		Model:     res.Model,
		Raw:       res.Raw,
		Markdown:  res.Markdown,
		CreatedAt: startedAt.Truncate(time.Second),
	}
	if err := s.itineraries.Upsert(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}
