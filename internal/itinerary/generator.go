package itinerary

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/travellabs/tripbot/internal/domain"
	"github.com/travellabs/tripbot/internal/hotel"
	"github.com/travellabs/tripbot/internal/llm"
)

var (
	ErrIncompleteTrip = errors.New("itinerary: trip record is incomplete")
	ErrGeneration     = errors.New("itinerary: generation failed")
)

// maxPromptHotels caps how many hotels are offered to the planner.
const maxPromptHotels = 8

// HotelFinder searches accommodation for a stay.
type HotelFinder interface {
	Search(ctx context.Context, q hotel.Query) ([]hotel.Hotel, error)
}

// Result is one generated itinerary. Plan is nil when the model's text
// could not be parsed; Markdown then holds the raw text.
type Result struct {
	Plan     *Plan
	Raw      string
	Markdown string
	Model    string
	Hotels   []hotel.Hotel
}

// Parsed reports whether the model returned a usable structured plan.
func (r *Result) Parsed() bool { return r.Plan != nil }

type Generator struct {
	client llm.LLMClient
	hotels HotelFinder
	logger *zap.Logger
}

// NewGenerator creates a generator. hotels may be nil, in which case the
// planner gets no hotel data.
func NewGenerator(client llm.LLMClient, hotels HotelFinder, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{client: client, hotels: hotels, logger: logger.Named("itinerary")}
}

// Generate plans the trip. Hotel lookup problems only drop the hotel
// data; a failed completion call is an error.
func (g *Generator) Generate(ctx context.Context, trip *domain.Trip) (*Result, error) {
	rec := trip.Record
	if !rec.IsComplete() {
		return nil, fmt.Errorf("%w: missing %v", ErrIncompleteTrip, rec.Missing())
	}

	profile := ProfileFor(rec)
	hotels := g.findHotels(ctx, rec, profile)

	resp, err := g.client.Generate(ctx, llm.GenerateRequest{
		Task: llm.TaskItinerary,
		Messages: []llm.Message{
			llm.System(plannerPrompt(trip.Language, rec, profile, hotels)),
			llm.User(requestPrompt(rec)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGeneration, err)
	}

	res := &Result{Raw: strings.TrimSpace(resp.Text), Model: resp.Model, Hotels: hotels}
	plan, err := llm.ExtractJSON[Plan](resp.Text, validatePlan)
	if err != nil {
		g.logger.Warn("itinerary not structured, keeping raw text", zap.String("trip", trip.ID), zap.Error(err))
		res.Markdown = res.Raw
		return res, nil
	}
	res.Plan = &plan
	res.Markdown = Markdown(plan)
	return res, nil
}

func (g *Generator) findHotels(ctx context.Context, rec domain.TravelRecord, p Profile) []hotel.Hotel {
	if g.hotels == nil {
		return nil
	}
	q, ok := StayQuery(rec)
	if !ok {
		g.logger.Debug("no hotel query for record")
		return nil
	}
	found, err := g.hotels.Search(ctx, q)
	if err != nil {
		g.logger.Warn("hotel search failed, planning without hotels", zap.Error(err))
		return nil
	}
	suitable := hotel.FilterByCapability(found, p.Needs())
	if len(suitable) > maxPromptHotels {
		suitable = suitable[:maxPromptHotels]
	}
	g.logger.Debug("hotels selected", zap.Int("found", len(found)), zap.Int("suitable", len(suitable)))
	return suitable
}
