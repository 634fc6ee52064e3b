package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/travellabs/tripbot/internal/domain"
	"github.com/travellabs/tripbot/internal/itinerary"
	"github.com/travellabs/tripbot/internal/llm"
	"github.com/travellabs/tripbot/internal/repository"
	"github.com/travellabs/tripbot/internal/testutil"
)

const minimalPlan = `{
  "trip_overview": {"title": "Kyoto Slowly"},
  "locations": [{"location": "Kyoto", "itinerary": [{"day": 1, "title": "Arrival"}]}]
}`

type itineraryFixture struct {
	svc    ItineraryService
	trips  TripService
	client *testutil.ScriptedLLM
}

func newItineraryFixture(t *testing.T, steps ...testutil.Step) itineraryFixture {
	t.Helper()
	database := testutil.NewTestDB(t)
	tripRepo := repository.NewSQLiteTripRepo(database)
	client := testutil.NewScriptedLLM().On(llm.TaskItinerary, steps...)
	gen := itinerary.NewGenerator(client, nil, nil)
	return itineraryFixture{
		svc:    NewItineraryService(tripRepo, repository.NewSQLiteItineraryRepo(database), gen),
		trips:  NewTripService(tripRepo, repository.NewSQLiteUnitOfWork(database)),
		client: client,
	}
}

func TestItineraryService_GeneratesAndCaches(t *testing.T) {
	f := newItineraryFixture(t, testutil.Reply(minimalPlan))
	ctx := context.Background()
	trip := testutil.NewTestTrip()
	require.NoError(t, f.trips.SaveConfirmed(ctx, trip))

	first, err := f.svc.Generate(ctx, trip.ID, false)
	require.NoError(t, err)
	assert.Equal(t, trip.ID, first.TripID)
	assert.Contains(t, first.Markdown, "# Kyoto Slowly")
	assert.Equal(t, "scripted", first.Model)

	second, err := f.svc.Generate(ctx, trip.ID, false)
	require.NoError(t, err)
	assert.Equal(t, first.Markdown, second.Markdown)
	assert.Equal(t, 1, f.client.Count(llm.TaskItinerary), "cached itinerary should not call the model")

	stored, err := f.svc.Get(ctx, trip.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Raw, stored.Raw)
}

func TestItineraryService_RefreshRegenerates(t *testing.T) {
	f := newItineraryFixture(t,
		testutil.Reply(minimalPlan),
		testutil.Reply("Day 1: rest."),
	)
	ctx := context.Background()
	trip := testutil.NewTestTrip()
	require.NoError(t, f.trips.SaveConfirmed(ctx, trip))

	_, err := f.svc.Generate(ctx, trip.ID, false)
	require.NoError(t, err)
	refreshed, err := f.svc.Generate(ctx, trip.ID, true)
	require.NoError(t, err)
	assert.Equal(t, "Day 1: rest.", refreshed.Markdown)
	assert.Equal(t, 2, f.client.Count(llm.TaskItinerary))

	stored, err := f.svc.Get(ctx, trip.ID)
	require.NoError(t, err)
	assert.Equal(t, "Day 1: rest.", stored.Markdown)
}

func TestItineraryService_UnknownTrip(t *testing.T) {
	f := newItineraryFixture(t)
	_, err := f.svc.Generate(context.Background(), "missing", false)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Zero(t, f.client.Count(llm.TaskItinerary))
}

func TestItineraryService_GenerationFailureStoresNothing(t *testing.T) {
	f := newItineraryFixture(t, testutil.Fail(llm.ErrTimeout))
	ctx := context.Background()
	trip := testutil.NewTestTrip(testutil.WithLanguage(domain.LanguageChinese))
	require.NoError(t, f.trips.SaveConfirmed(ctx, trip))

	_, err := f.svc.Generate(ctx, trip.ID, false)
	assert.ErrorIs(t, err, itinerary.ErrGeneration)

	_, err = f.svc.Get(ctx, trip.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
