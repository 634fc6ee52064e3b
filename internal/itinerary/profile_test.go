package itinerary

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/travellabs/tripbot/internal/domain"
	"github.com/travellabs/tripbot/internal/hotel"
	"github.com/travellabs/tripbot/internal/testutil"
)

func recordWith(desc, group string) domain.TravelRecord {
	rec := testutil.FullRecord()
	rec.Set(domain.FieldDescription, desc)
	if group != "" {
		rec.Set(domain.FieldTravelingWith, group)
	}
	return rec
}

func TestProfileFor(t *testing.T) {
	p := ProfileFor(recordWith("A honeymoon full of Culture, temples and authentic cuisine, with time to relax.", ""))
	assert.Equal(t, Profile{Cultural: true, Cuisine: true, Relaxation: true}, p)
	assert.Equal(t, "a group of travelers ", p.Travelers())
	assert.Equal(t, "cultural immersion and local traditions, local culinary experiences, and relaxation opportunities", p.Activities())
	assert.Equal(t, hotel.Needs{}, p.Needs())

	p = ProfileFor(recordWith("Beach days.", "me and my parents"))
	assert.True(t, p.Family)
	assert.True(t, p.Elderly)
	assert.Equal(t, "beach activities", p.Activities())
	assert.Equal(t, hotel.Needs{Accessible: true, FamilyRooms: true}, p.Needs())
	assert.Contains(t, p.Travelers(), "a family group that includes elderly members")

	p = ProfileFor(recordWith("City break.", ""))
	assert.Contains(t, p.Activities(), "a diverse mix of activities")
}

func TestStayQuery(t *testing.T) {
	q, ok := StayQuery(testutil.FullRecord())
	assert.True(t, ok)
	assert.Equal(t, hotel.Query{
		Destination: "Kyoto",
		CheckIn:     time.Date(2025, 5, 26, 0, 0, 0, 0, time.UTC),
		CheckOut:    time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC),
		Adults:      2,
		Rooms:       1,
	}, q)

	rec := testutil.FullRecord()
	rec.Set(domain.FieldWhen, "sometime in spring")
	_, ok = StayQuery(rec)
	assert.False(t, ok)

	rec = testutil.FullRecord()
	rec.Set(domain.FieldDuration, "a while")
	_, ok = StayQuery(rec)
	assert.False(t, ok)
}

func TestAdults(t *testing.T) {
	cases := map[string]int{
		"2 people (couple)": 2,
		"family of 5":       5,
		"solo":              1,
		"just me":           1,
		"my wife and kids":  2,
		"":                  2,
	}
	for group, want := range cases {
		rec := testutil.FullRecord()
		rec.Set(domain.FieldTravelingWith, group)
		assert.Equal(t, want, Adults(rec), group)
	}
}

func TestTravelMonth(t *testing.T) {
	assert.Equal(t, "May 2025", travelMonth(testutil.FullRecord()))

	rec := testutil.FullRecord()
	rec.Set(domain.FieldWhen, "April")
	assert.Equal(t, "April", travelMonth(rec))
}
