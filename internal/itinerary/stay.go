package itinerary

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/travellabs/tripbot/internal/domain"
	"github.com/travellabs/tripbot/internal/hotel"
)

var (
	isoDate   = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
	firstNum  = regexp.MustCompile(`\d+`)
	soloWords = []string{"solo", "alone", "myself", "just me", "by myself"}
)

// StartDate returns the resolved travel date carried by the record's
// "when" value.
func StartDate(rec domain.TravelRecord) (time.Time, bool) {
	m := isoDate.FindString(rec.Value(domain.FieldWhen))
	if m == "" {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", m)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Nights reads the trip length in days.
func Nights(rec domain.TravelRecord) (int, bool) {
	m := firstNum.FindString(rec.Value(domain.FieldDuration))
	n, err := strconv.Atoi(m)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// Adults estimates the party size: the first number mentioned, one for
// a solo traveler, otherwise two.
func Adults(rec domain.TravelRecord) int {
	group := strings.ToLower(rec.Value(domain.FieldTravelingWith))
	if m := firstNum.FindString(group); m != "" {
		if n, err := strconv.Atoi(m); err == nil && n > 0 {
			return n
		}
	}
	for _, w := range soloWords {
		if strings.Contains(group, w) {
			return 1
		}
	}
	return 2
}

// StayQuery builds the hotel query for rec. It reports false when the
// record lacks a destination, a resolved date or a length.
func StayQuery(rec domain.TravelRecord) (hotel.Query, bool) {
	dest := strings.TrimSpace(rec.Value(domain.FieldTo))
	start, ok := StartDate(rec)
	if dest == "" || !ok {
		return hotel.Query{}, false
	}
	nights, ok := Nights(rec)
	if !ok {
		return hotel.Query{}, false
	}
	adults := Adults(rec)
	rooms := (adults + 1) / 2
	return hotel.Query{
		Destination: dest,
		CheckIn:     start,
		CheckOut:    start.AddDate(0, 0, nights),
		Adults:      adults,
		Rooms:       rooms,
	}, true
}

// travelMonth is the "Month YYYY" shown to the planner, or the raw
// wording when no date was resolved.
func travelMonth(rec domain.TravelRecord) string {
	if t, ok := StartDate(rec); ok {
		return t.Format("January 2006")
	}
	return rec.WhenDisplay()
}
