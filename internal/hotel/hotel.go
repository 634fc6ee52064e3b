// Package hotel looks up accommodation through the booking.com API on
// RapidAPI and filters it by what a travel group needs.
package hotel

import (
	"errors"
	"slices"
	"strings"
	"time"
)

var (
	ErrMissingAPIKey       = errors.New("hotel search: no RapidAPI key configured")
	ErrDestinationNotFound = errors.New("hotel search: destination not found")
	ErrUpstream            = errors.New("hotel search: upstream error")
	ErrInvalidQuery        = errors.New("hotel search: invalid query")
)

// Facility names used for capability filtering.
const (
	TagFamilyRooms = "Family rooms"
	TagAccessible  = "Facilities for disabled guests"
)

// Hotel is one search result with the facilities it advertises.
type Hotel struct {
	ID    int64    `json:"id"`
	Name  string   `json:"name"`
	URL   string   `json:"url"`
	Image string   `json:"image"`
	Price string   `json:"price"`
	Tags  []string `json:"tags"`
}

// HasTag reports whether h advertises tag, ignoring case.
func (h Hotel) HasTag(tag string) bool {
	return slices.ContainsFunc(h.Tags, func(t string) bool {
		return strings.EqualFold(strings.TrimSpace(t), tag)
	})
}

// Destination is a resolved search location.
type Destination struct {
	ID   string
	Type string
	Name string
}

// Query describes one stay.
type Query struct {
	Destination string
	CheckIn     time.Time
	CheckOut    time.Time
	Adults      int
	Rooms       int
}

func (q Query) validate() error {
	switch {
	case strings.TrimSpace(q.Destination) == "":
		return errors.Join(ErrInvalidQuery, errors.New("destination is empty"))
	case !q.CheckOut.After(q.CheckIn):
		return errors.Join(ErrInvalidQuery, errors.New("check-out must be after check-in"))
	case q.Adults < 1:
		return errors.Join(ErrInvalidQuery, errors.New("at least one adult is required"))
	}
	return nil
}

// Needs are the capabilities a group requires from every hotel.
type Needs struct {
	Accessible  bool
	FamilyRooms bool
}

// FilterByCapability keeps the hotels that satisfy every need. The input
// order is preserved.
func FilterByCapability(hotels []Hotel, needs Needs) []Hotel {
	out := make([]Hotel, 0, len(hotels))
	for _, h := range hotels {
		if needs.Accessible && !h.HasTag(TagAccessible) {
			continue
		}
		if needs.FamilyRooms && !h.HasTag(TagFamilyRooms) {
			continue
		}
		out = append(out, h)
	}
	return out
}
