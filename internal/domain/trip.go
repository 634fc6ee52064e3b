package domain

import "time"

// Trip is a confirmed TravelRecord handed off for itinerary generation.
type Trip struct {
	ID        string
	Language  Language
	Record    TravelRecord
	Turns     []Turn
	Confirmed bool
	CreatedAt time.Time
}

// Itinerary is a generated travel plan stored for a trip. Raw keeps the
// model's text; Markdown is the rendered plan, or Raw itself when the
// text could not be parsed.
type Itinerary struct {
	TripID    string
	Model     string
	Raw       string
	Markdown  string
	CreatedAt time.Time
}
