package itinerary

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
)

// Plan is the structured itinerary the planner model is asked for.
type Plan struct {
	Overview       Overview   `json:"trip_overview"`
	Locations      []Location `json:"locations"`
	AdditionalInfo []Tip      `json:"additional_info"`
}

type Overview struct {
	Title              string   `json:"title"`
	TotalEstimatedCost string   `json:"total_estimated_cost"`
	TravelDates        string   `json:"travel_dates"`
	GroupSize          string   `json:"group_size"`
	Destinations       []string `json:"destinations"`
}

type Location struct {
	Name           string          `json:"location"`
	Overview       string          `json:"overview"`
	Accommodations []Accommodation `json:"accommodations"`
	Days           []Day           `json:"itinerary"`
}

type Accommodation struct {
	HotelName     string `json:"hotel_name"`
	FullHotelName string `json:"full_hotel_name"`
	URL           string `json:"url"`
	Image         string `json:"image"`
	Price         string `json:"price"`
	Features      Text   `json:"features"`
}

type Day struct {
	Day         Text   `json:"day"`
	Title       string `json:"title"`
	Date        string `json:"date"`
	Description string `json:"description"`
	TravelTime  string `json:"travel_time"`
}

type Tip struct {
	Tips string `json:"tips"`
}

// Text accepts a JSON string, number or list of strings. Models are
// loose about "day" and "features".
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = Text(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*t = Text(n.String())
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		var b bytes.Buffer
		for i, item := range list {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(item)
		}
		*t = Text(b.String())
		return nil
	}
	return errors.New("expected string, number or list of strings, got " + strconv.Quote(string(data)))
}

// validatePlan rejects payloads that parsed but carry no itinerary.
func validatePlan(p Plan) error {
	if p.Overview.Title == "" && len(p.Locations) == 0 {
		return errors.New("plan has neither a title nor locations")
	}
	for _, loc := range p.Locations {
		if len(loc.Days) > 0 {
			return nil
		}
	}
	return errors.New("plan has no itinerary days")
}
