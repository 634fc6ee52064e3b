package itinerary

import (
	"strings"

	"github.com/travellabs/tripbot/internal/domain"
	"github.com/travellabs/tripbot/internal/hotel"
)

// Profile is what the trip description and group say about the
// travelers. It steers pacing, activities and hotel filtering.
type Profile struct {
	Family     bool
	Elderly    bool
	Cultural   bool
	Cuisine    bool
	Relaxation bool
	Beaches    bool
	Adventure  bool
}

// ProfileFor derives a profile from keywords in the record.
func ProfileFor(rec domain.TravelRecord) Profile {
	group := strings.ToLower(rec.Value(domain.FieldTravelingWith))
	desc := strings.ToLower(rec.Value(domain.FieldDescription))
	has := func(words ...string) bool {
		for _, w := range words {
			if strings.Contains(desc, w) {
				return true
			}
		}
		return false
	}

	return Profile{
		Family:     has("family") || strings.Contains(group, "parents"),
		Elderly:    has("elderly") || strings.Contains(group, "parents"),
		Cultural:   has("cultural", "culture"),
		Cuisine:    has("culinary", "cuisine"),
		Relaxation: has("relaxation", "relax"),
		Beaches:    has("beaches", "beach"),
		Adventure:  has("adventure"),
	}
}

// Needs maps the profile onto hotel capabilities.
func (p Profile) Needs() hotel.Needs {
	return hotel.Needs{Accessible: p.Elderly, FamilyRooms: p.Family}
}

// Travelers describes the group for the planner prompt.
func (p Profile) Travelers() string {
	var b strings.Builder
	if p.Family {
		b.WriteString("a family group ")
	}
	if p.Elderly {
		b.WriteString("that includes elderly members requiring appropriate pacing and accessibility considerations ")
	}
	if b.Len() == 0 {
		return "a group of travelers "
	}
	return b.String()
}

// Activities lists the preferred activity kinds as a sentence fragment.
func (p Profile) Activities() string {
	var prefs []string
	if p.Cultural {
		prefs = append(prefs, "cultural immersion and local traditions")
	}
	if p.Cuisine {
		prefs = append(prefs, "local culinary experiences")
	}
	if p.Relaxation {
		prefs = append(prefs, "relaxation opportunities")
	}
	if p.Beaches {
		prefs = append(prefs, "beach activities")
	}
	if p.Adventure {
		prefs = append(prefs, "adventure experiences")
	}

	switch len(prefs) {
	case 0:
		return "a diverse mix of activities including sightseeing, local experiences, and leisure time"
	case 1:
		return prefs[0]
	default:
		return strings.Join(prefs[:len(prefs)-1], ", ") + ", and " + prefs[len(prefs)-1]
	}
}
