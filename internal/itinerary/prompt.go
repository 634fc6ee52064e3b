package itinerary

import (
	"encoding/json"
	"fmt"

	"github.com/travellabs/tripbot/internal/domain"
	"github.com/travellabs/tripbot/internal/hotel"
)

const noHotels = "No specific hotel recommendations are available for this destination. " +
	"Please choose accommodations that suit your group's needs, such as accessibility or family-friendly options."

func planLanguageInstruction(lang domain.Language) string {
	if lang == domain.LanguageChinese {
		return "Please use ONLY Traditional Chinese for this entire travel plan."
	}
	return "Please use ONLY English for this entire travel plan."
}

type promptHotel struct {
	Name  string   `json:"name"`
	URL   string   `json:"url"`
	Image string   `json:"image"`
	Price string   `json:"price"`
	Tags  []string `json:"tags"`
}

func hotelBlock(hotels []hotel.Hotel) string {
	if len(hotels) == 0 {
		return noHotels
	}
	out := make([]promptHotel, len(hotels))
	for i, h := range hotels {
		out[i] = promptHotel{Name: h.Name, URL: h.URL, Image: h.Image, Price: h.Price, Tags: h.Tags}
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return noHotels
	}
	return string(data)
}

func plannerPrompt(lang domain.Language, rec domain.TravelRecord, p Profile, hotels []hotel.Hotel) string {
	v := rec.Value
	dest := v(domain.FieldTo)
	origin := v(domain.FieldFrom)
	month := travelMonth(rec)
	transport := v(domain.FieldTransportation)

	return planLanguageInstruction(lang) + "\n\n" + fmt.Sprintf(`You are a professional travel planner creating a personalized %[1]s itinerary.
Write it like a seasoned travel editor: immersive, practical and tailored to the travelers.

Create a travel plan for travelers from %[2]s to %[3]s for %[1]s, starting %[4]s, for %[5]s, with the purpose "%[6]s".

Trip description:
"%[7]s"

This is %[8]slooking for %[9]s. They plan to use %[10]s as their main way of getting around.

Hotel data (recommend from this list when it fits the group; otherwise suggest reputable booking platforms):
%[11]s

Guidelines:
- Use real places, realistic logistics and vivid descriptions.
- Recommend one hotel per key location that suits the group and purpose.
- Describe each day's activities in detail without mentioning prices.
- Match the pace to the travelers (slower for elderly travelers, engaging for families).
- Recommend real restaurants with local specialties and price ranges.
- Give practical tips for travelers from %[2]s visiting %[3]s.
- Consider seasonal factors for %[4]s in %[3]s.
- Include realistic travel times using %[10]s.
- The total estimated cost covers transport, accommodation, activities and dining.

Return ONLY a JSON object with this structure:
{
  "trip_overview": {
    "title": "...",
    "total_estimated_cost": "...",
    "travel_dates": "...",
    "group_size": "...",
    "destinations": ["..."]
  },
  "locations": [
    {
      "location": "...",
      "overview": "...",
      "accommodations": [
        {"hotel_name": "...", "full_hotel_name": "...", "url": "...", "image": "...", "price": "...", "features": "..."}
      ],
      "itinerary": [
        {"day": "1", "title": "...", "date": "...", "description": "...", "travel_time": "..."}
      ]
    }
  ],
  "additional_info": [
    {"tips": "..."}
  ]
}`,
		v(domain.FieldDuration), origin, dest, month,
		v(domain.FieldTravelingWith), v(domain.FieldPurpose), v(domain.FieldDescription),
		p.Travelers(), p.Activities(), transport, hotelBlock(hotels))
}

func requestPrompt(rec domain.TravelRecord) string {
	v := rec.Value
	return fmt.Sprintf(`Please create a %s itinerary for %s traveling from %s to %s starting %s.

The travelers describe their trip as:
"%s"

They want %s and will mostly use %s to get around. Use the hotel data for accommodation recommendations.`,
		v(domain.FieldDuration), v(domain.FieldTravelingWith), v(domain.FieldFrom), v(domain.FieldTo),
		rec.WhenDisplay(), v(domain.FieldDescription), v(domain.FieldPurpose), v(domain.FieldTransportation))
}
