package itinerary

import (
	"fmt"
	"strings"
)

// Markdown renders p in the layout travelers see: an overview block,
// then one section per location with its hotel and day-by-day plan.
func Markdown(p Plan) string {
	var b strings.Builder

	o := p.Overview
	title := o.Title
	if title == "" {
		title = "Your Trip"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	writeField(&b, "Total Estimated Cost", o.TotalEstimatedCost)
	writeField(&b, "Travel Dates", o.TravelDates)
	writeField(&b, "Group Size", o.GroupSize)
	if len(o.Destinations) > 0 {
		writeField(&b, "Destinations", strings.Join(o.Destinations, ", "))
	}

	for _, loc := range p.Locations {
		b.WriteString("\n---\n\n")
		fmt.Fprintf(&b, "## 📍 %s\n\n", loc.Name)
		if loc.Overview != "" {
			b.WriteString(loc.Overview + "\n\n")
		}

		if len(loc.Accommodations) > 0 {
			b.WriteString("### 🏨 Accommodations\n\n")
			for _, a := range loc.Accommodations {
				name := a.FullHotelName
				if name == "" {
					name = a.HotelName
				}
				if a.URL != "" {
					fmt.Fprintf(&b, "- **Hotel**: [%s](%s)\n", name, a.URL)
				} else {
					fmt.Fprintf(&b, "- **Hotel**: %s\n", name)
				}
				if a.Image != "" {
					fmt.Fprintf(&b, "- **Image**: %s\n", a.Image)
				}
				if a.Price != "" {
					fmt.Fprintf(&b, "- **Price**: %s\n", a.Price)
				}
				if a.Features != "" {
					fmt.Fprintf(&b, "- **Features**: %s\n", a.Features)
				}
				b.WriteString("\n")
			}
		}

		if len(loc.Days) > 0 {
			b.WriteString("### 📅 Itinerary\n\n")
			for _, d := range loc.Days {
				heading := fmt.Sprintf("Day %s: %s", d.Day, d.Title)
				if d.Date != "" {
					heading += " – " + d.Date
				}
				fmt.Fprintf(&b, "**%s**\n\n", heading)
				if d.Description != "" {
					b.WriteString(d.Description + "\n\n")
				}
				if d.TravelTime != "" {
					fmt.Fprintf(&b, "**Travel Time**: %s\n\n", d.TravelTime)
				}
			}
		}
	}

	var tips []string
	for _, t := range p.AdditionalInfo {
		if s := strings.TrimSpace(t.Tips); s != "" {
			tips = append(tips, s)
		}
	}
	if len(tips) > 0 {
		b.WriteString("\n---\n\n## 💡 Travel Tips\n\n")
		for _, t := range tips {
			fmt.Fprintf(&b, "- %s\n", t)
		}
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

func writeField(b *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, "**%s**: %s  \n", label, value)
}
