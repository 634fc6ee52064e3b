package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/travellabs/tripbot/internal/domain"
)

var fieldLabels = map[domain.Field]string{
	domain.FieldFrom:           "From",
	domain.FieldTo:             "To",
	domain.FieldTravelingWith:  "Traveling with",
	domain.FieldWhen:           "When",
	domain.FieldDuration:       "Duration",
	domain.FieldPurpose:        "Purpose",
	domain.FieldTransportation: "Transportation",
	domain.FieldDescription:    "Description",
}

// FormatTripList renders stored trips as a table inside a box.
func FormatTripList(trips []*domain.Trip, now time.Time) string {
	if len(trips) == 0 {
		return Dim("No trips saved yet. Start one with `tripbot chat`.")
	}
	headers := []string{"ID", "ROUTE", "WHEN", "DURATION", "LANG", "SAVED"}
	rows := make([][]string, 0, len(trips))
	for _, t := range trips {
		rec := t.Record
		rows = append(rows, []string{
			TruncID(t.ID),
			Bold(route(rec)),
			orDash(rec.WhenDisplay()),
			orDash(rec.Value(domain.FieldDuration)),
			LanguageBadge(t.Language),
			Dim(HumanTimestampFrom(t.CreatedAt, now)),
		})
	}
	return RenderBox("Trips", RenderTable(headers, rows))
}

// FormatTripDetail renders one trip with its record and, when verbose,
// the stored conversation.
func FormatTripDetail(t *domain.Trip, verbose bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s  %s\n\n", Bold(route(t.Record)), LanguageBadge(t.Language), Dim(t.ID))
	b.WriteString(FormatRecord(t.Record))

	if verbose && len(t.Turns) > 0 {
		b.WriteString("\n\n")
		b.WriteString(Header("Conversation"))
		b.WriteString("\n")
		for _, turn := range t.Turns {
			b.WriteString(FormatTurn(turn))
			b.WriteString("\n")
		}
	}
	return RenderBox("Trip", strings.TrimRight(b.String(), "\n"))
}

// FormatRecord lists every field with its value, dimming unset ones.
func FormatRecord(rec domain.TravelRecord) string {
	fields := domain.AllFields
	width := 0
	for _, f := range fields {
		width = max(width, len(fieldLabels[f]))
	}
	lines := make([]string, 0, len(fields))
	for _, f := range fields {
		label := fieldLabels[f] + ":" + strings.Repeat(" ", width-len(fieldLabels[f]))
		lines = append(lines, StyleBlue.Render(label)+"  "+orDash(rec.Value(f)))
	}
	return strings.Join(lines, "\n")
}

// FormatTurn renders one conversation turn with a role prefix.
func FormatTurn(turn domain.Turn) string {
	if turn.Role == domain.RoleUser {
		return StyleGreen.Render("you") + Dim(" › ") + turn.Content
	}
	return AssistantPrefix() + turn.Content
}

// AssistantPrefix is printed before every assistant reply.
func AssistantPrefix() string {
	return StyleHeader.Render("martin") + Dim(" › ")
}

// UserPrompt is printed before reading a user line.
func UserPrompt() string {
	return StyleGreen.Render("you") + Dim(" › ")
}

func route(rec domain.TravelRecord) string {
	from, to := rec.Value(domain.FieldFrom), rec.Value(domain.FieldTo)
	switch {
	case from == "" && to == "":
		return "(no route)"
	case from == "":
		return "→ " + to
	case to == "":
		return from + " →"
	default:
		return from + " → " + to
	}
}
