package formatter

import (
	"bytes"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/travellabs/tripbot/internal/domain"
	"github.com/travellabs/tripbot/internal/testutil"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func TestRenderTable_AlignsStyledCells(t *testing.T) {
	out := stripANSI(RenderTable(
		[]string{"ID", "ROUTE"},
		[][]string{
			{Bold("abc"), "Paris → Rome"},
			{"abcdefgh", Dim("--")},
		},
	))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "ID        ROUTE", lines[0])
	assert.Equal(t, "abc       Paris → Rome", lines[2])
	assert.Equal(t, "abcdefgh  --", lines[3])
}

func TestRenderTable_NoHeaders(t *testing.T) {
	assert.Empty(t, RenderTable(nil, [][]string{{"x"}}))
}

func TestFormatTripList(t *testing.T) {
	now := time.Date(2025, 5, 19, 12, 0, 0, 0, time.UTC)
	trip := testutil.NewTestTrip(testutil.WithCreatedAt(now.Add(-3 * time.Hour)))
	zh := testutil.NewTestTrip(
		testutil.WithLanguage(domain.LanguageChinese),
		testutil.WithCreatedAt(now.Add(-72*time.Hour)),
	)

	out := stripANSI(FormatTripList([]*domain.Trip{trip, zh}, now))
	assert.Contains(t, out, "TRIPS")
	assert.Contains(t, out, trip.ID[:8])
	assert.Contains(t, out, "New York, USA → Kyoto")
	assert.Contains(t, out, "next week")
	assert.NotContains(t, out, "2025-05-26")
	assert.Contains(t, out, "3h ago")
	assert.Contains(t, out, "May 16, 2025")
	assert.Contains(t, out, "中文")
}

func TestFormatTripList_Empty(t *testing.T) {
	assert.Contains(t, stripANSI(FormatTripList(nil, time.Now())), "No trips saved yet")
}

func TestFormatTripDetail(t *testing.T) {
	trip := testutil.NewTestTrip()
	trip.Record.Unset(domain.FieldDescription)

	out := stripANSI(FormatTripDetail(trip, false))
	assert.Contains(t, out, "Traveling with:  2 people (couple)")
	assert.Contains(t, out, "Description:     --")
	assert.NotContains(t, out, "CONVERSATION")

	verbose := stripANSI(FormatTripDetail(trip, true))
	assert.Contains(t, verbose, "CONVERSATION")
	assert.Contains(t, verbose, "martin › Welcome!")
	assert.Contains(t, verbose, "you › Kyoto from New York next week")
}

func TestRoute(t *testing.T) {
	var rec domain.TravelRecord
	assert.Equal(t, "(no route)", route(rec))
	rec.Set(domain.FieldTo, "Oslo")
	assert.Equal(t, "→ Oslo", route(rec))
	rec.Set(domain.FieldFrom, "Bergen")
	assert.Equal(t, "Bergen → Oslo", route(rec))
}

func TestHumanTimestampFrom(t *testing.T) {
	now := time.Date(2025, 5, 19, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		at   time.Time
		want string
	}{
		{now.Add(-10 * time.Second), "Just now"},
		{now.Add(-5 * time.Minute), "5m ago"},
		{now.Add(-2 * time.Hour), "2h ago"},
		{now.Add(-30 * time.Hour), "Yesterday"},
		{now.Add(-100 * time.Hour), "May 15, 2025"},
		{now.Add(time.Hour), "May 19, 2025"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, HumanTimestampFrom(c.at, now))
	}
}

func TestStateBadge(t *testing.T) {
	assert.Contains(t, stripANSI(StateBadge(domain.StateConfirming)), "Confirming")
	assert.Contains(t, stripANSI(StateBadge(domain.DialogueState("odd"))), "odd")
}

func TestStartSpinner_Disabled(t *testing.T) {
	var buf bytes.Buffer
	stop := StartSpinner(&buf, "thinking", false)
	stop()
	assert.Empty(t, buf.String())
}

func TestSpinner_StopClearsLine(t *testing.T) {
	var buf syncBuffer
	s := NewSpinner(&buf, "thinking")
	s.Start()
	time.Sleep(250 * time.Millisecond)
	s.Stop()
	s.Stop()
	out := buf.String()
	assert.Contains(t, out, "thinking")
	assert.True(t, strings.HasSuffix(out, "\r\033[K"))
}
