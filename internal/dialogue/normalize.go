package dialogue

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

const dateLayout = "2006-01-02"

const monthName = `(jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\.?`

var (
	resolvedDateSuffix = regexp.MustCompile(`\(\s*\d{4}-\d{2}-\d{2}\s*\)`)
	firstInteger       = regexp.MustCompile(`\d+`)
	ordinalSuffix      = regexp.MustCompile(`(\d)(?:st|nd|rd|th)\b`)

	isoDate      = regexp.MustCompile(`\b\d{4}-\d{1,2}-\d{1,2}\b`)
	slashDate    = regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{4}\b`)
	dayMonthDate = regexp.MustCompile(`\b(\d{1,2})\s+` + monthName + `,?(?:\s+(\d{4}))?\b`)
	monthDayDate = regexp.MustCompile(`\b` + monthName + `\s+(\d{1,2})\b(?:,?\s+(\d{4})\b)?`)
)

var monthsByPrefix = map[string]string{
	"jan": "January", "feb": "February", "mar": "March", "apr": "April",
	"may": "May", "jun": "June", "jul": "July", "aug": "August",
	"sep": "September", "oct": "October", "nov": "November", "dec": "December",
}

// DateResolver turns a travel-date phrase into an approximate calendar
// date relative to a given day.
type DateResolver struct {
	parser *when.Parser
}

// NewDateResolver creates a resolver with the English and numeric
// free-form date rules loaded.
func NewDateResolver() *DateResolver {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return &DateResolver{parser: w}
}

// Resolve returns the approximate date for text. Fixed phrases are
// checked first, in order:
//
//	"2nd/second week of next month" -> the 8th of next month
//	"next month"                    -> same day next month
//	"next week"                     -> today + 7 days
//	"end of this month"             -> last day of this month
//
// Anything else is free-form: calendar dates ("2025-07-01", "07/01/2025",
// "15 June 2025", "June 15") are read month-first, with a missing year
// taken from today. Relative phrases ("tomorrow", "in 3 days") are
// parsed against today. When nothing can be parsed the result is today.
func (d *DateResolver) Resolve(text string, today time.Time) time.Time {
	today = truncateDay(today)
	lower := strings.ToLower(text)

	switch {
	case strings.Contains(lower, "2nd week of next month"), strings.Contains(lower, "second week of next month"):
		next := firstOfMonth(today).AddDate(0, 1, 0)
		return next.AddDate(0, 0, 7)
	case strings.Contains(lower, "next month"):
		return addMonthsClamped(today, 1)
	case strings.Contains(lower, "next week"):
		return today.AddDate(0, 0, 7)
	case strings.Contains(lower, "end of this month"):
		return lastOfMonth(today)
	}

	if t, ok := calendarDate(lower, today); ok {
		return t
	}

	res, err := d.parser.Parse(lower, today)
	if err != nil || res == nil {
		return today
	}
	return truncateDay(res.Time.In(today.Location()))
}

// calendarDate finds the first absolute date written in text. Matches
// are rewritten into a form dateparse reads unambiguously.
func calendarDate(text string, today time.Time) (time.Time, bool) {
	text = ordinalSuffix.ReplaceAllString(text, "$1")
	year := strconv.Itoa(today.Year())

	var candidates []string
	candidates = append(candidates, isoDate.FindAllString(text, -1)...)
	candidates = append(candidates, slashDate.FindAllString(text, -1)...)
	for _, m := range dayMonthDate.FindAllStringSubmatch(text, -1) {
		candidates = append(candidates, monthsByPrefix[m[2][:3]]+" "+m[1]+", "+firstNonBlank(m[3], year))
	}
	for _, m := range monthDayDate.FindAllStringSubmatch(text, -1) {
		candidates = append(candidates, monthsByPrefix[m[1][:3]]+" "+m[2]+", "+firstNonBlank(m[3], year))
	}

	for _, c := range candidates {
		t, err := dateparse.ParseIn(c, today.Location())
		if err != nil {
			continue
		}
		return truncateDay(t), true
	}
	return time.Time{}, false
}

func firstNonBlank(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// NormalizeWhen appends the resolved "(YYYY-MM-DD)" date to raw unless it
// already carries one.
func (d *DateResolver) NormalizeWhen(raw string, today time.Time) string {
	if resolvedDateSuffix.MatchString(raw) {
		return raw
	}
	return raw + " (" + d.Resolve(raw, today).Format(dateLayout) + ")"
}

// NormalizeDuration rewrites a duration without a day unit as "<N> days",
// using the first integer in the text as is. Text with no integer is
// returned unchanged.
func NormalizeDuration(raw string) string {
	lower := strings.ToLower(raw)
	if strings.Contains(lower, "day") {
		return raw
	}
	digits := firstInteger.FindString(lower)
	if digits == "" {
		return raw
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return raw
	}
	return strconv.Itoa(n) + " days"
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func lastOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location())
}

// addMonthsClamped moves t by n months, pinning the day to the target
// month's last day instead of overflowing into the following month.
func addMonthsClamped(t time.Time, n int) time.Time {
	target := firstOfMonth(t).AddDate(0, n, 0)
	day := t.Day()
	if last := lastOfMonth(target).Day(); day > last {
		day = last
	}
	return time.Date(target.Year(), target.Month(), day, 0, 0, 0, 0, t.Location())
}
