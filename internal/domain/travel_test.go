package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullRecord() TravelRecord {
	var r TravelRecord
	r.Set(FieldFrom, "New York")
	r.Set(FieldTo, "Kyoto")
	r.Set(FieldTravelingWith, "2 people")
	r.Set(FieldWhen, "next week (2025-05-26)")
	r.Set(FieldDuration, "10 days")
	r.Set(FieldPurpose, "cultural")
	r.Set(FieldTransportation, "train")
	return r
}

func TestTravelRecord_GetSet(t *testing.T) {
	var r TravelRecord
	_, ok := r.Get(FieldTo)
	assert.False(t, ok)

	r.Set(FieldTo, "Paris")
	v, ok := r.Get(FieldTo)
	require.True(t, ok)
	assert.Equal(t, "Paris", v)
	require.NotNil(t, r.To)
	assert.Equal(t, "Paris", *r.To)

	r.Unset(FieldTo)
	assert.False(t, r.IsSet(FieldTo))
}

func TestTravelRecord_SetUnknownFieldIgnored(t *testing.T) {
	var r TravelRecord
	r.Set(Field("budget"), "lots")
	assert.Empty(t, r.Values())
}

func TestTravelRecord_IsComplete_GatesOnTransportation(t *testing.T) {
	r := fullRecord()
	r.Unset(FieldTransportation)
	assert.False(t, r.IsComplete())
	assert.Equal(t, StatusIncomplete, r.Status())

	r.Set(FieldTransportation, "rental car")
	assert.True(t, r.IsComplete())
	assert.Equal(t, StatusComplete, r.Status())
}

func TestTravelRecord_DescriptionNotRequired(t *testing.T) {
	r := fullRecord()
	assert.True(t, r.IsComplete())
	assert.Equal(t, []Field{FieldDescription}, r.Missing())
}

func TestTravelRecord_CollectedMatchesSetSlots(t *testing.T) {
	var r TravelRecord
	r.Set(FieldWhen, "May")
	r.Set(FieldFrom, "Oslo")

	c := r.Collected()
	assert.Len(t, c, 2)
	assert.True(t, c.Has(FieldFrom))
	assert.False(t, c.Has(FieldTo))
	assert.Equal(t, []Field{FieldFrom, FieldWhen}, c.Sorted())

	for _, f := range AllFields {
		assert.Equal(t, r.IsSet(f), c.Has(f), string(f))
	}
}

func TestTravelRecord_CloneIsDeep(t *testing.T) {
	r := fullRecord()
	c := r.Clone()
	c.Set(FieldTo, "Osaka")
	assert.Equal(t, "Kyoto", r.Value(FieldTo))
	assert.Equal(t, "Osaka", c.Value(FieldTo))
}

func TestTravelRecord_WhenDisplay(t *testing.T) {
	var r TravelRecord
	assert.Equal(t, "", r.WhenDisplay())

	r.Set(FieldWhen, "next week (2025-05-26)")
	assert.Equal(t, "next week", r.WhenDisplay())

	r.Set(FieldWhen, "June 3rd")
	assert.Equal(t, "June 3rd", r.WhenDisplay())
}

func TestParseField(t *testing.T) {
	f, ok := ParseField("descriptions of the trip")
	assert.True(t, ok)
	assert.Equal(t, FieldDescription, f)

	_, ok = ParseField("budget")
	assert.False(t, ok)
}

func TestConversationLog_TailAndTranscript(t *testing.T) {
	l := NewConversationLog(Turn{Role: RoleAssistant, Content: "Welcome!"})
	l.Append(RoleUser, "Kyoto")
	l.Append(RoleAssistant, "When?")

	assert.Equal(t, 3, l.Len())
	assert.Len(t, l.Tail(2), 2)
	assert.Len(t, l.Tail(0), 3)
	assert.Len(t, l.Tail(10), 3)
	assert.Equal(t, "assistant: Welcome! user: Kyoto assistant: When?", Transcript(l.Turns()))

	turns := l.Turns()
	turns[0].Content = "mutated"
	assert.Equal(t, "Welcome!", l.Turns()[0].Content)
}

func TestParseLanguage(t *testing.T) {
	cases := map[string]Language{
		"English":                 LanguageEnglish,
		"chinese":                 LanguageChinese,
		"":                        LanguageEnglish,
		"zh-TW":                   LanguageChinese,
		"zh-Hant":                 LanguageChinese,
		"en-GB,en;q=0.9":          LanguageEnglish,
		"fr-FR":                   LanguageEnglish,
		"klingon":                 LanguageEnglish,
		"zh-CN,zh;q=0.9,en;q=0.8": LanguageChinese,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLanguage(in), in)
	}
}
