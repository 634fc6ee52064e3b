package dialogue

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/travellabs/tripbot/internal/domain"
	"github.com/travellabs/tripbot/internal/testutil"
)

var allTextKeys = []TextKey{
	TextWelcome, TextConfirmation, TextError, TextGoodbye,
	TextChangeAcknowledgement, TextMissingInfo, TextConfirmationRequest,
}

func TestTexts_EveryKeyTranslated(t *testing.T) {
	for _, lang := range []domain.Language{domain.LanguageEnglish, domain.LanguageChinese} {
		texts := TextsFor(lang)
		for _, key := range allTextKeys {
			assert.NotEmpty(t, texts.Get(key), "%s/%s", lang, key)
		}
	}
}

func TestTextsFor_UnknownLanguageFallsBack(t *testing.T) {
	assert.Equal(t, TextsFor(domain.LanguageEnglish), TextsFor("klingon"))
}

func TestTexts_Confirmation(t *testing.T) {
	got := TextsFor(domain.LanguageEnglish).Confirmation(testutil.FullRecord())

	want := "Alright, 10 days in Kyoto—awesome choice!\n\n" +
		"- From: New York, USA\n" +
		"- To: Kyoto\n" +
		"- Traveling with: 2 people (couple)\n" +
		"- When: next week\n" +
		"- Duration: 10 days\n" +
		"- Purpose: cultural\n" +
		"- Transportation: public transport and walking\n\n" +
		"Sound about right? Anything else you want to add or tweak before I whip up your traveling plan?"
	assert.Equal(t, want, got)
}

func TestTexts_Format(t *testing.T) {
	texts := TextsFor(domain.LanguageEnglish)
	assert.Equal(t, "Could you please provide your duration?",
		texts.Format(TextMissingInfo, map[string]string{"field": "duration"}))
	assert.Equal(t, texts.Get(TextGoodbye), texts.Format(TextGoodbye, nil))
}

func TestIsAffirmation(t *testing.T) {
	for _, yes := range []string{"yes", "  YES ", "Sounds good", "👍", "okie dokie", "是的", "that's it"} {
		assert.True(t, IsAffirmation(yes), yes)
	}
	for _, no := range []string{"", "maybe change the dates", "yes but make it 12 days", "no", "nope"} {
		assert.False(t, IsAffirmation(no), no)
	}
}
