package dialogue

import (
	"strings"

	"github.com/travellabs/tripbot/internal/domain"
)

// TextKey identifies a localized message.
type TextKey string

const (
	TextWelcome               TextKey = "welcome_message"
	TextConfirmation          TextKey = "confirmation_prompt"
	TextError                 TextKey = "error_message"
	TextGoodbye               TextKey = "goodbye_message"
	TextChangeAcknowledgement TextKey = "change_acknowledgement"
	TextMissingInfo           TextKey = "missing_info_prompt"
	TextConfirmationRequest   TextKey = "confirmation_request"
)

// Texts is the message table for one language.
type Texts map[TextKey]string

var textTable = map[domain.Language]Texts{
	domain.LanguageEnglish: {
		TextWelcome: "Welcome to Travel Labs! I'm Martin, your travel planning assistant. How can I help you start planning your trip today?",
		TextConfirmation: "Alright, {duration} in {to}—awesome choice!\n\n" +
			"- From: {from_}\n" +
			"- To: {to}\n" +
			"- Traveling with: {traveling_with}\n" +
			"- When: {when}\n" +
			"- Duration: {duration}\n" +
			"- Purpose: {purpose}\n" +
			"- Transportation: {transportation}\n\n" +
			"Sound about right? Anything else you want to add or tweak before I whip up your traveling plan?",
		TextError:                 "Sorry, I'm having trouble connecting right now. Please try again later.",
		TextGoodbye:               "Goodbye! Happy travels!",
		TextChangeAcknowledgement: "Got it! I've updated your trip details accordingly.",
		TextMissingInfo:           "Could you please provide your {field}?",
		TextConfirmationRequest:   "Does everything look good now? Reply with 'Yes' to confirm or let me know any other changes.",
	},
	domain.LanguageChinese: {
		TextWelcome: "欢迎来到Travel Labs！我是Martin，您的旅行规划助手。请告诉我您的旅行计划，我们开始吧！",
		TextConfirmation: "好的，您将在{to}度过{duration}，真是个不错的选择！\n\n" +
			"- 出发地：{from_}\n" +
			"- 目的地：{to}\n" +
			"- 同行人员：{traveling_with}\n" +
			"- 时间：{when}\n" +
			"- 时长：{duration}\n" +
			"- 旅行目的：{purpose}\n" +
			"- 交通方式：{transportation}\n\n" +
			"这些信息是否正确？在我帮您制定旅行计划前，还有什么需要补充或调整的吗？",
		TextError:                 "抱歉，我现在连接出现问题，请稍后再试。",
		TextGoodbye:               "再见！祝您旅途愉快！",
		TextChangeAcknowledgement: "好的！我已根据您的要求更新了旅行信息。",
		TextMissingInfo:           "请告诉我您的{field}。",
		TextConfirmationRequest:   "请确认是否所有信息正确，回复“是”确认，或者告诉我需要更改的地方。",
	},
}

// TextsFor returns the table for lang, falling back to English.
func TextsFor(lang domain.Language) Texts {
	if t, ok := textTable[lang]; ok {
		return t
	}
	return textTable[domain.LanguageEnglish]
}

// Get returns the raw template for key, or "" when absent.
func (t Texts) Get(key TextKey) string {
	return t[key]
}

// Format substitutes {name} placeholders in the template for key.
func (t Texts) Format(key TextKey, args map[string]string) string {
	tmpl := t.Get(key)
	if len(args) == 0 {
		return tmpl
	}
	pairs := make([]string, 0, len(args)*2)
	for k, v := range args {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

// Confirmation renders the confirmation template from rec. The travel
// date is shown without its resolved ISO suffix.
func (t Texts) Confirmation(rec domain.TravelRecord) string {
	return t.Format(TextConfirmation, map[string]string{
		"from_":          rec.Value(domain.FieldFrom),
		"to":             rec.Value(domain.FieldTo),
		"traveling_with": rec.Value(domain.FieldTravelingWith),
		"when":           rec.WhenDisplay(),
		"duration":       rec.Value(domain.FieldDuration),
		"purpose":        rec.Value(domain.FieldPurpose),
		"transportation": rec.Value(domain.FieldTransportation),
	})
}
