package domain

import (
	"strings"

	"golang.org/x/text/language"
)

// Language selects the localized texts and the reply language the model
// is instructed to use.
type Language string

const (
	LanguageEnglish Language = "english"
	LanguageChinese Language = "chinese"
)

var (
	supportedTags = []language.Tag{language.English, language.Chinese}
	tagMatcher    = language.NewMatcher(supportedTags)
)

// ParseLanguage resolves a language name ("English", "chinese") or a
// BCP 47 tag / Accept-Language value ("zh-TW", "en-GB;q=0.8") onto a
// supported language. Anything unrecognized falls back to English.
func ParseLanguage(s string) Language {
	s = strings.TrimSpace(strings.ToLower(s))
	switch s {
	case string(LanguageEnglish):
		return LanguageEnglish
	case string(LanguageChinese):
		return LanguageChinese
	case "":
		return LanguageEnglish
	}

	tags, _, err := language.ParseAcceptLanguage(s)
	if err != nil || len(tags) == 0 {
		return LanguageEnglish
	}
	_, idx, conf := tagMatcher.Match(tags...)
	if conf == language.No {
		return LanguageEnglish
	}
	if supportedTags[idx] == language.Chinese {
		return LanguageChinese
	}
	return LanguageEnglish
}
