package dialogue

import "strings"

// affirmations is the closed set of replies accepted as confirming the
// summary. Matching is exact after lowercasing and trimming.
var affirmations = newTokenSet(
	// basic
	"yes", "yeah", "yep", "yup", "sure", "sure thing", "correct", "confirmed",
	"okay", "ok", "k", "roger", "roger that", "aye", "indeed", "absolutely",
	"definitely", "totally", "exactly", "right", "true", "affirmative",

	// casual
	"looks good", "sounds good", "works for me", "fine by me", "all good",
	"that's fine", "no problem", "cool", "alright", "that's right", "you got it",
	"makes sense", "that's correct", "on point", "go ahead", "it’s okay", "that’ll do",
	"i’m okay with that", "okie", "okie dokie", "okey-dokey",

	// positive feedback
	"perfect", "great", "awesome", "nailed it", "well done", "love it",
	"exact match", "beautiful", "fantastic", "excellent", "spot on", "brilliant",

	// emoji
	"👍", "👌", "✅", "🆗", "💯", "👍🏼", "👍🏽", "👍🏾", "👍🏿",

	// informal
	"yea", "ya", "yah", "yass", "yasss", "yessir", "yesss", "yas", "aight",

	// other
	"that's it", "done", "agreed", "i agree", "exactly right", "precisely",
	"you’re right", "just what i wanted", "as expected", "matches", "confirmed and agreed",

	// Chinese; the localized confirmation request asks for “是”.
	"是", "是的", "对", "对的", "好", "好的", "没问题", "确认", "可以",
)

type tokenSet map[string]struct{}

func newTokenSet(tokens ...string) tokenSet {
	s := make(tokenSet, len(tokens))
	for _, t := range tokens {
		s[t] = struct{}{}
	}
	return s
}

// IsAffirmation reports whether reply confirms the summary.
func IsAffirmation(reply string) bool {
	_, ok := affirmations[normalizeReply(reply)]
	return ok
}

func normalizeReply(reply string) string {
	return strings.TrimSpace(strings.ToLower(reply))
}
