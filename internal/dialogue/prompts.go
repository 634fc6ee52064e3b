package dialogue

import (
	"fmt"
	"strings"
	"time"

	"github.com/travellabs/tripbot/internal/domain"
)

const personaPrompt = `You are Martin, a warm and experienced travel planning assistant from Travel Labs.
You are genuinely excited about the user's upcoming trip, you know destinations worldwide,
and you enjoy sharing a quick insider tip when it helps.

Personality: friendly, enthusiastic, knowledgeable but approachable, never robotic.

Goal: collect the user's travel preferences through natural conversation, and answer
travel-related questions along the way.

Fields to collect, in this order:
1. to - the destination
2. from - the starting location
3. traveling_with - who is coming along and how many people in total
4. when - the travel dates
5. duration - how long the trip lasts
6. purpose - the kind of trip (sightseeing, foodie, cultural, a mix, ...)
7. transportation - how they want to get around at the destination

Rules:
- Ask for several missing fields at once when it feels natural.
- Always ask explicitly for the next missing field.
- If the user answers a different field, acknowledge it, then come back to the missing one.
- Never overwrite or contradict information the user already gave.
- Do not summarize the trip details; a confirmation summary is shown separately.
- Answer travel questions fully, then return to the missing information.
- Politely steer away from topics unrelated to travel.

Formatting: use **bold**, _italics_, bullet lists and numbered lists where they help,
with blank lines between paragraphs.`

const changePrompt = `You are Martin, helping a user modify their travel information.
The user is describing changes in natural language.

Fields that can be updated: from, to, traveling_with, when, duration, purpose, transportation.

Acknowledge the change naturally, then ask whether anything else should change.
Keep your response SHORT (1-2 sentences).`

// languageInstruction pins the reply language for the whole conversation.
func languageInstruction(lang domain.Language) string {
	if lang == domain.LanguageChinese {
		return "Please respond ONLY in Traditional Chinese throughout this entire conversation."
	}
	return "Please respond ONLY in English throughout this conversation."
}

// systemPrompt is the persona plus the language instruction.
func systemPrompt(lang domain.Language) string {
	return personaPrompt + "\n\n" + languageInstruction(lang)
}

// collectingPrompt adds the current missing-field list to the system prompt.
func collectingPrompt(lang domain.Language, missing []domain.Field) string {
	return fmt.Sprintf("%s\n\nStill missing: %s. Keep responses SHORT (1-2 sentences). Just ask for the next missing field.",
		systemPrompt(lang), formatFieldList(missing))
}

func changeAckPrompt(lang domain.Language) string {
	return changePrompt + "\n\n" + languageInstruction(lang)
}

func formatFieldList(fields []domain.Field) string {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = "'" + string(f) + "'"
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

func extractionPrompt(transcript string, today time.Time) string {
	return fmt.Sprintf(`Based on the entire conversation below, extract the travel information as JSON.
Include every detail the user has provided anywhere in the conversation.
For "when", give the user's original wording followed by the approximate date in parentheses.
For "duration", give the trip length as a string in days.
Leave "descriptions of the trip" as null.

If the latest user message changes a field, extract the NEW value, not the old one.

Current date: %s

Conversation: %s

Return exactly this shape:
{
    "from": "starting location or null",
    "to": "destination or null",
    "traveling_with": "who is traveling, with the total number of people, or null",
    "when": "original text (approximate date) or null",
    "duration": "trip length as a string with 'days' or null",
    "purpose": "the type of trip or null",
    "transportation": "how they will get around or null",
    "descriptions of the trip": null
}

Only include values the user stated explicitly; use null for anything missing.
Respond with only the JSON object.`, today.Format(dateLayout), transcript)
}

func descriptionPrompt(transcript string, rec domain.TravelRecord) string {
	notSpecified := func(f domain.Field) string {
		if v, ok := rec.Get(f); ok {
			return v
		}
		return "Not specified"
	}
	return fmt.Sprintf(`Using the whole conversation and the collected travel information, write a trip description that captures:
1. What this trip is about
2. How the trip is organized
3. What the traveler wants to get out of it
4. Any specific preferences, interests or requirements they mentioned
5. The overall experience they are looking for

Conversation: %s

Collected travel information:
- From: %s
- To: %s
- Traveling with: %s
- When: %s
- Duration: %s
- Purpose: %s
- Transportation: %s

Write 2-3 paragraphs that would let a travel planner understand exactly what kind of trip this is,
focusing on the traveler's motivations, preferences and desired experiences.

Return only the description text, with no formatting or labels.`,
		transcript,
		notSpecified(domain.FieldFrom),
		notSpecified(domain.FieldTo),
		notSpecified(domain.FieldTravelingWith),
		notSpecified(domain.FieldWhen),
		notSpecified(domain.FieldDuration),
		notSpecified(domain.FieldPurpose),
		notSpecified(domain.FieldTransportation),
	)
}

// fallbackDescription is stored when the description call fails so the
// record can still be confirmed and handed off.
const fallbackDescription = "A personalized travel experience based on the traveler's preferences and requirements discussed in the conversation."
