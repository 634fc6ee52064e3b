package dialogue

import "github.com/travellabs/tripbot/internal/domain"

// Summary is the JSON view of a session exposed to callers.
type Summary struct {
	TravelInfo  map[string]string   `json:"travel_info"`
	Status      domain.RecordStatus `json:"status"`
	MissingInfo []string            `json:"missing_info"`
	Confirmed   bool                `json:"confirmed"`
}

func newSummary(rec domain.TravelRecord, state domain.DialogueState) Summary {
	return Summary{
		TravelInfo:  rec.Values(),
		Status:      rec.Status(),
		MissingInfo: fieldNames(rec.Missing()),
		Confirmed:   state == domain.StateConfirmed,
	}
}
