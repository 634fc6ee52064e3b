package domain

// DialogueState is the phase of a slot-filling conversation.
type DialogueState string

const (
	StateCollecting DialogueState = "collecting"
	StateConfirming DialogueState = "confirming"
	StateConfirmed  DialogueState = "confirmed"
)

// Terminal reports whether no further turns are accepted.
func (s DialogueState) Terminal() bool {
	return s == StateConfirmed
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type RecordStatus string

const (
	StatusComplete   RecordStatus = "complete"
	StatusIncomplete RecordStatus = "incomplete"
)
