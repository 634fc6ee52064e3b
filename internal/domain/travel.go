package domain

import (
	"sort"
	"strings"
)

// Field names one slot of a TravelRecord. The string values are the keys
// used in extraction payloads and session summaries.
type Field string

const (
	FieldFrom           Field = "from"
	FieldTo             Field = "to"
	FieldTravelingWith  Field = "traveling_with"
	FieldWhen           Field = "when"
	FieldDuration       Field = "duration"
	FieldPurpose        Field = "purpose"
	FieldTransportation Field = "transportation"
	FieldDescription    Field = "descriptions of the trip"
)

// AllFields lists every slot in collection order.
var AllFields = []Field{
	FieldFrom, FieldTo, FieldTravelingWith, FieldWhen,
	FieldDuration, FieldPurpose, FieldTransportation, FieldDescription,
}

// RequiredFields are the slots the user must supply. The description is
// derived once these are known.
var RequiredFields = AllFields[:7]

// ParseField maps a payload key onto a Field.
func ParseField(s string) (Field, bool) {
	for _, f := range AllFields {
		if string(f) == s {
			return f, true
		}
	}
	return "", false
}

// TravelRecord holds the trip details gathered from the user. A nil
// pointer means the slot is unset.
type TravelRecord struct {
	From           *string
	To             *string
	TravelingWith  *string
	When           *string
	Duration       *string
	Purpose        *string
	Transportation *string
	Description    *string
}

func (r *TravelRecord) slot(f Field) **string {
	switch f {
	case FieldFrom:
		return &r.From
	case FieldTo:
		return &r.To
	case FieldTravelingWith:
		return &r.TravelingWith
	case FieldWhen:
		return &r.When
	case FieldDuration:
		return &r.Duration
	case FieldPurpose:
		return &r.Purpose
	case FieldTransportation:
		return &r.Transportation
	case FieldDescription:
		return &r.Description
	}
	return nil
}

// Get returns the value of f and whether it is set.
func (r TravelRecord) Get(f Field) (string, bool) {
	p := r.slot(f)
	if p == nil || *p == nil {
		return "", false
	}
	return **p, true
}

// Value returns the value of f, or "" when unset.
func (r TravelRecord) Value(f Field) string {
	v, _ := r.Get(f)
	return v
}

// IsSet reports whether f holds a value.
func (r TravelRecord) IsSet(f Field) bool {
	_, ok := r.Get(f)
	return ok
}

// Set stores v in f. Unknown fields are ignored.
func (r *TravelRecord) Set(f Field, v string) {
	if p := r.slot(f); p != nil {
		val := v
		*p = &val
	}
}

// Unset clears f.
func (r *TravelRecord) Unset(f Field) {
	if p := r.slot(f); p != nil {
		*p = nil
	}
}

// Missing returns every unset field, description included, in
// collection order.
func (r TravelRecord) Missing() []Field {
	missing := make([]Field, 0, len(AllFields))
	for _, f := range AllFields {
		if !r.IsSet(f) {
			missing = append(missing, f)
		}
	}
	return missing
}

// IsComplete reports whether all seven required fields are set.
func (r TravelRecord) IsComplete() bool {
	for _, f := range RequiredFields {
		if !r.IsSet(f) {
			return false
		}
	}
	return true
}

// Status is the summary form of IsComplete.
func (r TravelRecord) Status() RecordStatus {
	if r.IsComplete() {
		return StatusComplete
	}
	return StatusIncomplete
}

// Collected returns the set of populated fields. It is derived from the
// record on every call, so it can never drift from the slots.
func (r TravelRecord) Collected() CollectedSet {
	set := make(CollectedSet, len(AllFields))
	for _, f := range AllFields {
		if r.IsSet(f) {
			set[f] = struct{}{}
		}
	}
	return set
}

// Values returns the non-empty slots keyed by payload name.
func (r TravelRecord) Values() map[string]string {
	out := make(map[string]string, len(AllFields))
	for _, f := range AllFields {
		if v, ok := r.Get(f); ok && v != "" {
			out[string(f)] = v
		}
	}
	return out
}

// Clone returns a deep copy.
func (r TravelRecord) Clone() TravelRecord {
	var c TravelRecord
	for _, f := range AllFields {
		if v, ok := r.Get(f); ok {
			c.Set(f, v)
		}
	}
	return c
}

// WhenDisplay returns the travel date text without its resolved
// "(YYYY-MM-DD)" suffix.
func (r TravelRecord) WhenDisplay() string {
	when := r.Value(FieldWhen)
	if i := strings.Index(when, "("); i >= 0 {
		return strings.TrimSpace(when[:i])
	}
	return when
}

// CollectedSet is the set of populated field names.
type CollectedSet map[Field]struct{}

func (s CollectedSet) Has(f Field) bool {
	_, ok := s[f]
	return ok
}

// Sorted returns the members in collection order.
func (s CollectedSet) Sorted() []Field {
	out := make([]Field, 0, len(s))
	for f := range s {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return fieldIndex(out[i]) < fieldIndex(out[j]) })
	return out
}

func fieldIndex(f Field) int {
	for i, g := range AllFields {
		if g == f {
			return i
		}
	}
	return len(AllFields)
}
