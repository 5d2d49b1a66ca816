package model

import "encoding/json"

// OutcomeStatus distinguishes a successful lookup from an unavailable list.
type OutcomeStatus int

const (
	// StatusSuccess means the list was parsed; Entries may be empty.
	StatusSuccess OutcomeStatus = iota
	// StatusUnavailable means the list could not be fetched or parsed.
	StatusUnavailable
)

// String returns the status name used in logs and the history table.
func (s OutcomeStatus) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Outcome is the result of one pipeline run.
type Outcome struct {
	// Status tells Success and Unavailable apart.
	Status OutcomeStatus

	// Entries holds the matching entry texts in document order.
	// Always non-nil for a success.
	Entries []string

	// Reason is the classification of an unavailable outcome.
	Reason string

	// PageCount and EntryCount describe the parsed document (success only).
	PageCount  int
	EntryCount int
}

// Success creates a successful outcome. A nil slice is stored as empty so
// it serializes as [] rather than null.
func Success(entries []string) *Outcome {
	if entries == nil {
		entries = []string{}
	}
	return &Outcome{Status: StatusSuccess, Entries: entries}
}

// Unavailable creates an unavailable outcome with the given reason.
func Unavailable(reason string) *Outcome {
	return &Outcome{Status: StatusUnavailable, Reason: reason}
}

// IsSuccess reports whether the outcome is a success.
func (o *Outcome) IsSuccess() bool {
	return o.Status == StatusSuccess
}

// Output returns the value of the "Output" field: the entries on success,
// a single-element slice holding UnavailableMessage otherwise.
func (o *Outcome) Output() []string {
	if o.Status == StatusUnavailable {
		return []string{UnavailableMessage}
	}
	if o.Entries == nil {
		return []string{}
	}
	return o.Entries
}

// MarshalJSON encodes the outcome as {"Output": [...]}.
func (o *Outcome) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Output []string `json:"Output"`
	}{Output: o.Output()})
}
