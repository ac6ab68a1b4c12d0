package models

// Contestant represents one entry in the current roster.
// The ID is assigned positionally at import time and is stable until the
// roster is replaced or cleared.
type Contestant struct {
	ID     string            `json:"id"`
	Name   string            `json:"name"`
	Ticket string            `json:"ticket"`
	Email  string            `json:"email,omitempty"`
	Extra  map[string]string `json:"extra,omitempty"`
}

// ColumnMapping tells the CSV mapper which source columns feed which
// contestant fields. Column identifiers are header names when HasHeaderRow
// is true, otherwise 1-based positional indexes.
type ColumnMapping struct {
	NameColumn   string            `json:"nameColumn"`
	TicketColumn string            `json:"ticketColumn"`
	EmailColumn  string            `json:"emailColumn,omitempty"`
	ExtraColumns map[string]string `json:"extraColumns,omitempty"`
	HasHeaderRow bool              `json:"hasHeaderRow"`
	Delimiter    string            `json:"delimiter"`
}

// MappingPreset is a named, reusable column mapping.
type MappingPreset struct {
	Name    string        `json:"name"`
	Mapping ColumnMapping `json:"mapping"`
}

// Randomizer type constants
const (
	TypeWheel = "wheel"
	TypeSlot  = "slot"
)

// WinnerRecord is one entry in the draw history. Records are never mutated
// after creation; the history is newest-first.
type WinnerRecord struct {
	ID             string `json:"id"`
	Timestamp      int64  `json:"timestamp"` // ms since epoch
	RandomizerType string `json:"randomizerType"`
	Label          string `json:"label"`
	Value          string `json:"value,omitempty"`
	Detail         string `json:"detail,omitempty"`
}

// WheelSegment is one slice of the wheel, colored round-robin from the
// active theme palette when no explicit color is set.
type WheelSegment struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Color string `json:"color"`
}

// ReelSymbol is one cell on a slot reel strip.
type ReelSymbol struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Color string `json:"color"`
}

// Request types

type ImportRequest struct {
	Text    string        `json:"text"`
	Mapping ColumnMapping `json:"mapping"`
}

type HeadersRequest struct {
	Text      string `json:"text"`
	Delimiter string `json:"delimiter"`
}

type SpinRequest struct {
	Mode             string `json:"mode"`   // "random" or "ticket"
	Ticket           string `json:"ticket"` // required when mode is "ticket"
	Theme            string `json:"theme"`
	Profile          string `json:"profile"`
	DurationMs       int64  `json:"durationMs"`
	IterationCount   int    `json:"iterationCount"`
	ReelCount        int    `json:"reelCount"`         // slot only
	ProgressiveDelay int64  `json:"progressiveDelayMs"` // slot only
}

type SavePresetRequest struct {
	Name    string        `json:"name"`
	Mapping ColumnMapping `json:"mapping"`
}

// Response types

type ImportResponse struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Warnings []string `json:"warnings,omitempty"`
}

type WheelSpinResponse struct {
	WinnerIndex int            `json:"winnerIndex"`
	Winner      Contestant     `json:"winner"`
	Segments    []WheelSegment `json:"segments"`
	TargetAngle float64        `json:"targetAngle"`
	DurationMs  int64          `json:"durationMs"`
}

type SlotSpinResponse struct {
	WinnerIndex int            `json:"winnerIndex"`
	Winner      Contestant     `json:"winner"`
	Reels       [][]ReelSymbol `json:"reels"`
	StopIndexes []int          `json:"stopIndexes"` // read-position strip index per reel
	StopTimesMs []int64        `json:"stopTimesMs"`
	DurationMs  int64          `json:"durationMs"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
