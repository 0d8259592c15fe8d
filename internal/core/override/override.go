// Package override contains the pure business logic for manual overrides:
// the user-entered status, comment, day adjustment and SAP-date flag layered
// on top of a computed TPAA/PW schedule.
// This is part of the Functional Core - no I/O, only pure functions.
package override

import (
	"encoding/json"
	"strconv"
	"strings"
)

// DayAdjustment is the signed "+?" day shift applied to a target date.
// It is stored as a decimal string ("7", "-14") for compatibility with
// existing data, and decodes from either a string or a number.
type DayAdjustment int

// MarshalJSON encodes the adjustment as a decimal string.
func (d DayAdjustment) MarshalJSON() ([]byte, error) {
	return json.Marshal(strconv.Itoa(int(d)))
}

// UnmarshalJSON accepts "7", 7, "", null and leading-integer strings such as "7 j".
func (d *DayAdjustment) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch typed := v.(type) {
	case nil:
		*d = 0
	case float64:
		*d = DayAdjustment(int(typed))
	case string:
		*d = DayAdjustment(leadingInt(typed))
	default:
		*d = 0
	}
	return nil
}

// leadingInt parses an optional sign followed by digits, ignoring anything
// after them. Returns 0 when no digits are present.
func leadingInt(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}

// ManualOverride is the persisted user-entered layer for one schedule row.
type ManualOverride struct {
	PlusQuestion DayAdjustment `json:"plusQuestion"`
	Statut       Status        `json:"statut"`
	Commentaire  string        `json:"commentaire"`
	DateSAP      bool          `json:"dateSAP"`
}

// Default returns the override used when nothing has been entered yet.
func Default() ManualOverride {
	return ManualOverride{PlusQuestion: 0, Statut: StatusNone}
}

// IsDefault reports whether the override carries no user input.
func (o ManualOverride) IsDefault() bool {
	return o == Default()
}
