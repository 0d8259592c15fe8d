// Package designation contains the pure business logic for designation codes.
// A designation such as "TPAA-2" or "PW -10" encodes both the kind of work
// and the scheduling offset before the shutdown start date.
// This is part of the Functional Core - no I/O, only pure functions.
package designation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Kind identifies the family of a scheduled work item.
type Kind int

const (
	// KindTPAA is pre-shutdown preparatory work, offset in weeks.
	KindTPAA Kind = iota + 1
	// KindPW is planned work, offset in days.
	KindPW
)

// Kinds lists every known kind in display order.
var Kinds = []Kind{KindTPAA, KindPW}

// String returns the lower-case identifier used in composite keys ("tpaa", "pw").
func (k Kind) String() string {
	switch k {
	case KindTPAA:
		return "tpaa"
	case KindPW:
		return "pw"
	default:
		return "unknown"
	}
}

// Prefix returns the upper-case designation prefix for the kind.
func (k Kind) Prefix() string {
	switch k {
	case KindTPAA:
		return "TPAA"
	case KindPW:
		return "PW"
	default:
		return ""
	}
}

// Unit returns the short unit label of the offset ("sem." for weeks, "j" for days).
func (k Kind) Unit() string {
	if k == KindTPAA {
		return "sem."
	}
	return "j"
}

// OffsetDays converts an offset expressed in the kind's unit into calendar days.
func (k Kind) OffsetDays(offset int) int {
	if k == KindTPAA {
		return offset * 7
	}
	return offset
}

// ParseKind parses a boundary value ("tpaa", "PW", ...) into a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tpaa":
		return KindTPAA, nil
	case "pw":
		return KindPW, nil
	default:
		return 0, fmt.Errorf("unknown table %q (expected tpaa or pw)", s)
	}
}

// Designation is the tagged variant carried alongside a work-order row:
// the kind plus the offset in weeks (TPAA) or days (PW).
type Designation struct {
	Kind   Kind
	Offset int
}

var offsetPattern = regexp.MustCompile(`-(\d{1,3})`)

// ExtractOffset returns the integer following the first hyphen in the
// designation ("TPAA-2" -> 2, "PW -10" -> 10). Returns 0 when no hyphen
// followed by 1-3 digits exists; 0 is the intentional "no offset known" value.
func ExtractOffset(designation string) int {
	m := offsetPattern.FindStringSubmatch(designation)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

// HasPrefix reports whether the designation starts with the kind's prefix,
// ignoring case and surrounding whitespace.
func HasPrefix(kind Kind, designation string) bool {
	prefix := kind.Prefix()
	if prefix == "" {
		return false
	}
	return strings.HasPrefix(strings.ToUpper(strings.TrimSpace(designation)), prefix)
}

// Classify returns the designation variant for a free-text code.
// The second value is false when the code has no recognised prefix.
func Classify(designation string) (Designation, bool) {
	for _, k := range Kinds {
		if HasPrefix(k, designation) {
			return Designation{Kind: k, Offset: ExtractOffset(designation)}, true
		}
	}
	return Designation{}, false
}
