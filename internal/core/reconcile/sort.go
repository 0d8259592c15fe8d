package reconcile

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/example/arret/internal/core/designation"
)

// SortStateStorageKey is the storage key of the persisted sort state.
const SortStateStorageKey = "tpaaPwSortState"

// Direction is a sort direction; DirectionNone leaves rows in source order.
type Direction string

const (
	DirectionNone Direction = ""
	DirectionAsc  Direction = "asc"
	DirectionDesc Direction = "desc"
)

// ParseDirection accepts "asc", "desc" and "none" (or "").
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc":
		return DirectionAsc, nil
	case "desc":
		return DirectionDesc, nil
	case "", "none", "null":
		return DirectionNone, nil
	default:
		return DirectionNone, fmt.Errorf("invalid sort direction %q (expected asc, desc or none)", s)
	}
}

// MarshalJSON encodes DirectionNone as null.
func (d Direction) MarshalJSON() ([]byte, error) {
	if d == DirectionNone {
		return []byte("null"), nil
	}
	return json.Marshal(string(d))
}

// SortColumn selects the sort key of a table.
type SortColumn string

const (
	SortByDate       SortColumn = "date"
	SortByWorkCenter SortColumn = "externe"
)

// ParseSortColumn accepts "date" and "externe".
func ParseSortColumn(s string) (SortColumn, error) {
	switch SortColumn(strings.ToLower(strings.TrimSpace(s))) {
	case SortByDate, "":
		return SortByDate, nil
	case SortByWorkCenter:
		return SortByWorkCenter, nil
	default:
		return SortByDate, fmt.Errorf("invalid sort column %q (expected date or externe)", s)
	}
}

// SortState is the persisted sort configuration of both tables.
type SortState struct {
	TPAA       Direction  `json:"tpaa"`
	PW         Direction  `json:"pw"`
	TPAASortBy SortColumn `json:"tpaaSortBy"`
	PWSortBy   SortColumn `json:"pwSortBy"`
}

// DefaultSortState sorts TPAA ascending by date and leaves PW unsorted.
func DefaultSortState() SortState {
	return SortState{TPAA: DirectionAsc, PW: DirectionNone, TPAASortBy: SortByDate, PWSortBy: SortByDate}
}

// Normalize fills the gaps of a loaded state: a missing TPAA direction
// falls back to asc and missing columns to date.
func (s SortState) Normalize() SortState {
	if s.TPAA == DirectionNone {
		s.TPAA = DirectionAsc
	}
	if s.TPAASortBy == "" {
		s.TPAASortBy = SortByDate
	}
	if s.PWSortBy == "" {
		s.PWSortBy = SortByDate
	}
	return s
}

// For returns the direction and column of a table.
func (s SortState) For(kind designation.Kind) (Direction, SortColumn) {
	if kind == designation.KindPW {
		return s.PW, s.PWSortBy
	}
	return s.TPAA, s.TPAASortBy
}

// With returns a copy with the table's direction and column replaced.
func (s SortState) With(kind designation.Kind, dir Direction, by SortColumn) SortState {
	if kind == designation.KindPW {
		s.PW, s.PWSortBy = dir, by
	} else {
		s.TPAA, s.TPAASortBy = dir, by
	}
	return s
}

// WithDirection returns a copy with only the table's direction replaced.
func (s SortState) WithDirection(kind designation.Kind, dir Direction) SortState {
	_, by := s.For(kind)
	return s.With(kind, dir, by)
}

// SortRows returns a stably sorted copy of rows.
//   - date: by effective date; rows without a date always come last
//   - externe: by upper-cased work centre under French case-insensitive collation
//
// DirectionNone returns the rows in their original order.
func SortRows(rows []Row, dir Direction, by SortColumn) []Row {
	out := slices.Clone(rows)
	if dir == DirectionNone {
		return out
	}
	sign := 1
	if dir == DirectionDesc {
		sign = -1
	}

	switch by {
	case SortByWorkCenter:
		// Collators keep internal buffers and must not be shared.
		c := collate.New(language.French, collate.IgnoreCase)
		slices.SortStableFunc(out, func(a, b Row) int {
			return sign * c.CompareString(strings.ToUpper(a.WorkCenter), strings.ToUpper(b.WorkCenter))
		})
	default:
		slices.SortStableFunc(out, func(a, b Row) int {
			da, db := a.EffectiveDate, b.EffectiveDate
			switch {
			case da == "" && db == "":
				return 0
			case da == "":
				return 1
			case db == "":
				return -1
			}
			return sign * strings.Compare(da, db)
		})
	}
	return out
}
