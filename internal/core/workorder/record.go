// Package workorder normalises IW37N work-order rows.
// Rows arrive as flat header -> value maps whose headers vary between SAP
// exports, so every accessor resolves a list of header aliases.
package workorder

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/example/arret/internal/core/designation"
)

// Header aliases, first match wins.
var (
	OrderHeaders       = []string{"Ordre", "ordre"}
	OperationHeaders   = []string{"Opération", "Operation"}
	DesignationHeaders = []string{"Désign. opér.", "Désign.opération", "Design operation"}
	WorkCenterHeaders  = []string{"Post.trav.opér.", "Post.trav.oper.", "PosteTravOper", "Post. Trav."}
	PositionHeaders    = []string{"Poste technique", "PosteTechnique", "Technical position"}
	StateHeaders       = []string{"Etat", "État"}
)

// Placeholder is shown for identity fields that are missing from a row.
const Placeholder = "-"

// Record is one imported work-order row. It is read-only to the scheduling core.
type Record map[string]string

// UnmarshalJSON accepts rows whose values are strings, numbers or booleans
// (spreadsheet imports frequently store order numbers as numbers).
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Record, len(raw))
	for k, v := range raw {
		switch typed := v.(type) {
		case nil:
			continue
		case string:
			out[k] = typed
		case float64:
			out[k] = strconv.FormatFloat(typed, 'f', -1, 64)
		case bool:
			out[k] = strconv.FormatBool(typed)
		default:
			b, err := json.Marshal(typed)
			if err != nil {
				return err
			}
			out[k] = string(b)
		}
	}
	*r = out
	return nil
}

// Lookup returns the first non-empty value among the given headers.
func (r Record) Lookup(headers []string) string {
	for _, h := range headers {
		if v := r[h]; v != "" {
			return v
		}
	}
	return ""
}

// Order returns the order number, or "" when absent.
func (r Record) Order() string { return r.Lookup(OrderHeaders) }

// Operation returns the operation number, or "" when absent.
func (r Record) Operation() string { return r.Lookup(OperationHeaders) }

// Designation returns the operation designation text.
func (r Record) Designation() string { return r.Lookup(DesignationHeaders) }

// WorkCenter returns the external work-centre code.
func (r Record) WorkCenter() string { return r.Lookup(WorkCenterHeaders) }

// Position returns the technical position.
func (r Record) Position() string { return r.Lookup(PositionHeaders) }

// State returns the SAP system state.
func (r Record) State() string { return r.Lookup(StateHeaders) }

// OrPlaceholder returns s, or Placeholder when s is empty.
func OrPlaceholder(s string) string {
	if s == "" {
		return Placeholder
	}
	return s
}

// FilterByKind returns the rows whose trimmed, upper-cased designation
// starts with the kind prefix. Order is preserved.
func FilterByKind(records []Record, kind designation.Kind) []Record {
	out := make([]Record, 0)
	for _, r := range records {
		if designation.HasPrefix(kind, strings.TrimSpace(r.Designation())) {
			out = append(out, r)
		}
	}
	return out
}

// Split partitions an IW37N dataset into its TPAA and PW subsets.
func Split(records []Record) (tpaa, pw []Record) {
	return FilterByKind(records, designation.KindTPAA), FilterByKind(records, designation.KindPW)
}
