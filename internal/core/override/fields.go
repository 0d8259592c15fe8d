package override

import (
	"fmt"
	"strings"
)

// Field names a user-editable override field, using the persisted JSON names.
type Field string

const (
	FieldPlusQuestion Field = "plusQuestion"
	FieldStatut       Field = "statut"
	FieldCommentaire  Field = "commentaire"
	FieldDateSAP      Field = "dateSAP"
)

// ParseField validates a field name coming from the boundary.
func ParseField(s string) (Field, error) {
	switch Field(s) {
	case FieldPlusQuestion, FieldStatut, FieldCommentaire, FieldDateSAP:
		return Field(s), nil
	default:
		return "", fmt.Errorf("unknown field %q (expected plusQuestion, statut, commentaire or dateSAP)", s)
	}
}

// ApplyField returns a copy of ov with field set from its text value.
// plusQuestion reads its leading signed integer and falls back to 0, the same
// way stored values are decoded. statut takes one of the known states,
// dateSAP a boolean and commentaire any text.
func ApplyField(key string, ov ManualOverride, field Field, value string) (ManualOverride, error) {
	switch field {
	case FieldPlusQuestion:
		ov.PlusQuestion = DayAdjustment(leadingInt(value))
	case FieldStatut:
		if err := CanTransitionStatus(StatusTransitionContext{Key: key, Current: ov.Statut, Next: value}).Error(); err != nil {
			return ov, err
		}
		ov.Statut = Status(value)
	case FieldCommentaire:
		ov.Commentaire = value
	case FieldDateSAP:
		b, err := parseCheckbox(value)
		if err != nil {
			return ov, fmt.Errorf("invalid dateSAP value for %s: %w", key, err)
		}
		ov.DateSAP = b
	default:
		return ov, fmt.Errorf("unknown field %q", field)
	}
	return ov, nil
}

// AdjustByStep returns ov with delta days added to its current adjustment.
func AdjustByStep(ov ManualOverride, delta int) ManualOverride {
	ov.PlusQuestion += DayAdjustment(delta)
	return ov
}

func parseCheckbox(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "on", "yes", "oui":
		return true, nil
	case "", "0", "false", "off", "no", "non":
		return false, nil
	default:
		return false, fmt.Errorf("%q is not a boolean", value)
	}
}
