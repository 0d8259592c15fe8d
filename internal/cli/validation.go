package cli

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/example/arret/internal/core/designation"
)

var monthPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

// validateTable checks that table names one of the schedule tables.
func validateTable(table string) error {
	if _, err := designation.ParseKind(table); err != nil {
		return fmt.Errorf("unknown table '%s'. Expected one of: tpaa, pw", table)
	}
	return nil
}

// validateRowKey checks that a row key belongs to table.
// Returns an error with a helpful message for common mistakes.
func validateRowKey(key, table string) error {
	expectedPrefix := strings.ToLower(table) + "-"
	if strings.HasPrefix(key, expectedPrefix) {
		return nil
	}

	// Bare order number
	if matched, _ := regexp.MatchString(`^\d+$`, key); matched {
		return fmt.Errorf("invalid row key '%s'. Use the full key shown by 'arret list %s', e.g. %s%s-0010-POS1", key, table, expectedPrefix, key)
	}

	// Wrong case
	if strings.HasPrefix(strings.ToLower(key), expectedPrefix) {
		return fmt.Errorf("invalid row key '%s'. Keys are case-sensitive, use: %s", key, expectedPrefix+key[len(expectedPrefix):])
	}

	// Key of the other table
	for _, k := range designation.Kinds {
		if k.String() != strings.ToLower(table) && strings.HasPrefix(key, k.String()+"-") {
			return fmt.Errorf("row key '%s' belongs to the %s table, not %s", key, k, table)
		}
	}

	return fmt.Errorf("invalid row key '%s'. Expected format: %sORDER-OPERATION-POSITION", key, expectedPrefix)
}

// parseMonth parses a YYYY-MM month argument.
func parseMonth(s string) (int, time.Month, error) {
	if !monthPattern.MatchString(s) {
		return 0, 0, fmt.Errorf("invalid month '%s'. Expected format: YYYY-MM", s)
	}
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month '%s': %w", s, err)
	}
	return t.Year(), t.Month(), nil
}
