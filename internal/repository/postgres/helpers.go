package postgres

import (
	"database/sql"
	"fmt"
	"strings"
)

// prefixColumns qualifies a comma-separated column list with a table alias.
func prefixColumns(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, p := range parts {
		parts[i] = alias + "." + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}

// requireRowsAffected converts a zero-row update into sql.ErrNoRows so callers
// can map it to a not-found error.
func requireRowsAffected(result sql.Result, resource string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%s not found: %w", resource, sql.ErrNoRows)
	}
	return nil
}
