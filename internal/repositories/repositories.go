package repositories

import (
	"database/sql"
	"fmt"
	"strings"
)

// sequenceStore is satisfied by both *sql.DB and *sql.Tx.
type sequenceStore interface {
	QueryRow(query string, args ...any) *sql.Row
}

// NextSequence increments the counter in table's "<table>_sequence" row and returns the new value.
//
// Called with the *sql.Tx that inserts the row, the number is only consumed when that insert commits.
func NextSequence(store sequenceStore, table string) (int, error) {
	if table == "" || strings.ContainsFunc(table, func(r rune) bool {
		return r != '_' && (r < 'a' || r > 'z')
	}) {
		return 0, fmt.Errorf("invalid sequence table %q", table)
	}

	query := fmt.Sprintf("UPDATE %s_sequence SET value = value + 1 WHERE id = 1 RETURNING value", table)

	var sequence int
	if err := store.QueryRow(query).Scan(&sequence); err != nil {
		return 0, fmt.Errorf("failed to increment %s sequence: %w", table, err)
	}
	return sequence, nil
}
