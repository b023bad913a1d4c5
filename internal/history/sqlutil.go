package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
)

// checkRowsErr reports errors hit during a rows.Next loop that Next itself
// does not surface.
func checkRowsErr(rows *sql.Rows) error {
	if err := rows.Err(); err != nil {
		return fmt.Errorf("rows iteration error: %w", err)
	}
	return nil
}

// marshalColumn encodes v for a TEXT column. Empty values are stored as NULL.
func marshalColumn(v any) (sql.NullString, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	s := string(b)
	if s == "null" || s == "[]" || s == "{}" {
		return sql.NullString{}, nil
	}
	return sql.NullString{String: s, Valid: true}, nil
}

// unmarshalColumn decodes a TEXT column written by marshalColumn.
func unmarshalColumn(col sql.NullString, v any) error {
	if !col.Valid || col.String == "" {
		return nil
	}
	return json.Unmarshal([]byte(col.String), v)
}
