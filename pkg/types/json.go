package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// RawJSON stores a JSON document verbatim. Order columns use it so that
// historically string-encoded payloads survive round trips untouched and are
// only interpreted by pkg/flexible at render time.
type RawJSON json.RawMessage

// Value implements driver.Valuer.
func (j RawJSON) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return string(j), nil
}

// Scan implements sql.Scanner.
func (j *RawJSON) Scan(src any) error {
	switch value := src.(type) {
	case nil:
		*j = nil
		return nil
	case []byte:
		*j = append((*j)[0:0], value...)
		return nil
	case string:
		*j = RawJSON(value)
		return nil
	default:
		return fmt.Errorf("unsupported RawJSON source %T", src)
	}
}

// MarshalJSON implements json.Marshaler.
func (j RawJSON) MarshalJSON() ([]byte, error) {
	if len(j) == 0 {
		return []byte("null"), nil
	}
	return j, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (j *RawJSON) UnmarshalJSON(data []byte) error {
	*j = append((*j)[0:0], data...)
	return nil
}

// GormDataType tells GORM which column type to use.
func (RawJSON) GormDataType() string {
	return "jsonb"
}
