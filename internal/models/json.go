package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// JSON is a wrapper around gorm.io/datatypes.JSON to allow for custom data
// type mapping. Connection lists use it raw because historical documents mix
// several encodings that have to be decoded tolerantly.
type JSON struct {
	datatypes.JSON
}

// RawJSON builds a JSON column value from already-encoded bytes.
func RawJSON(data []byte) JSON {
	return JSON{datatypes.JSON(data)}
}

// Value promotes the embedded JSON's Value method
func (j JSON) Value() (driver.Value, error) {
	return j.JSON.Value()
}

// Scan promotes the embedded JSON's Scan method
func (j *JSON) Scan(value interface{}) error {
	return j.JSON.Scan(value)
}

// GormDBDataType ensures the correct data type is used for each database driver.
// This resolves the issue where MSSQL does not support the 'json' data type.
func (JSON) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	return jsonDBDataType(db.Dialector.Name())
}

// JSONField stores a typed Go value as a JSON column. Scan and Value round
// through encoding/json, and the field marshals as its payload so API
// responses never see the wrapper.
type JSONField[T any] struct {
	Data T
}

// NewJSONField wraps a value for storage.
func NewJSONField[T any](v T) JSONField[T] {
	return JSONField[T]{Data: v}
}

// Value implements the driver.Valuer interface.
func (j JSONField[T]) Value() (driver.Value, error) {
	b, err := json.Marshal(j.Data)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface.
func (j *JSONField[T]) Scan(value interface{}) error {
	var data []byte
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported source for JSON column: %T", value)
	}
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, &j.Data)
}

// GormDBDataType ensures the correct data type is used for each database driver.
func (JSONField[T]) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	return jsonDBDataType(db.Dialector.Name())
}

// MarshalJSON implements the json.Marshaler interface.
func (j JSONField[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(j.Data)
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (j *JSONField[T]) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &j.Data)
}

func jsonDBDataType(dialect string) string {
	switch dialect {
	case "mysql":
		return "JSON"
	case "postgres":
		return "JSONB"
	case "sqlserver", "mssql":
		return "NVARCHAR(MAX)"
	case "sqlite":
		return "JSON"
	}
	return "TEXT"
}
