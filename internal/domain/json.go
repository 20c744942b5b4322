package domain

import (
	"database/sql/driver" // Valuer interface
	"encoding/json"       // JSON encoding/decoding
	"errors"              // Error construction
	"fmt"                 // Error formatting
)

// JSON is a custom type for handling JSON columns in GORM
type JSON map[string]interface{}

// Value implements the driver.Valuer interface
func (j JSON) Value() (driver.Value, error) {
	if j == nil {
		return "{}", nil // Store empty object for nil maps
	}
	return json.Marshal(j)
}

// Scan implements the sql.Scanner interface
func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = make(JSON)
		return nil
	}
	var bytes []byte
	// MySQL returns []byte, sqlite returns string
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New(fmt.Sprint("failed to unmarshal JSON value:", value))
	}
	if len(bytes) == 0 {
		*j = make(JSON)
		return nil
	}
	var result map[string]interface{}
	if err := json.Unmarshal(bytes, &result); err != nil {
		return err
	}
	*j = JSON(result)
	return nil
}
