package entity

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Document represents an arbitrary JSON value with type-safe accessors.
// Implements sql.Scanner and driver.Valuer for PostgreSQL JSONB mapping.
// Used for configuration values, audit details and notification payloads.
//
// CRITICAL: Uses json.Number to preserve numeric precision.
// Default Go JSON decoder converts numbers to float64, losing precision for decimals.
type Document map[string]any

// Scan implements sql.Scanner for reading from PostgreSQL JSONB.
// Uses custom decoder with UseNumber() to preserve numeric precision.
func (d *Document) Scan(src any) error {
	if src == nil {
		*d = nil
		return nil
	}

	var source []byte
	switch v := src.(type) {
	case []byte:
		source = v
	case string:
		source = []byte(v)
	default:
		return fmt.Errorf("unsupported type for Document: %T", src)
	}

	if len(source) == 0 {
		*d = nil
		return nil
	}

	decoder := json.NewDecoder(bytes.NewReader(source))
	decoder.UseNumber()

	var result map[string]any
	if err := decoder.Decode(&result); err != nil {
		return fmt.Errorf("failed to decode Document: %w", err)
	}

	*d = result
	return nil
}

// Value implements driver.Valuer for writing to PostgreSQL JSONB.
func (d Document) Value() (driver.Value, error) {
	if d == nil {
		return nil, nil
	}
	return json.Marshal(d)
}

// --- Type-safe getters ---

// GetString returns string value or empty string if not found/wrong type.
func (d Document) GetString(key string) string {
	if d == nil {
		return ""
	}
	if v, ok := d[key].(string); ok {
		return v
	}
	return ""
}

// GetStringOr returns string value or default if not found/wrong type.
func (d Document) GetStringOr(key, defaultVal string) string {
	if v := d.GetString(key); v != "" {
		return v
	}
	return defaultVal
}

// GetInt returns int64 value, handling json.Number correctly.
func (d Document) GetInt(key string) int64 {
	if d == nil {
		return 0
	}
	switch v := d[key].(type) {
	case json.Number:
		i, _ := v.Int64()
		return i
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	}
	return 0
}

// GetFloat returns float64 value, handling json.Number correctly.
func (d Document) GetFloat(key string) float64 {
	if d == nil {
		return 0
	}
	switch v := d[key].(type) {
	case json.Number:
		f, _ := v.Float64()
		return f
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	}
	return 0
}

// GetDecimal returns decimal.Decimal value with full precision.
// This is the preferred method for monetary values (fees, fines).
func (d Document) GetDecimal(key string) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	switch v := d[key].(type) {
	case json.Number:
		dec, err := decimal.NewFromString(v.String())
		if err != nil {
			return decimal.Zero
		}
		return dec
	case string:
		dec, err := decimal.NewFromString(v)
		if err != nil {
			return decimal.Zero
		}
		return dec
	case float64:
		return decimal.NewFromFloat(v)
	}
	return decimal.Zero
}

// GetBool returns boolean value.
func (d Document) GetBool(key string) bool {
	if d == nil {
		return false
	}
	if v, ok := d[key].(bool); ok {
		return v
	}
	return false
}

// GetMap returns nested map.
func (d Document) GetMap(key string) Document {
	if d == nil {
		return nil
	}
	if v, ok := d[key].(map[string]any); ok {
		return Document(v)
	}
	return nil
}

// Has checks if key exists (including nil values).
func (d Document) Has(key string) bool {
	if d == nil {
		return false
	}
	_, ok := d[key]
	return ok
}

// Set adds or updates a value. Returns self for chaining.
func (d *Document) Set(key string, value any) Document {
	if *d == nil {
		*d = make(Document)
	}
	(*d)[key] = value
	return *d
}

// Delete removes a key. Returns self for chaining.
func (d Document) Delete(key string) Document {
	delete(d, key)
	return d
}

// Clone creates a shallow copy.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	result := make(Document, len(d))
	for k, v := range d {
		result[k] = v
	}
	return result
}
