// Package sysconfig provides runtime configuration key/value storage with
// optional validation rules and sealed (encrypted) values.
package sysconfig

import (
	"context"
	"encoding/json"
	"regexp"

	"campuscore/internal/core/apperror"
	"campuscore/internal/core/entity"
)

var keyRE = regexp.MustCompile(`^[a-z][a-z0-9_.]*$`)

// Category groups configuration keys for the admin surface.
type Category string

const (
	CategoryGeneral       Category = "general"
	CategoryAcademic      Category = "academic"
	CategoryFinance       Category = "finance"
	CategoryCommunication Category = "communication"
	CategorySecurity      Category = "security"
	CategoryUI            Category = "ui"
)

// Config is one configuration entry.
type Config struct {
	entity.Record

	// Key is the unique lookup key, e.g. "finance.late_fee_percent"
	Key string `db:"key" json:"key"`

	// Value is the JSON-encoded value. For encrypted entries this holds
	// the sealed ciphertext (a JSON string); plaintext never reaches disk.
	Value json.RawMessage `db:"value" json:"value"`

	Category    Category `db:"category" json:"category"`
	Description string   `db:"description" json:"description,omitempty"`

	// IsPublic entries are readable without authentication
	IsPublic bool `db:"is_public" json:"isPublic"`

	// IsEncrypted entries are sealed at rest and unsealed on read
	IsEncrypted bool `db:"is_encrypted" json:"isEncrypted"`

	// ValidationRule is an optional CEL expression over `value`,
	// e.g. "value >= 0 && value <= 100". Must evaluate to a boolean.
	ValidationRule string `db:"validation_rule" json:"validationRule,omitempty"`
}

// New creates a config entry with the value JSON-encoded.
func New(key string, value any, category Category) (*Config, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, apperror.NewValidation("value is not JSON-encodable").WithCause(err)
	}
	return &Config{
		Record:   entity.NewRecord(),
		Key:      key,
		Value:    raw,
		Category: category,
	}, nil
}

// Validate implements entity.Validatable.
func (c *Config) Validate(ctx context.Context) error {
	if !keyRE.MatchString(c.Key) {
		return apperror.NewValidation("invalid config key").
			WithDetail("field", "key").
			WithDetail("value", c.Key)
	}
	if len(c.Value) == 0 {
		return apperror.NewValidation("value is required").
			WithDetail("field", "value")
	}
	if !validCategory(c.Category) {
		return apperror.NewValidation("invalid category").
			WithDetail("field", "category").
			WithDetail("value", string(c.Category))
	}
	if c.IsPublic && c.IsEncrypted {
		return apperror.NewValidation("encrypted entries cannot be public").
			WithDetail("field", "isPublic")
	}
	return nil
}

// Decode unmarshals the (plaintext) value into v.
func (c *Config) Decode(v any) error {
	if err := json.Unmarshal(c.Value, v); err != nil {
		return apperror.NewInternal(err).WithDetail("key", c.Key)
	}
	return nil
}

func validCategory(cat Category) bool {
	switch cat {
	case CategoryGeneral, CategoryAcademic, CategoryFinance,
		CategoryCommunication, CategorySecurity, CategoryUI:
		return true
	}
	return false
}
