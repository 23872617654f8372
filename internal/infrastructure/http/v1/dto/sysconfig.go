package dto

import (
	"encoding/json"

	"campuscore/internal/domain/sysconfig"
)

// DefineConfigRequest registers a configuration key.
type DefineConfigRequest struct {
	Key            string          `json:"key" binding:"required"`
	Value          json.RawMessage `json:"value" binding:"required"`
	Category       string          `json:"category" binding:"required"`
	Description    string          `json:"description"`
	IsPublic       bool            `json:"isPublic"`
	IsEncrypted    bool            `json:"isEncrypted"`
	ValidationRule string          `json:"validationRule"`
}

// SetConfigValueRequest updates the value of an existing key.
type SetConfigValueRequest struct {
	Value json.RawMessage `json:"value" binding:"required"`
}

// ConfigResponse describes a configuration entry. Encrypted entries keep
// their value sealed unless the handler resolved it explicitly.
type ConfigResponse struct {
	Key            string          `json:"key"`
	Value          json.RawMessage `json:"value"`
	Category       string          `json:"category"`
	Description    string          `json:"description,omitempty"`
	IsPublic       bool            `json:"isPublic"`
	IsEncrypted    bool            `json:"isEncrypted"`
	ValidationRule string          `json:"validationRule,omitempty"`
	Version        int             `json:"version"`
}

// FromConfig creates ConfigResponse from sysconfig.Config.
func FromConfig(c *sysconfig.Config) ConfigResponse {
	return ConfigResponse{
		Key:            c.Key,
		Value:          c.Value,
		Category:       string(c.Category),
		Description:    c.Description,
		IsPublic:       c.IsPublic,
		IsEncrypted:    c.IsEncrypted,
		ValidationRule: c.ValidationRule,
		Version:        c.Version,
	}
}
