package sysconfig

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"campuscore/internal/core/apperror"
	"campuscore/internal/core/entity"
	"campuscore/internal/core/tx"
	"campuscore/internal/domain"
)

// Repository defines the interface for config persistence.
type Repository interface {
	domain.RecordRepository[*Config]

	// GetByKey returns the entry for the unique key, or NotFound.
	GetByKey(ctx context.Context, key string) (*Config, error)

	// ListByCategory returns entries in one category, ordered by key.
	ListByCategory(ctx context.Context, category Category) ([]*Config, error)

	// ListPublic returns entries readable without authentication.
	ListPublic(ctx context.Context) ([]*Config, error)
}

// Service provides business logic for system configuration.
// Values with a validation rule are checked before every write; encrypted
// values are sealed before persist and unsealed on read.
type Service struct {
	*domain.RecordService[*Config]
	repo   Repository
	sealer *Sealer
	rules  *RuleEngine
}

// NewService creates a new config service. The sealer may be nil, in which
// case encrypted entries are rejected.
func NewService(repo Repository, txManager tx.Manager, sealer *Sealer, rules *RuleEngine) *Service {
	base := domain.NewRecordService(domain.RecordServiceConfig[*Config]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "system_config",
	})

	svc := &Service{
		RecordService: base,
		repo:          repo,
		sealer:        sealer,
		rules:         rules,
	}

	base.Hooks().OnBeforeCreate(svc.checkRuleCompiles)
	base.Hooks().OnBeforeUpdate(svc.checkRuleCompiles)

	return svc
}

func (s *Service) checkRuleCompiles(ctx context.Context, c *Config) error {
	if c.ValidationRule == "" {
		return nil
	}
	return s.rules.CheckRule(c.ValidationRule)
}

// Define creates a new config entry holding value. The value is checked
// against the entry's validation rule and sealed when IsEncrypted.
func (s *Service) Define(ctx context.Context, c *Config, value any) error {
	raw, err := s.prepareValue(c, value)
	if err != nil {
		return err
	}
	c.Value = raw
	if c.CreatedAt.IsZero() {
		c.Record = entity.NewRecord()
	}
	return s.Create(ctx, c)
}

// SetValue updates the value of an existing entry.
func (s *Service) SetValue(ctx context.Context, key string, value any) (*Config, error) {
	c, err := s.repo.GetByKey(ctx, key)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("system_config", key)
		}
		return nil, err
	}

	raw, err := s.prepareValue(c, value)
	if err != nil {
		return nil, err
	}
	c.Value = raw
	c.Touch()
	if err := s.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Get returns the entry with its plaintext value; sealed entries are
// unsealed transparently.
func (s *Service) Get(ctx context.Context, key string) (*Config, error) {
	c, err := s.repo.GetByKey(ctx, key)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("system_config", key)
		}
		return nil, err
	}
	if c.IsEncrypted {
		plaintext, err := s.unseal(c)
		if err != nil {
			return nil, err
		}
		c.Value = plaintext
	}
	return c, nil
}

// GetString returns a string-valued entry.
func (s *Service) GetString(ctx context.Context, key string) (string, error) {
	c, err := s.Get(ctx, key)
	if err != nil {
		return "", err
	}
	var v string
	if err := c.Decode(&v); err != nil {
		return "", err
	}
	return v, nil
}

// GetInt returns an integer-valued entry.
func (s *Service) GetInt(ctx context.Context, key string) (int64, error) {
	c, err := s.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	var v int64
	if err := c.Decode(&v); err != nil {
		return 0, err
	}
	return v, nil
}

// GetBool returns a boolean-valued entry.
func (s *Service) GetBool(ctx context.Context, key string) (bool, error) {
	c, err := s.Get(ctx, key)
	if err != nil {
		return false, err
	}
	var v bool
	if err := c.Decode(&v); err != nil {
		return false, err
	}
	return v, nil
}

// GetDecimal returns a numeric entry without float precision loss.
func (s *Service) GetDecimal(ctx context.Context, key string) (decimal.Decimal, error) {
	c, err := s.Get(ctx, key)
	if err != nil {
		return decimal.Zero, err
	}
	var n json.Number
	if err := c.Decode(&n); err != nil {
		return decimal.Zero, err
	}
	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return decimal.Zero, apperror.NewValidation("config value is not numeric").
			WithDetail("key", key)
	}
	return d, nil
}

// GetDocument returns an object-valued entry as a Document.
func (s *Service) GetDocument(ctx context.Context, key string) (entity.Document, error) {
	c, err := s.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	var doc entity.Document
	if err := c.Decode(&doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// ListByCategory returns entries in one category.
func (s *Service) ListByCategory(ctx context.Context, category Category) ([]*Config, error) {
	if !validCategory(category) {
		return nil, apperror.NewValidation("invalid category").
			WithDetail("value", string(category))
	}
	return s.repo.ListByCategory(ctx, category)
}

// ListPublic returns public entries. Sealed values are never exposed here.
func (s *Service) ListPublic(ctx context.Context) ([]*Config, error) {
	entries, err := s.repo.ListPublic(ctx)
	if err != nil {
		return nil, err
	}
	out := entries[:0]
	for _, c := range entries {
		if c.IsEncrypted {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

// prepareValue validates the candidate value and returns the raw JSON to
// persist, sealing it when the entry is encrypted.
func (s *Service) prepareValue(c *Config, value any) (json.RawMessage, error) {
	if c.ValidationRule != "" {
		if err := s.rules.Evaluate(c.ValidationRule, value); err != nil {
			return nil, err
		}
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return nil, apperror.NewValidation("value is not JSON-encodable").
			WithDetail("key", c.Key).
			WithCause(err)
	}

	if !c.IsEncrypted {
		return raw, nil
	}

	if s.sealer == nil {
		return nil, apperror.NewBusinessRule("config_encryption_unavailable",
			"no encryption key configured").WithDetail("key", c.Key)
	}
	sealed, err := s.sealer.Seal(c.Key, raw)
	if err != nil {
		return nil, fmt.Errorf("seal config value: %w", err)
	}
	return json.Marshal(sealed)
}

func (s *Service) unseal(c *Config) (json.RawMessage, error) {
	if s.sealer == nil {
		return nil, apperror.NewBusinessRule("config_encryption_unavailable",
			"no encryption key configured").WithDetail("key", c.Key)
	}
	var sealed string
	if err := json.Unmarshal(c.Value, &sealed); err != nil {
		return nil, apperror.NewValidation("sealed value malformed").
			WithDetail("key", c.Key)
	}
	return s.sealer.Unseal(c.Key, sealed)
}
