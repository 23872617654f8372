package sysconfig

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campuscore/internal/core/apperror"
	"campuscore/internal/core/id"
	"campuscore/internal/domain"
)

type memRepo struct {
	byKey map[string]*Config
}

func newMemRepo() *memRepo {
	return &memRepo{byKey: make(map[string]*Config)}
}

func (r *memRepo) Create(ctx context.Context, c *Config) error {
	if _, ok := r.byKey[c.Key]; ok {
		return apperror.NewDuplicate("system_config", "key", c.Key)
	}
	clone := *c
	r.byKey[c.Key] = &clone
	return nil
}

func (r *memRepo) GetByID(ctx context.Context, cid id.ID) (*Config, error) {
	for _, c := range r.byKey {
		if c.ID == cid {
			clone := *c
			return &clone, nil
		}
	}
	return nil, apperror.NewNotFound("system_config", cid)
}

func (r *memRepo) Update(ctx context.Context, c *Config) error {
	if _, ok := r.byKey[c.Key]; !ok {
		return apperror.NewNotFound("system_config", c.Key)
	}
	clone := *c
	r.byKey[c.Key] = &clone
	return nil
}

func (r *memRepo) Delete(ctx context.Context, cid id.ID) error {
	return r.SetDeleted(ctx, cid, true)
}

func (r *memRepo) SetDeleted(ctx context.Context, cid id.ID, deleted bool) error {
	for _, c := range r.byKey {
		if c.ID == cid {
			if deleted {
				c.MarkDeleted()
			} else {
				c.Restore()
			}
			return nil
		}
	}
	return apperror.NewNotFound("system_config", cid)
}

func (r *memRepo) List(ctx context.Context, f domain.ListFilter) (domain.ListResult[*Config], error) {
	var items []*Config
	for _, c := range r.byKey {
		items = append(items, c)
	}
	return domain.ListResult[*Config]{Items: items, TotalCount: int64(len(items))}, nil
}

func (r *memRepo) Exists(ctx context.Context, cid id.ID) (bool, error) {
	_, err := r.GetByID(ctx, cid)
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (r *memRepo) GetByKey(ctx context.Context, key string) (*Config, error) {
	c, ok := r.byKey[key]
	if !ok {
		return nil, apperror.NewNotFound("system_config", key)
	}
	clone := *c
	return &clone, nil
}

func (r *memRepo) ListByCategory(ctx context.Context, category Category) ([]*Config, error) {
	var out []*Config
	for _, c := range r.byKey {
		if c.Category == category {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *memRepo) ListPublic(ctx context.Context) ([]*Config, error) {
	var out []*Config
	for _, c := range r.byKey {
		if c.IsPublic {
			clone := *c
			out = append(out, &clone)
		}
	}
	return out, nil
}

type noopTxManager struct{}

func (noopTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newTestService(t *testing.T) (*Service, *memRepo) {
	t.Helper()
	rules, err := NewRuleEngine()
	require.NoError(t, err)
	sealer, err := NewSealer(make([]byte, 32))
	require.NoError(t, err)
	repo := newMemRepo()
	return NewService(repo, noopTxManager{}, sealer, rules), repo
}

func TestDefineAndTypedGetters(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		key   string
		value any
		cat   Category
	}{
		{"general.school_name", "Hillcrest Academy", CategoryGeneral},
		{"academic.max_class_size", 40, CategoryAcademic},
		{"ui.dark_mode_default", true, CategoryUI},
		{"finance.late_fee_percent", 2.5, CategoryFinance},
	}
	for _, c := range cases {
		cfg, err := New(c.key, nil, c.cat)
		require.NoError(t, err)
		require.NoError(t, svc.Define(ctx, cfg, c.value))
	}

	name, err := svc.GetString(ctx, "general.school_name")
	require.NoError(t, err)
	assert.Equal(t, "Hillcrest Academy", name)

	size, err := svc.GetInt(ctx, "academic.max_class_size")
	require.NoError(t, err)
	assert.Equal(t, int64(40), size)

	dark, err := svc.GetBool(ctx, "ui.dark_mode_default")
	require.NoError(t, err)
	assert.True(t, dark)

	fee, err := svc.GetDecimal(ctx, "finance.late_fee_percent")
	require.NoError(t, err)
	assert.Equal(t, "2.5", fee.String())
}

func TestValidationRule_RejectsValue(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	cfg, err := New("finance.late_fee_percent", nil, CategoryFinance)
	require.NoError(t, err)
	cfg.ValidationRule = "value >= 0.0 && value <= 100.0"

	require.NoError(t, svc.Define(ctx, cfg, 2.5))

	_, err = svc.SetValue(ctx, "finance.late_fee_percent", 150.0)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)

	// Stored value unchanged.
	fee, err := svc.GetDecimal(ctx, "finance.late_fee_percent")
	require.NoError(t, err)
	assert.Equal(t, "2.5", fee.String())
}

func TestValidationRule_BadExpressionRejectedAtDefine(t *testing.T) {
	svc, _ := newTestService(t)

	cfg, err := New("security.session_timeout", nil, CategorySecurity)
	require.NoError(t, err)
	cfg.ValidationRule = "value >>> nonsense"

	err = svc.Define(context.Background(), cfg, 30)
	require.Error(t, err)
}

func TestEncrypted_SealUnsealRoundTrip(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	cfg, err := New("communication.sms_api_key", nil, CategoryCommunication)
	require.NoError(t, err)
	cfg.IsEncrypted = true

	require.NoError(t, svc.Define(ctx, cfg, "sk-live-123456"))

	// Plaintext never stored.
	stored := repo.byKey["communication.sms_api_key"]
	assert.NotContains(t, string(stored.Value), "sk-live-123456")

	got, err := svc.GetString(ctx, "communication.sms_api_key")
	require.NoError(t, err)
	assert.Equal(t, "sk-live-123456", got)
}

func TestSealer_KeyBinding(t *testing.T) {
	sealer, err := NewSealer(make([]byte, 32))
	require.NoError(t, err)

	sealed, err := sealer.Seal("config.a", []byte(`"secret"`))
	require.NoError(t, err)

	// Same config key round-trips.
	plain, err := sealer.Unseal("config.a", sealed)
	require.NoError(t, err)
	assert.Equal(t, `"secret"`, string(plain))

	// A different config key fails authentication.
	_, err = sealer.Unseal("config.b", sealed)
	require.Error(t, err)
}

func TestEncryptedCannotBePublic(t *testing.T) {
	cfg, err := New("security.token", "x", CategorySecurity)
	require.NoError(t, err)
	cfg.IsEncrypted = true
	cfg.IsPublic = true

	require.Error(t, cfg.Validate(context.Background()))
}

func TestListPublic_OmitsSealedEntries(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	pub, err := New("general.school_name", "Hillcrest", CategoryGeneral)
	require.NoError(t, err)
	pub.IsPublic = true
	require.NoError(t, svc.Create(ctx, pub))

	// A sealed row that was made public out of band must still be withheld.
	rogue, err := New("security.api_key", "sealed-bytes", CategorySecurity)
	require.NoError(t, err)
	rogue.IsEncrypted = true
	rogue.IsPublic = true
	clone := *rogue
	repo.byKey[rogue.Key] = &clone

	entries, err := svc.ListPublic(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "general.school_name", entries[0].Key)
}

func TestSetValue_UnknownKey(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.SetValue(context.Background(), "missing.key", 1)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestDecode_MalformedValue(t *testing.T) {
	c := &Config{Key: "general.x", Value: json.RawMessage(`{`)}
	var v map[string]any
	require.Error(t, c.Decode(&v))
}
