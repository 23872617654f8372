package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentScan_PreservesDecimalPrecision(t *testing.T) {
	var d Document
	// 0.1 + 0.2 style values that float64 round-trips would mangle.
	require.NoError(t, d.Scan([]byte(`{"fee": 1234.5678901234567890123, "fine": 0.1}`)))

	assert.Equal(t, "1234.5678901234567890123", d.GetDecimal("fee").String())
	assert.Equal(t, "0.1", d.GetDecimal("fine").String())
}

func TestDocumentScan(t *testing.T) {
	t.Run("nil source", func(t *testing.T) {
		var d Document
		require.NoError(t, d.Scan(nil))
		assert.Nil(t, d)
	})

	t.Run("string source", func(t *testing.T) {
		var d Document
		require.NoError(t, d.Scan(`{"name": "Term 1"}`))
		assert.Equal(t, "Term 1", d.GetString("name"))
	})

	t.Run("malformed", func(t *testing.T) {
		var d Document
		assert.Error(t, d.Scan([]byte(`{`)))
	})

	t.Run("unsupported type", func(t *testing.T) {
		var d Document
		assert.Error(t, d.Scan(42))
	})
}

func TestDocumentGetters(t *testing.T) {
	var d Document
	require.NoError(t, d.Scan([]byte(`{
		"name": "Midterm",
		"weeks": 6,
		"published": true,
		"meta": {"room": "B12"},
		"empty": null
	}`)))

	assert.Equal(t, "Midterm", d.GetString("name"))
	assert.Equal(t, "fallback", d.GetStringOr("missing", "fallback"))
	assert.Equal(t, int64(6), d.GetInt("weeks"))
	assert.Equal(t, 6.0, d.GetFloat("weeks"))
	assert.True(t, d.GetBool("published"))
	assert.Equal(t, "B12", d.GetMap("meta").GetString("room"))
	assert.True(t, d.Has("empty"))
	assert.False(t, d.Has("missing"))
}

func TestDocumentNilSafety(t *testing.T) {
	var d Document

	assert.Equal(t, "", d.GetString("x"))
	assert.Equal(t, int64(0), d.GetInt("x"))
	assert.False(t, d.GetBool("x"))
	assert.Nil(t, d.GetMap("x"))
	assert.False(t, d.Has("x"))
	assert.True(t, d.GetDecimal("x").IsZero())
	assert.Nil(t, d.Clone())

	v, err := d.Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestDocumentSetAndClone(t *testing.T) {
	var d Document
	d.Set("a", 1)
	d.Set("b", "two")

	clone := d.Clone()
	clone.Delete("a")

	assert.True(t, d.Has("a"))
	assert.False(t, clone.Has("a"))
	assert.Equal(t, "two", clone.GetString("b"))
}
