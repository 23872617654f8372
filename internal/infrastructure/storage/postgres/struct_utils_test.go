package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"campuscore/internal/core/entity"
	"campuscore/internal/domain/notification"
)

func TestExtractDBColumns_EmbeddedStructs(t *testing.T) {
	cols := ExtractDBColumns[notification.Notification]()

	// From entity.Record
	assert.Contains(t, cols, "id")
	assert.Contains(t, cols, "created_at")
	assert.Contains(t, cols, "status")
	assert.Contains(t, cols, "is_deleted")
	assert.Contains(t, cols, "version")

	// From entity.RelatedRef
	assert.Contains(t, cols, "related_model")
	assert.Contains(t, cols, "related_object_id")

	// Own fields
	assert.Contains(t, cols, "recipient_id")
	assert.Contains(t, cols, "is_read")
	assert.Contains(t, cols, "expires_at")
}

func TestStructToMap(t *testing.T) {
	n := notification.New("u-1", "Fees", "Term fees due")
	m := StructToMap(n)

	assert.Equal(t, "u-1", m["recipient_id"])
	assert.Equal(t, "Fees", m["title"])
	assert.Equal(t, n.ID, m["id"])
	assert.Equal(t, false, m["is_read"])

	// Untagged / ignored fields never leak into the map
	_, hasStorage := m["Message"]
	assert.False(t, hasStorage)
	assert.Contains(t, m, "message")
}

func TestStructToMap_NonStruct(t *testing.T) {
	assert.Nil(t, StructToMap(42))
	assert.Nil(t, StructToMap("x"))
}

func TestStructToMap_EmbeddedRecordValues(t *testing.T) {
	rec := entity.NewRecord()
	type row struct {
		entity.Record
		Name string `db:"name"`
	}
	m := StructToMap(row{Record: rec, Name: "Sports Day"})

	assert.Equal(t, rec.ID, m["id"])
	assert.Equal(t, rec.Version, m["version"])
	assert.Equal(t, "Sports Day", m["name"])
}
