package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campuscore/internal/core/id"
)

func TestNewRecord(t *testing.T) {
	r := NewRecord()

	assert.False(t, id.IsNil(r.ID))
	assert.Equal(t, StatusActive, r.Status)
	assert.Equal(t, 1, r.Version)
	assert.False(t, r.IsDeleted)
	assert.Nil(t, r.DeletedAt)
	assert.Equal(t, r.CreatedAt, r.UpdatedAt)
}

func TestSetStatus(t *testing.T) {
	r := NewRecord()
	initial := r.StatusChangedAt

	time.Sleep(5 * time.Millisecond)
	require.NoError(t, r.SetStatus(StatusSuspended))
	assert.Equal(t, StatusSuspended, r.Status)
	assert.True(t, r.StatusChangedAt.After(initial))

	// Setting the same status again keeps the transition timestamp.
	stamped := r.StatusChangedAt
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, r.SetStatus(StatusSuspended))
	assert.Equal(t, stamped, r.StatusChangedAt)
}

func TestSetStatus_RejectsUnknown(t *testing.T) {
	r := NewRecord()
	err := r.SetStatus(Status("vaporized"))
	require.Error(t, err)
	assert.Equal(t, StatusActive, r.Status)
}

func TestSoftDeleteAndRestore(t *testing.T) {
	r := NewRecord()

	r.MarkDeleted()
	assert.True(t, r.IsDeleted)
	require.NotNil(t, r.DeletedAt)

	r.Restore()
	assert.False(t, r.IsDeleted)
	assert.Nil(t, r.DeletedAt)
}

func TestTouch(t *testing.T) {
	r := NewRecord()
	created := r.CreatedAt

	time.Sleep(5 * time.Millisecond)
	r.Touch()

	assert.True(t, r.UpdatedAt.After(created))
	assert.Equal(t, created, r.CreatedAt)
	assert.Equal(t, 2, r.Version)
}
