package blob

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campuscore/internal/core/apperror"
)

func newStore(t *testing.T) *FilesystemStore {
	t.Helper()
	s, err := NewFilesystemStore(t.TempDir())
	require.NoError(t, err)
	return s
}

func TestPutOpenRemove(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	size, err := s.Put(ctx, "doc-1.pdf", strings.NewReader("report card bytes"))
	require.NoError(t, err)
	assert.Equal(t, int64(17), size)

	rc, err := s.Open(ctx, "doc-1.pdf")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "report card bytes", string(data))

	require.NoError(t, s.Remove(ctx, "doc-1.pdf"))
	_, err = s.Open(ctx, "doc-1.pdf")
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestRemove_MissingKeyIsNoError(t *testing.T) {
	s := newStore(t)
	assert.NoError(t, s.Remove(context.Background(), "never-existed.bin"))
}

func TestPut_RejectsPathKeys(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	for _, key := range []string{"", "../escape", "a/b", ".hidden"} {
		_, err := s.Put(ctx, key, strings.NewReader("x"))
		assert.Error(t, err, "key %q", key)
	}
}

func TestPut_OverwritesExistingKey(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	_, err := s.Put(ctx, "k.txt", strings.NewReader("one"))
	require.NoError(t, err)
	_, err = s.Put(ctx, "k.txt", strings.NewReader("two"))
	require.NoError(t, err)

	rc, err := s.Open(ctx, "k.txt")
	require.NoError(t, err)
	data, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "two", string(data))
}
