package history

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPushOrdersMostRecentFirst(t *testing.T) {
	s := NewStore(t.TempDir())

	require.NoError(t, s.Push("a"))
	require.NoError(t, s.Push("b"))
	require.NoError(t, s.Push("c"))

	got, err := s.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b", "a"}, got)
}

func TestPushDeduplicates(t *testing.T) {
	s := NewStore(t.TempDir())

	require.NoError(t, s.Push("a"))
	require.NoError(t, s.Push("b"))
	require.NoError(t, s.Push("a"))

	got, err := s.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestPushCapsAtMaxEntries(t *testing.T) {
	s := NewStore(t.TempDir())

	for _, id := range []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10"} {
		require.NoError(t, s.Push(id))
	}

	got, err := s.List()
	require.NoError(t, err)
	assert.Len(t, got, MaxEntries)
	assert.Equal(t, "10", got[0])
	assert.Equal(t, "3", got[len(got)-1])
}

func TestPushRejectsEmptyID(t *testing.T) {
	s := NewStore(t.TempDir())
	assert.Error(t, s.Push(""))
}

func TestListMissingFileIsEmpty(t *testing.T) {
	s := NewStore(t.TempDir())
	got, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestListCorruptFileIsEmpty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "history.json"), []byte("{not json"), 0o644))

	s := NewStore(dir)
	got, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestClear(t *testing.T) {
	s := NewStore(t.TempDir())
	require.NoError(t, s.Push("a"))
	require.NoError(t, s.Clear())

	got, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, got)

	// Clearing twice is fine.
	require.NoError(t, s.Clear())
}
