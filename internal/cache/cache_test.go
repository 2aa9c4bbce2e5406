package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_ReadAfterWrite(t *testing.T) {
	s := Open(filepath.Join(t.TempDir(), "cache.json"), zerolog.Nop())

	require.NoError(t, s.Put("https://example.com/a", "<html>page</html>"))

	got, ok := s.GetString("https://example.com/a")
	require.True(t, ok)
	assert.Equal(t, "<html>page</html>", got)
}

func TestStore_LastWriteWins(t *testing.T) {
	s := Open(filepath.Join(t.TempDir(), "cache.json"), zerolog.Nop())

	require.NoError(t, s.Put("k", "first"))
	require.NoError(t, s.Put("k", "second"))

	got, ok := s.GetString("k")
	require.True(t, ok)
	assert.Equal(t, "second", got)
	assert.Equal(t, 1, s.Len())
}

func TestStore_FlushAndReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")

	s := Open(path, zerolog.Nop())
	require.NoError(t, s.Put("url", "body"))
	require.NoError(t, s.Put("tuples", [][2]string{{"Seven", "https://example.com/seven"}}))
	require.NoError(t, s.Flush())

	reopened := Open(path, zerolog.Nop())
	got, ok := reopened.GetString("url")
	require.True(t, ok)
	assert.Equal(t, "body", got)

	var tuples [][2]string
	require.True(t, reopened.GetInto("tuples", &tuples))
	require.Len(t, tuples, 1)
	assert.Equal(t, "Seven", tuples[0][0])
}

func TestStore_MissingFileStartsEmpty(t *testing.T) {
	s := Open(filepath.Join(t.TempDir(), "nope.json"), zerolog.Nop())
	assert.Equal(t, 0, s.Len())
}

func TestStore_CorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	s := Open(path, zerolog.Nop())
	assert.Equal(t, 0, s.Len())

	// Store must be usable after recovery.
	require.NoError(t, s.Put("k", "v"))
	require.NoError(t, s.Flush())
}

func TestStore_FlushWithoutChangesIsNoop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")

	s := Open(path, zerolog.Nop())
	require.NoError(t, s.Flush())

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestStore_WrongShapeTreatedAsAbsent(t *testing.T) {
	s := Open(filepath.Join(t.TempDir(), "cache.json"), zerolog.Nop())
	require.NoError(t, s.Put("k", []string{"a", "b"}))

	_, ok := s.GetString("k")
	assert.False(t, ok)
}
