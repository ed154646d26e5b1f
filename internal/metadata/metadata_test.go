package metadata

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_SaveLoad(t *testing.T) {
	s := NewStore(afero.NewMemMapFs())
	path := "/work/owner/repo/.3"

	m := New("diff --git a/x b/x\n", "abc123")
	require.NoError(t, s.Save(path, m))

	got, err := s.Load(path)
	require.NoError(t, err)
	assert.Equal(t, m, got)
	assert.False(t, got.IsSubmitted())
	assert.Equal(t, "abc123", got.Commit())
}

func TestStore_WireFormat(t *testing.T) {
	fsys := afero.NewMemMapFs()
	s := NewStore(fsys)
	path := "/w/.1"

	require.NoError(t, s.Save(path, New("d", "c")))
	data, err := afero.ReadFile(fsys, path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"original":"d","submitted":null,"commit_id":"c"}`, string(data))
}

func TestStore_LoadLegacySidecar(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/w/.7", []byte(`{"original":"x\n","submitted":1700000000}`), 0o644))

	got, err := NewStore(fsys).Load("/w/.7")
	require.NoError(t, err)
	assert.Equal(t, "x\n", got.Original)
	assert.Empty(t, got.Commit())
	require.True(t, got.IsSubmitted())
	assert.Equal(t, time.Unix(1700000000, 0), got.SubmittedAt())
}

func TestStore_LoadMissing(t *testing.T) {
	_, err := NewStore(afero.NewMemMapFs()).Load("/nope/.1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_LoadGarbage(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/w/.1", []byte("not json"), 0o644))

	_, err := NewStore(fsys).Load("/w/.1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestStore_RemoveAndExists(t *testing.T) {
	s := NewStore(afero.NewMemMapFs())
	path := "/w/.2"

	ok, err := s.Exists(path)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Save(path, New("d", "c")))
	ok, err = s.Exists(path)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, s.Remove(path))
	require.NoError(t, s.Remove(path), "removing twice is fine")
	ok, err = s.Exists(path)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestWithSubmitted(t *testing.T) {
	m := New("d", "c")
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	sub := m.WithSubmitted(at)
	assert.False(t, m.IsSubmitted(), "original is not modified")
	require.True(t, sub.IsSubmitted())
	assert.Equal(t, uint64(at.Unix()), *sub.Submitted)
	assert.True(t, sub.SubmittedAt().Equal(at))
}
