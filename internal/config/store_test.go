package config

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pinbox/pinbox/internal/appdir"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	base := t.TempDir()
	s := NewStore(appdir.New(appdir.Fixed(base)), nil)

	path, err := s.Path()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(base, "pinbox", "config.toml"), path)
	return s, path
}

func TestSetKeyRepositoryOnEmptyDir(t *testing.T) {
	s, path := newTestStore(t)

	require.NoError(t, s.SetKey(KeyRepository, "https://example.com/u/notes.git"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `repository = "https://example.com/u/notes.git"`)
	assert.NotContains(t, string(data), "token")

	cfg, err := s.Load()
	require.NoError(t, err)
	require.True(t, cfg.HasRepository())
	assert.Equal(t, "https://example.com/u/notes.git", cfg.Repository.String())
	_, ok := cfg.TokenValue()
	assert.False(t, ok)
}

func TestSetKeyKeepsOtherSettings(t *testing.T) {
	s, _ := newTestStore(t)

	require.NoError(t, s.SetKey(KeyRepository, "https://example.com/u/notes.git"))
	require.NoError(t, s.SetKey(KeyToken, "s3cr3t"))

	cfg, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/u/notes.git", cfg.Repository.String())
	token, ok := cfg.TokenValue()
	assert.True(t, ok)
	assert.Equal(t, "s3cr3t", token)
}

func TestSetKeyToleratesCorruptConfig(t *testing.T) {
	s, path := newTestStore(t)
	require.NoError(t, os.WriteFile(path, []byte("repository = [not toml"), 0o600))

	require.NoError(t, s.SetKey(KeyToken, "abc"))

	cfg, err := s.Load()
	require.NoError(t, err)
	assert.False(t, cfg.HasRepository())
	token, _ := cfg.TokenValue()
	assert.Equal(t, "abc", token)
}

func TestSetKeyRejectsInvalidURL(t *testing.T) {
	s, path := newTestStore(t)

	err := s.SetKey(KeyRepository, "not a url")
	assert.ErrorIs(t, err, ErrInvalidURL)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "nothing is written on a rejected value")
}

func TestSetKeyUnknownKey(t *testing.T) {
	s, _ := newTestStore(t)
	assert.ErrorIs(t, s.SetKey("git.branch", "main"), ErrUnknownKey)
}

func TestLoadMissingFile(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.Load()
	assert.ErrorIs(t, err, ErrReadFile)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	cfg, err := s.LoadOptional()
	require.NoError(t, err)
	assert.False(t, cfg.HasRepository())
}

func TestLoadRejectsInvalidRepository(t *testing.T) {
	s, path := newTestStore(t)
	require.NoError(t, os.WriteFile(path, []byte(`repository = "notes"`+"\n"), 0o600))

	_, err := s.Load()
	assert.ErrorIs(t, err, ErrDecode)

	_, err = s.LoadOptional()
	assert.ErrorIs(t, err, ErrDecode)
}

func TestSaveWritesPrivateFile(t *testing.T) {
	s, path := newTestStore(t)
	token := "t"
	require.NoError(t, s.Save(&Config{Token: &token}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestConfigGet(t *testing.T) {
	cfg := &Config{}

	_, ok, err := cfg.Get(KeyRepository)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cfg.Set(KeyRepository, "file:///srv/notes.git"))
	v, ok, err := cfg.Get(KeyRepository)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "file:///srv/notes.git", v)

	_, _, err = cfg.Get("nope")
	assert.ErrorIs(t, err, ErrUnknownKey)
}

func TestParseURL(t *testing.T) {
	for _, raw := range []string{
		"https://example.com/u/notes.git",
		"http://user@example.com:8080/notes",
		"file:///tmp/notes.git",
		"ssh://git@example.com/u/notes.git",
	} {
		u, err := ParseURL(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, raw, u.String())
	}

	for _, raw := range []string{"", "notes", "/tmp/notes", "http://exa mple.com"} {
		_, err := ParseURL(raw)
		assert.ErrorIs(t, err, ErrInvalidURL, raw)
	}
}
