package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePath(t *testing.T) {
	t.Setenv(PathEnv, "")

	p, err := ResolvePath("/explicit/session.yaml")
	require.NoError(t, err)
	assert.Equal(t, "/explicit/session.yaml", p)

	p, err = ResolvePath("")
	require.NoError(t, err)
	assert.Contains(t, p, filepath.Join("areactl", FileName))
}

func TestResolvePath_EnvTakesPrecedence(t *testing.T) {
	t.Setenv(PathEnv, "/from/env.yaml")

	p, err := ResolvePath("/explicit/session.yaml")
	require.NoError(t, err)
	assert.Equal(t, "/from/env.yaml", p)
}

func TestStore_SaveLoadClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)
	store := NewStore(path)

	sess, err := store.Load()
	require.NoError(t, err)
	assert.False(t, sess.Authenticated(), "missing file is an anonymous session")

	require.NoError(t, store.Save(&Session{Token: "tok-123", Email: "ada@example.com"}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file is renamed away")

	sess, err = store.Load()
	require.NoError(t, err)
	assert.True(t, sess.Authenticated())
	assert.Equal(t, "tok-123", sess.Token)
	assert.Equal(t, "ada@example.com", sess.Email)

	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear(), "clearing twice is fine")

	sess, err = store.Load()
	require.NoError(t, err)
	assert.Empty(t, sess.Token)
}

func TestStore_Load_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("token: [unclosed"), 0o600))

	_, err := NewStore(path).Load()
	assert.ErrorContains(t, err, "failed to parse session")
}

func TestSession_Authenticated_Nil(t *testing.T) {
	var s *Session
	assert.False(t, s.Authenticated())
}
