package git

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	r, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	cfg, err := r.Config()
	require.NoError(t, err)
	cfg.User.Name = "Test User"
	cfg.User.Email = "test@test.com"
	require.NoError(t, r.SetConfig(cfg))
	return dir
}

func commitMessages(t *testing.T, r *Repo) []string {
	t.Helper()
	iter, err := r.repo.Log(&git.LogOptions{})
	require.NoError(t, err)
	var msgs []string
	require.NoError(t, iter.ForEach(func(c *object.Commit) error {
		msgs = append(msgs, c.Message)
		return nil
	}))
	return msgs
}

func TestOpen_DetectsParentRepo(t *testing.T) {
	dir := initRepo(t)
	sub := filepath.Join(dir, "state", "brewguide")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	r, err := Open(sub)
	require.NoError(t, err)
	assert.Equal(t, resolve(dir), resolve(r.Root()))

	assert.True(t, IsInsideRepo(sub))
	assert.False(t, IsInsideRepo(t.TempDir()))

	_, err = Open(t.TempDir())
	require.Error(t, err)
}

func TestAddAndCommit(t *testing.T) {
	dir := initRepo(t)
	r, err := Open(dir)
	require.NoError(t, err)

	path := filepath.Join(dir, "store.json")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o600))
	require.NoError(t, r.AddAndCommit([]string{path}, "brewguide: init"))

	require.NoError(t, os.WriteFile(path, []byte("{\"a\":1}\n"), 0o600))
	require.NoError(t, r.AddAndCommit([]string{"store.json"}, "brewguide: set a"))

	assert.Equal(t, []string{"brewguide: set a", "brewguide: init"}, commitMessages(t, r))
}

func TestAddAndCommit_NothingStaged(t *testing.T) {
	dir := initRepo(t)
	r, err := Open(dir)
	require.NoError(t, err)

	path := filepath.Join(dir, "store.json")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o600))
	require.NoError(t, r.AddAndCommit([]string{path}, "first"))
	require.NoError(t, r.AddAndCommit([]string{path}, "unchanged"))
	require.NoError(t, r.AddAndCommit(nil, "empty"))

	assert.Equal(t, []string{"first"}, commitMessages(t, r))
}

func TestAddAndCommit_OutsideRepo(t *testing.T) {
	dir := initRepo(t)
	r, err := Open(dir)
	require.NoError(t, err)

	outside := filepath.Join(t.TempDir(), "x.json")
	require.NoError(t, os.WriteFile(outside, []byte("{}"), 0o600))

	err = r.AddAndCommit([]string{outside}, "nope")
	require.ErrorIs(t, err, ErrOutsideRepo)

	err = r.AddAndCommit([]string{"../escape.json"}, "nope")
	require.ErrorIs(t, err, ErrOutsideRepo)
}

func TestCommitSignature(t *testing.T) {
	dir := initRepo(t)
	r, err := Open(dir)
	require.NoError(t, err)

	sig := r.commitSignature()
	assert.NotEmpty(t, sig.Name)
	assert.NotEmpty(t, sig.Email)
	assert.False(t, sig.When.IsZero())
}

func TestJournal_Commit(t *testing.T) {
	dir := initRepo(t)
	r, err := Open(dir)
	require.NoError(t, err)
	j := NewJournal(r)

	path := filepath.Join(dir, "journal", "store.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o600))

	require.NoError(t, j.Commit(path, "brewguide: append brewing_records"))
	assert.Equal(t, []string{"brewguide: append brewing_records"}, commitMessages(t, r))
}
