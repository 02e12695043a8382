//go:build windows
// +build windows

package junction

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Lifecycle(t *testing.T) {
	tmp := t.TempDir()
	target := filepath.Join(tmp, "target")
	link := filepath.Join(tmp, "link")

	require.NoError(t, os.Mkdir(target, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(target, "file"), []byte("foo"), 0o644))

	// Nonexistence is an error, not "false".
	_, err := IsJunction(link)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, Create(link, target))

	ok, err := IsJunction(link)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := GetTarget(link)
	require.NoError(t, err)
	assert.Equal(t, target, got)

	// The redirection actually works.
	data, err := os.ReadFile(filepath.Join(link, "file"))
	require.NoError(t, err)
	assert.Equal(t, "foo", string(data))

	require.NoError(t, Delete(link))

	ok, err = IsJunction(link)
	require.NoError(t, err, "the directory survives deletion")
	assert.False(t, ok)

	fi, err := os.Stat(link)
	require.NoError(t, err)
	assert.True(t, fi.IsDir())
	entries, err := os.ReadDir(link)
	require.NoError(t, err)
	assert.Empty(t, entries)

	// The file is only reachable through the target now.
	_, err = os.Stat(filepath.Join(link, "file"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(target, "file"))
	assert.NoError(t, err)
}

func Test_CreateIntoPreCreatedEmptyDir(t *testing.T) {
	tmp := t.TempDir()
	target := filepath.Join(tmp, "target")
	link := filepath.Join(tmp, "link")

	require.NoError(t, os.Mkdir(target, 0o755))
	require.NoError(t, os.Mkdir(link, 0o755))

	require.NoError(t, Create(link, target))

	got, err := GetTarget(link)
	require.NoError(t, err)
	assert.Equal(t, target, got)
}

func Test_CreateRejectsOccupiedLocations(t *testing.T) {
	tmp := t.TempDir()
	target := filepath.Join(tmp, "target")
	require.NoError(t, os.Mkdir(target, 0o755))

	t.Run("non-empty directory", func(t *testing.T) {
		link := filepath.Join(tmp, "busy")
		require.NoError(t, os.MkdirAll(filepath.Join(link, "sub"), 0o755))
		assert.ErrorIs(t, Create(link, target), ErrAlreadyExists)
	})

	t.Run("file", func(t *testing.T) {
		link := filepath.Join(tmp, "a-file")
		require.NoError(t, os.WriteFile(link, []byte("foo"), 0o644))
		assert.ErrorIs(t, Create(link, target), ErrAlreadyExists)
	})

	t.Run("existing junction", func(t *testing.T) {
		link := filepath.Join(tmp, "linked")
		require.NoError(t, Create(link, target))
		// Even with the same target: no implicit success.
		assert.ErrorIs(t, Create(link, target), ErrAlreadyExists)
	})
}

func Test_CreateRejectsBadTargets(t *testing.T) {
	tmp := t.TempDir()
	link := filepath.Join(tmp, "link")

	err := Create(link, filepath.Join(tmp, "nope"))
	assert.ErrorIs(t, err, ErrNotFound)
	_, statErr := os.Lstat(link)
	assert.True(t, os.IsNotExist(statErr), "failed create must not leave a directory behind")

	file := filepath.Join(tmp, "file-target")
	require.NoError(t, os.WriteFile(file, []byte("foo"), 0o644))
	assert.Error(t, Create(link, file))
}

func Test_DeleteRequiresAJunction(t *testing.T) {
	tmp := t.TempDir()

	err := Delete(filepath.Join(tmp, "nope"))
	assert.ErrorIs(t, err, ErrNotFound)

	dir := filepath.Join(tmp, "plain")
	require.NoError(t, os.Mkdir(dir, 0o755))
	assert.ErrorIs(t, Delete(dir), ErrNotAJunction)

	file := filepath.Join(tmp, "file")
	require.NoError(t, os.WriteFile(file, []byte("foo"), 0o644))
	assert.ErrorIs(t, Delete(file), ErrNotAJunction)
}

func Test_GetTargetErrors(t *testing.T) {
	tmp := t.TempDir()

	_, err := GetTarget(filepath.Join(tmp, "nope"))
	assert.ErrorIs(t, err, ErrNotFound)

	dir := filepath.Join(tmp, "plain")
	require.NoError(t, os.Mkdir(dir, 0o755))
	_, err = GetTarget(dir)
	assert.ErrorIs(t, err, ErrNotAJunction)
}

func Test_WritesThroughJunction(t *testing.T) {
	tmp := t.TempDir()
	target := filepath.Join(tmp, "target")
	link := filepath.Join(tmp, "link")

	require.NoError(t, os.Mkdir(target, 0o755))
	require.NoError(t, Create(link, target))

	require.NoError(t, os.MkdirAll(filepath.Join(link, "a", "b"), 0o755))
	fi, err := os.Stat(filepath.Join(target, "a", "b"))
	require.NoError(t, err)
	assert.True(t, fi.IsDir())
}

func Test_RelativePaths(t *testing.T) {
	tmp := t.TempDir()

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(tmp))
	defer os.Chdir(wd)

	require.NoError(t, os.Mkdir("target", 0o755))
	require.NoError(t, Create("link", "target"))

	got, err := GetTarget("link")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmp, "target"), got)
}
