package filex

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnsureSubDir_CreatesDirectoryInCWD(t *testing.T) {
	tmp := t.TempDir()
	t.Chdir(tmp)

	got, err := EnsureSubDir("reports")
	require.NoError(t, err)

	want := filepath.Join(tmp, "reports")
	require.Equal(t, want, got)

	fi, err := os.Stat(want)
	require.NoError(t, err)
	require.True(t, fi.IsDir(), "should create a directory")

	if runtime.GOOS != "windows" {
		perm := fi.Mode().Perm()
		require.Equal(t, os.FileMode(0o700), perm&0o700)
	}
}

func TestEnsureSubDir_Idempotent(t *testing.T) {
	t.Chdir(t.TempDir())

	first, err := EnsureSubDir("reports")
	require.NoError(t, err)

	second, err := EnsureSubDir("reports")
	require.NoError(t, err)

	require.Equal(t, first, second)
}

func TestEnsureSubDir_FailsIfFileWithSameNameExists(t *testing.T) {
	t.Chdir(t.TempDir())

	require.NoError(t, os.WriteFile("reports", []byte("x"), 0o660))

	_, err := EnsureSubDir("reports")
	require.Error(t, err, "should fail when a file exists with the same name")
}

func TestWriteInSubDir(t *testing.T) {
	tmp := t.TempDir()
	t.Chdir(tmp)

	path, err := WriteInSubDir("reports", "2024-03-28.json", []byte("{}"))
	require.NoError(t, err)
	require.Equal(t, filepath.Join(tmp, "reports", "2024-03-28.json"), path)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "{}", string(got))
}
