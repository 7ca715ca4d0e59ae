package helper

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeRelPath(t *testing.T) {
	assert.Equal(t, "a/b.go", NormalizeRelPath("./a\\b.go"))
	assert.Equal(t, "a.go", NormalizeRelPath("././a.go"))
}

func TestSafeJoin(t *testing.T) {
	root := t.TempDir()

	p, err := SafeJoin(root, "./src/main.go")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "src", "main.go"), p)

	p, err = SafeJoin(root, "src/../main.go")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "main.go"), p)

	for _, bad := range []string{"../x", "a/../../x", "/etc/passwd", ".."} {
		_, err := SafeJoin(root, bad)
		assert.ErrorIs(t, err, ErrPathEscapes, bad)
	}
	_, err = SafeJoin(root, "")
	assert.Error(t, err)
}

func TestWriteFileAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "f.txt")
	require.NoError(t, WriteFileAtomic(path, []byte("one")))
	require.NoError(t, WriteFileAtomic(path, []byte("two")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriteFileAtomicRenameFailure(t *testing.T) {
	orig := rename
	defer func() { rename = orig }()
	rename = func(string, string) error { return errors.New("disk full") }

	dir := t.TempDir()
	err := WriteFileAtomic(filepath.Join(dir, "f.txt"), []byte("x"))
	assert.EqualError(t, err, "disk full")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
