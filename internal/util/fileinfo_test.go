package util

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetFileInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "street.csv")
	require.NoError(t, os.WriteFile(path, []byte("Month\n2023-05\n"), 0644))

	info, err := GetFileInfo(path)
	require.NoError(t, err)
	assert.Equal(t, int64(15), info.Size)
	assert.NotZero(t, info.Inode)
	assert.NotZero(t, info.ModTime)

	_, err = GetFileInfo(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestCalculateFileFingerprint(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		return path
	}

	small := write("small.csv", "a,b\n1,2\n")
	fp, err := CalculateFileFingerprint(small)
	require.NoError(t, err)
	assert.Regexp(t, `^[0-9a-f]{8}$`, fp)

	again, err := CalculateFileFingerprint(write("copy.csv", "a,b\n1,2\n"))
	require.NoError(t, err)
	assert.Equal(t, fp, again)

	// same size, different head
	body := strings.Repeat("x", 10000)
	head1, err := CalculateFileFingerprint(write("h1.csv", "A"+body+"Z"))
	require.NoError(t, err)
	head2, err := CalculateFileFingerprint(write("h2.csv", "B"+body+"Z"))
	require.NoError(t, err)
	assert.NotEqual(t, head1, head2)

	// same size, different tail
	tail, err := CalculateFileFingerprint(write("t.csv", "A"+body+"Y"))
	require.NoError(t, err)
	assert.NotEqual(t, head1, tail)

	_, err = CalculateFileFingerprint(filepath.Join(dir, "missing.csv"))
	assert.Error(t, err)
}
