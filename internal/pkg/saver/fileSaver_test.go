package saver

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFailsOnNoPath(t *testing.T) {
	_, err := NewLocalFileSaver("")
	assert.NotNil(t, err)
}

func TestSaves(t *testing.T) {
	dir := t.TempDir()
	fileSaver, err := NewLocalFileSaver(dir)
	require.Nil(t, err)

	path, err := fileSaver.Save("id1/input.wav", strings.NewReader("body"))
	assert.Nil(t, err)
	assert.Equal(t, filepath.Join(dir, "id1", "input.wav"), path)

	data, err := os.ReadFile(path)
	require.Nil(t, err)
	assert.Equal(t, "body", string(data))
}

func TestSaves_Overwrites(t *testing.T) {
	fileSaver, err := NewLocalFileSaver(t.TempDir())
	require.Nil(t, err)

	_, err = fileSaver.Save("id1/input.wav", strings.NewReader("old longer body"))
	require.Nil(t, err)
	path, err := fileSaver.Save("id1/input.wav", strings.NewReader("new"))
	require.Nil(t, err)

	data, err := os.ReadFile(path)
	require.Nil(t, err)
	assert.Equal(t, "new", string(data))
}

func TestHealthy(t *testing.T) {
	fileSaver, err := NewLocalFileSaver(t.TempDir())
	require.Nil(t, err)
	assert.Nil(t, fileSaver.Healthy())

	fileSaver.StoragePath = "/xxx-no-such-dir"
	assert.NotNil(t, fileSaver.Healthy())
}
