package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoads(t *testing.T) {
	p := filepath.Join(t.TempDir(), "transcript.txt")
	require.Nil(t, os.WriteFile(p, []byte("olia"), 0644))

	l := NewLocalFileLoader()
	f, err := l.Load(p)
	require.Nil(t, err)
	defer f.Close()

	fi, err := f.Stat()
	require.Nil(t, err)
	assert.Equal(t, int64(4), fi.Size())
}

func TestLoad_FailsOnMissing(t *testing.T) {
	l := NewLocalFileLoader()
	_, err := l.Load("/xxx-no-such-dir/transcript.txt")
	assert.NotNil(t, err)
}
