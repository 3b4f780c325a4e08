package loader

import (
	"os"

	"github.com/airenas/audio2text/internal/pkg/cmdapp"
	"github.com/pkg/errors"
)

// File is a readable file with metadata, returned by Load
type File interface {
	Stat() (os.FileInfo, error)
	Read(p []byte) (n int, err error)
	Seek(offset int64, whence int) (int64, error)
	Close() error
}

// LocalFileLoader loads files from local disk
type LocalFileLoader struct {
	OpenFileFunc func(fileName string) (File, error)
}

// NewLocalFileLoader creates LocalFileLoader instance
func NewLocalFileLoader() *LocalFileLoader {
	return &LocalFileLoader{OpenFileFunc: openFile}
}

// Load opens the file by its full path
func (fs *LocalFileLoader) Load(path string) (File, error) {
	f, err := fs.OpenFileFunc(path)
	if err != nil {
		cmdapp.Log.Debugf("Can't open %s", path)
		return nil, errors.Wrap(err, "Can not open file "+path)
	}
	return f, nil
}

func openFile(fileName string) (File, error) {
	return os.Open(fileName)
}
