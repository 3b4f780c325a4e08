package saver

import (
	"io"
	"os"
	"path/filepath"

	"github.com/airenas/audio2text/internal/pkg/cmdapp"
	"github.com/pkg/errors"
)

// LocalFileSaver saves uploaded files on local disk,
// each job gets its own directory under the storage path
type LocalFileSaver struct {
	// StoragePath is the main folder to save into
	StoragePath string
}

// NewLocalFileSaver creates LocalFileSaver instance
func NewLocalFileSaver(storagePath string) (*LocalFileSaver, error) {
	if storagePath == "" {
		return nil, errors.New("No storage path provided")
	}
	cmdapp.Log.Infof("Init Local File Storage at: %s", storagePath)
	return &LocalFileSaver{StoragePath: storagePath}, nil
}

// Save stores the reader content to name, creating missing directories.
// It returns the full path of the saved file
func (fs *LocalFileSaver) Save(name string, reader io.Reader) (string, error) {
	fileName := filepath.Join(fs.StoragePath, name)
	err := os.MkdirAll(filepath.Dir(fileName), 0755)
	if err != nil {
		return "", errors.Wrap(err, "Can not create directory for "+fileName)
	}
	f, err := os.OpenFile(fileName, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return "", errors.Wrap(err, "Can not create file "+fileName)
	}
	defer f.Close()
	savedBytes, err := io.Copy(f, reader)
	if err != nil {
		return "", errors.Wrap(err, "Can not save file "+fileName)
	}
	cmdapp.Log.Infof("Saved file %s. Size = %d b", fileName, savedBytes)
	return fileName, nil
}

// Healthy checks if the storage path is accessible
func (fs *LocalFileSaver) Healthy() error {
	fi, err := os.Stat(fs.StoragePath)
	if err != nil {
		return errors.Wrap(err, "Can't access "+fs.StoragePath)
	}
	if !fi.IsDir() {
		return errors.New(fs.StoragePath + " is not a directory")
	}
	return nil
}
