package clean

import (
	"os"
	"time"

	"github.com/airenas/audio2text/internal/pkg/cmdapp"
	"github.com/pkg/errors"
)

// OldIDsProvider returns expired ids for the cleaning service
type OldIDsProvider interface {
	Get() ([]string, error)
}

// DirIDsProvider treats every directory under the storage path as a job
// and reports those untouched for longer than the expire duration
type DirIDsProvider struct {
	Path   string
	expire time.Duration
	now    func() time.Time
}

// NewDirIDsProvider creates DirIDsProvider instance
func NewDirIDsProvider(path string, expire time.Duration) (*DirIDsProvider, error) {
	if path == "" {
		return nil, errors.New("No storage path provided")
	}
	if expire <= 0 {
		return nil, errors.Errorf("Wrong expire duration %v", expire)
	}
	return &DirIDsProvider{Path: path, expire: expire, now: time.Now}, nil
}

// Get returns expired job IDs
func (p *DirIDsProvider) Get() ([]string, error) {
	expDate := p.now().Add(-p.expire)
	cmdapp.Log.Infof("Getting old job dirs, time < %s", expDate.Format(time.RFC3339))
	entries, err := os.ReadDir(p.Path)
	if err != nil {
		return nil, errors.Wrap(err, "Can't read dir "+p.Path)
	}
	res := make([]string, 0)
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			cmdapp.Log.Warn(err)
			continue
		}
		if info.ModTime().Before(expDate) {
			res = append(res, e.Name())
		}
	}
	return res, nil
}
