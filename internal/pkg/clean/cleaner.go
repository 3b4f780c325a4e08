package clean

import (
	"github.com/airenas/audio2text/internal/pkg/cmdapp"
	"github.com/airenas/audio2text/internal/pkg/store"
	"github.com/pkg/errors"
)

// Cleaner deletes job information by ID
type Cleaner interface {
	Clean(ID string) error
}

type cleanerGroup struct {
	jobs []Cleaner
}

// NewCleaner creates a cleaner removing both the job record and the job files
func NewCleaner(st store.Store, fileStorage string) (Cleaner, error) {
	res := cleanerGroup{}
	sr, err := newStoreRecord(st)
	if err != nil {
		return nil, err
	}
	res.jobs = append(res.jobs, sr)
	lf, err := newLocalFile(fileStorage, "{ID}")
	if err != nil {
		return nil, err
	}
	res.jobs = append(res.jobs, lf)
	return &res, nil
}

func (c *cleanerGroup) Clean(ID string) error {
	failed := 0
	for _, job := range c.jobs {
		err := job.Clean(ID)
		if err != nil {
			cmdapp.Log.Error(err)
			failed++
		}
	}
	if failed == len(c.jobs) {
		return errors.New("All delete tasks failed")
	}
	return nil
}

type storeRecord struct {
	store store.Store
}

func newStoreRecord(st store.Store) (*storeRecord, error) {
	if st == nil {
		return nil, errors.New("No store provided")
	}
	return &storeRecord{store: st}, nil
}

func (c *storeRecord) Clean(ID string) error {
	cmdapp.Log.Infof("Removing job record %s", ID)
	return c.store.Delete(ID)
}
