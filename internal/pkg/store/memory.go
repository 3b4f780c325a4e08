package store

import (
	"sync"

	"github.com/airenas/audio2text/internal/pkg/persistence"
	"github.com/pkg/errors"
)

// Memory keeps job records in a process local table.
// Valid for single-process deployments only
type Memory struct {
	lock sync.RWMutex
	jobs map[string]*persistence.Job
}

// NewMemory creates in-memory job store
func NewMemory() *Memory {
	return &Memory{jobs: make(map[string]*persistence.Job)}
}

// Save stores a copy of the job record
func (m *Memory) Save(job *persistence.Job) error {
	if job == nil || job.ID == "" {
		return errors.New("no job ID")
	}
	m.lock.Lock()
	defer m.lock.Unlock()
	m.jobs[job.ID] = job.Copy()
	return nil
}

// Load returns a copy of the stored record or nil if it does not exist
func (m *Memory) Load(ID string) (*persistence.Job, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.jobs[ID].Copy(), nil
}

// Delete drops the record. It is not an error to delete an unknown ID
func (m *Memory) Delete(ID string) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	delete(m.jobs, ID)
	return nil
}
