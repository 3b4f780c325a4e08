package store

import "github.com/airenas/audio2text/internal/pkg/persistence"

// Store keeps job records by ID.
// Load returns (nil, nil) when there is no record for the ID
type Store interface {
	Save(job *persistence.Job) error
	Load(ID string) (*persistence.Job, error)
	Delete(ID string) error
}
