package mongo

import (
	"encoding/json"
	"time"

	"github.com/airenas/audio2text/internal/pkg/cmdapp"
	"github.com/airenas/audio2text/internal/pkg/persistence"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	mgo "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// JobTable keeps job records in mongo db.
// The record is stored as a self-contained JSON text keyed by ID,
// so any process sharing the db sees the same job state
type JobTable struct {
	SessionProvider *SessionProvider
}

type jobRecord struct {
	ID        string    `bson:"ID"`
	Data      string    `bson:"data"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// NewJobTable creates JobTable instance
func NewJobTable(sessionProvider *SessionProvider) (*JobTable, error) {
	if sessionProvider == nil {
		return nil, errors.New("No session provider")
	}
	return &JobTable{SessionProvider: sessionProvider}, nil
}

// Save serializes the job and upserts it by ID
func (jt *JobTable) Save(job *persistence.Job) error {
	if job == nil || job.ID == "" {
		return errors.New("no job ID")
	}
	cmdapp.Log.Debugf("Saving job %s", job.ID)
	data, err := json.Marshal(job)
	if err != nil {
		return errors.Wrap(err, "Can't marshal job")
	}

	c, err := jt.coll()
	if err != nil {
		return err
	}
	ctx, cancel := mongoContext()
	defer cancel()

	err = c.FindOneAndUpdate(ctx, bson.M{"ID": job.ID},
		bson.M{"$set": bson.M{"ID": job.ID, "data": string(data), "updatedAt": time.Now()}},
		options.FindOneAndUpdate().SetUpsert(true)).Err()
	if err == mgo.ErrNoDocuments {
		// upsert inserted a new record
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "Can't save job "+job.ID)
	}
	return nil
}

// Load returns the job record or nil if it does not exist
func (jt *JobTable) Load(ID string) (*persistence.Job, error) {
	c, err := jt.coll()
	if err != nil {
		return nil, err
	}
	ctx, cancel := mongoContext()
	defer cancel()

	var rec jobRecord
	err = c.FindOne(ctx, bson.M{"ID": ID}).Decode(&rec)
	if err == mgo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "Can't load job "+ID)
	}
	var res persistence.Job
	err = json.Unmarshal([]byte(rec.Data), &res)
	if err != nil {
		return nil, errors.Wrap(err, "Can't unmarshal job "+ID)
	}
	return &res, nil
}

// Delete drops the job record by ID
func (jt *JobTable) Delete(ID string) error {
	c, err := jt.coll()
	if err != nil {
		return err
	}
	ctx, cancel := mongoContext()
	defer cancel()

	_, err = c.DeleteOne(ctx, bson.M{"ID": ID})
	if err != nil {
		return errors.Wrap(err, "Can't delete job "+ID)
	}
	return nil
}

func (jt *JobTable) coll() (*mgo.Collection, error) {
	client, err := jt.SessionProvider.NewClient()
	if err != nil {
		return nil, err
	}
	return client.Database(store).Collection(jobTable), nil
}
