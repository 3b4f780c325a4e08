package processor

import (
	"context"
	"io"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/airenas/audio2text/internal/pkg/cmdapp"
	"github.com/airenas/audio2text/internal/pkg/output"
	"github.com/airenas/audio2text/internal/pkg/persistence"
	"github.com/airenas/audio2text/internal/pkg/status"
	"github.com/airenas/audio2text/internal/pkg/store"
	"github.com/airenas/audio2text/internal/pkg/transcriber"
	"github.com/cenkalti/backoff"
	"github.com/pkg/errors"
)

const (
	startProgress = 0.05
	progressStep  = 0.02
	progressCap   = 0.95
)

// Informer is notified when a job reaches a terminal state
type Informer interface {
	InformFinished(job *persistence.Job)
}

// Processor owns one job from dispatch to a terminal state.
// It drains the transcription stream, checkpoints throttled progress
// snapshots to the store and materializes outputs on success
type Processor struct {
	store        store.Store
	transcriber  transcriber.Transcriber
	informer     Informer
	saveInterval time.Duration

	now        func() time.Time
	newBackOff func() backoff.BackOff
}

// NewProcessor creates the job processor
func NewProcessor(st store.Store, tr transcriber.Transcriber) (*Processor, error) {
	if st == nil {
		return nil, errors.New("No job store provided")
	}
	if tr == nil {
		return nil, errors.New("No transcriber provided")
	}
	return &Processor{store: st, transcriber: tr,
		saveInterval: 300 * time.Millisecond,
		now:          time.Now,
		newBackOff:   newSaveBackOff,
	}, nil
}

// WithInformer sets optional finished job notification
func (p *Processor) WithInformer(informer Informer) *Processor {
	p.informer = informer
	return p
}

// Process runs the full lifecycle for the job ID.
// A missing record is not an error, the job was deleted before a worker took it
func (p *Processor) Process(ID string) {
	job, err := p.store.Load(ID)
	if err != nil {
		cmdapp.Log.Error(errors.Wrap(err, "Can't load job "+ID))
		return
	}
	if job == nil {
		cmdapp.Log.Warnf("Job %s not found, skipping", ID)
		return
	}
	err = p.run(job)
	if err != nil {
		cmdapp.Log.Error(errors.Wrap(err, "Job "+ID+" failed"))
		if !status.CanTransition(status.From(job.Status), status.Failed) {
			cmdapp.Log.Warnf("Job %s is already %s, leaving as is", ID, job.Status)
			return
		}
		job.Status = status.Name(status.Failed)
		job.Error = err.Error()
		job.Progress = 1.0
		// a failed job exposes no partial outputs
		job.Outputs = nil
		cmdapp.LogIf(p.save(job))
	}
	cmdapp.Log.Infof("Job %s finished: %s", ID, job.Status)
	p.informFinished(job)
}

func (p *Processor) run(job *persistence.Job) error {
	if err := setStatus(job, status.Processing); err != nil {
		return err
	}
	job.Progress = startProgress
	if err := p.save(job); err != nil {
		return err
	}

	job.Model = p.transcriber.Model()
	if err := p.save(job); err != nil {
		return err
	}

	stream, err := p.transcriber.Transcribe(context.Background(), job.AudioPath, job.Language)
	if err != nil {
		return errors.Wrap(err, "Can't start transcription")
	}
	defer stream.Close()

	lastSave := p.now()
	for {
		seg, err := stream.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return errors.Wrap(err, "Transcription failed")
		}
		job.Segments = append(job.Segments, persistence.Segment{ID: seg.ID,
			Start: seg.Start, End: seg.End, Text: strings.TrimSpace(seg.Text)})
		updateLanguage(job, stream)
		if now := p.now(); now.Sub(lastSave) >= p.saveInterval {
			job.Progress = math.Min(progressCap, job.Progress+progressStep)
			lastSave = now
			if err := p.save(job); err != nil {
				return err
			}
		}
	}
	updateLanguage(job, stream)

	outputs, err := output.WriteAll(filepath.Dir(job.AudioPath), job.Language, job.Segments)
	if err != nil {
		return errors.Wrap(err, "Can't write outputs")
	}
	job.Outputs = outputs
	job.Progress = 1.0
	if err := setStatus(job, status.Done); err != nil {
		return err
	}
	return p.save(job)
}

// setStatus guards the forward-only job lifecycle
func setStatus(job *persistence.Job, to status.Status) error {
	if !status.CanTransition(status.From(job.Status), to) {
		return errors.Errorf("Can't change job status %s to %s", job.Status, status.Name(to))
	}
	job.Status = status.Name(to)
	return nil
}

func (p *Processor) save(job *persistence.Job) error {
	err := backoff.Retry(func() error { return p.store.Save(job) }, p.newBackOff())
	return errors.Wrap(err, "Can't save job "+job.ID)
}

func (p *Processor) informFinished(job *persistence.Job) {
	if p.informer != nil {
		p.informer.InformFinished(job)
	}
}

func updateLanguage(job *persistence.Job, stream transcriber.Stream) {
	if info := stream.Info(); info != nil && info.Language != "" {
		job.Language = info.Language
	}
}

func newSaveBackOff() backoff.BackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 100 * time.Millisecond
	return backoff.WithMaxRetries(bo, 3)
}
