package inform

import (
	"time"

	aInform "github.com/airenas/async-api/pkg/inform"

	"github.com/airenas/audio2text/internal/pkg/cmdapp"
	"github.com/airenas/audio2text/internal/pkg/persistence"
	"github.com/airenas/audio2text/internal/pkg/status"
	"github.com/pkg/errors"
)

// EmailInformer sends the configured done/failed email when a job finishes.
// Jobs without an email address are skipped
type EmailInformer struct {
	maker  EmailMaker
	sender Sender
	now    func() time.Time
}

// NewEmailInformer inits the informer
func NewEmailInformer(maker EmailMaker, sender Sender) (*EmailInformer, error) {
	if maker == nil {
		return nil, errors.New("No email maker provided")
	}
	if sender == nil {
		return nil, errors.New("No email sender provided")
	}
	return &EmailInformer{maker: maker, sender: sender, now: time.Now}, nil
}

// InformFinished sends the notification email for the finished job
func (s *EmailInformer) InformFinished(job *persistence.Job) {
	if job == nil || job.Email == "" {
		return
	}
	msgType := "done"
	if job.Status == status.Name(status.Failed) {
		msgType = "failed"
	}
	data := aInform.Data{ID: job.ID, Email: job.Email, MsgType: msgType, MsgTime: s.now()}
	email, err := s.maker.Make(&data)
	if err != nil {
		cmdapp.Log.Error(errors.Wrap(err, "Can't prepare email for "+job.ID))
		return
	}
	err = s.sender.Send(email)
	if err != nil {
		cmdapp.Log.Error(errors.Wrap(err, "Can't send email for "+job.ID))
		return
	}
	cmdapp.Log.Infof("Sent %s email for %s", msgType, job.ID)
}
