package inform

import (
	aInform "github.com/airenas/async-api/pkg/inform"
	"github.com/jordan-wright/email"
)

// Sender sends prepared emails
type Sender interface {
	Send(email *email.Email) error
}

// EmailMaker prepares the email
type EmailMaker interface {
	Make(data *aInform.Data) (*email.Email, error)
}
