package mailer

import (
	"errors"
	"fmt"

	mailtpl "github.com/oksasatya/notekeeper/pkg/mailer/templates"
)

var ErrEmptyJob = errors.New("email job needs a template or a subject with text/html")

// EnsureRecipient fills Email/RecipientEmail template fields from job.To when missing.
func EnsureRecipient(job *EmailJob) {
	if job.Data == nil {
		job.Data = map[string]any{}
	}
	if v, ok := job.Data["Email"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["Email"] = job.To
	}
	if v, ok := job.Data["RecipientEmail"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["RecipientEmail"] = job.To
	}
}

// RenderJob resolves the subject, text and html bodies of a job.
func RenderJob(job EmailJob) (subject, text, html string, err error) {
	if job.Template == "" {
		if job.Subject == "" || (job.Text == "" && job.HTML == "") {
			return "", "", "", ErrEmptyJob
		}
		return job.Subject, job.Text, job.HTML, nil
	}
	EnsureRecipient(&job)
	return mailtpl.Render(job.Template, job.Data)
}
