package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrBadJob marks a queued message that can never be delivered and should be dropped.
var ErrBadJob = errors.New("undeliverable email job")

// Deliverer sends an already rendered message. *Mailgun satisfies it.
type Deliverer interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

// HandleMessage decodes a queued job, renders it and hands it to d.
// Errors wrapping ErrBadJob are permanent; anything else is worth a retry.
func HandleMessage(ctx context.Context, d Deliverer, body []byte, timeout time.Duration) error {
	var job EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		return fmt.Errorf("%w: decode: %v", ErrBadJob, err)
	}
	if job.To == "" {
		return fmt.Errorf("%w: missing recipient", ErrBadJob)
	}
	subject, text, html, err := RenderJob(job)
	if err != nil {
		return fmt.Errorf("%w: render %q: %v", ErrBadJob, job.Template, err)
	}
	c, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return d.Send(c, job.To, subject, text, html)
}
