package memory

import (
	"context"
	"net/url"
	"sync"

	"github.com/oksasatya/notekeeper/pkg/mailer"
)

// Outbox is a mailer.Sender that keeps every job instead of delivering it.
type Outbox struct {
	mu   sync.Mutex
	jobs []mailer.EmailJob
	Err  error
}

func (o *Outbox) Send(_ context.Context, job mailer.EmailJob) error {
	if o.Err != nil {
		return o.Err
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.jobs = append(o.jobs, job)
	return nil
}

func (o *Outbox) Jobs() []mailer.EmailJob {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]mailer.EmailJob(nil), o.jobs...)
}

// LastToken returns the token query parameter of the newest link sent with template.
func (o *Outbox) LastToken(template string) string {
	jobs := o.Jobs()
	for i := len(jobs) - 1; i >= 0; i-- {
		if jobs[i].Template != template {
			continue
		}
		for _, key := range []string{"VerifyURL", "ResetURL"} {
			if link, ok := jobs[i].Data[key].(string); ok && link != "" {
				if u, err := url.Parse(link); err == nil {
					return u.Query().Get("token")
				}
			}
		}
	}
	return ""
}

var _ mailer.Sender = (*Outbox)(nil)
