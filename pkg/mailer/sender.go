package mailer

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
)

// Sender delivers (or schedules delivery of) an email job.
type Sender interface {
	Send(ctx context.Context, job EmailJob) error
}

// Publisher is the queue side of QueueSender; *helpers.RabbitPublisher satisfies it.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// QueueSender hands jobs to the email worker through the queue.
type QueueSender struct {
	Pub Publisher
}

func (s QueueSender) Send(ctx context.Context, job EmailJob) error {
	if s.Pub == nil {
		return errors.New("email queue not configured")
	}
	return s.Pub.PublishJSON(ctx, job)
}

// DirectSender renders and sends in-process through Mailgun.
type DirectSender struct {
	Mailgun *Mailgun
}

func (s DirectSender) Send(ctx context.Context, job EmailJob) error {
	subject, text, html, err := RenderJob(job)
	if err != nil {
		return err
	}
	return s.Mailgun.Send(ctx, job.To, subject, text, html)
}

// LogSender only logs the job. Used when MAIL_SEND_ENABLED=false so links stay reachable in dev.
type LogSender struct {
	Logger *logrus.Logger
}

func (s LogSender) Send(_ context.Context, job EmailJob) error {
	if s.Logger == nil {
		return nil
	}
	entry := s.Logger.WithFields(logrus.Fields{"to": job.To, "template": job.Template})
	if job.Data != nil {
		if v, ok := job.Data["VerifyURL"]; ok && job.Template == "verify_email" {
			entry = entry.WithField("link", v)
		}
		if v, ok := job.Data["ResetURL"]; ok && job.Template == "forgot_password" {
			entry = entry.WithField("link", v)
		}
	}
	entry.Info("email sending disabled; job not delivered")
	return nil
}
