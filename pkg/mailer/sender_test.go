package mailer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/notekeeper/pkg/helpers"
	mailtpl "github.com/oksasatya/notekeeper/pkg/mailer/templates"
)

type fakePublisher struct {
	got []any
	err error
}

func (f *fakePublisher) PublishJSON(_ context.Context, body any) error {
	f.got = append(f.got, body)
	return f.err
}

func TestQueueSender_Publishes(t *testing.T) {
	pub := &fakePublisher{}
	job := EmailJob{To: "a@x.com", Template: mailtpl.VerifyEmail}

	require.NoError(t, QueueSender{Pub: pub}.Send(context.Background(), job))
	require.Len(t, pub.got, 1)
	assert.Equal(t, job, pub.got[0])
}

func TestQueueSender_Errors(t *testing.T) {
	assert.Error(t, QueueSender{}.Send(context.Background(), EmailJob{}))

	boom := errors.New("boom")
	err := QueueSender{Pub: &fakePublisher{err: boom}}.Send(context.Background(), EmailJob{To: "a@x.com"})
	assert.ErrorIs(t, err, boom)
}

func TestLogSender_NeverFails(t *testing.T) {
	s := LogSender{Logger: helpers.NewDiscardLogger()}
	job := EmailJob{To: "a@x.com", Template: mailtpl.VerifyEmail, Data: map[string]any{"VerifyURL": "x"}}
	assert.NoError(t, s.Send(context.Background(), job))
	assert.NoError(t, LogSender{}.Send(context.Background(), job))
}

func TestRenderJob(t *testing.T) {
	_, _, _, err := RenderJob(EmailJob{To: "a@x.com"})
	assert.ErrorIs(t, err, ErrEmptyJob)

	subject, text, html, err := RenderJob(EmailJob{To: "a@x.com", Subject: "Hi", Text: "body"})
	require.NoError(t, err)
	assert.Equal(t, "Hi", subject)
	assert.Equal(t, "body", text)
	assert.Empty(t, html)

	subject, text, _, err = RenderJob(EmailJob{
		To:       "a@x.com",
		Template: mailtpl.ForgotPassword,
		Data:     map[string]any{"ResetURL": "http://r?token=1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Reset your password", subject)
	assert.Contains(t, text, "Hi a@x.com")
	assert.Contains(t, text, "http://r?token=1")
}

func TestMailgunConfigured(t *testing.T) {
	assert.False(t, (*Mailgun)(nil).Configured())
	assert.False(t, NewMailgun("d", "", "s").Configured())
	assert.True(t, NewMailgun("d", "k", "s").Configured())
}
