package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captured struct {
	to, subject, text, html string
	err                     error
}

func (c *captured) Send(_ context.Context, to, subject, text, html string) error {
	c.to, c.subject, c.text, c.html = to, subject, text, html
	return c.err
}

func TestHandleMessage_RendersTemplate(t *testing.T) {
	body, err := json.Marshal(EmailJob{
		To:       "a@x.com",
		Template: "verify_email",
		Data:     map[string]any{"AppName": "Notekeeper", "VerifyURL": "http://app/verify-email?token=abc"},
	})
	require.NoError(t, err)

	d := &captured{}
	require.NoError(t, HandleMessage(context.Background(), d, body, time.Second))
	assert.Equal(t, "a@x.com", d.to)
	assert.NotEmpty(t, d.subject)
	assert.Contains(t, d.html, "token=abc")
}

func TestHandleMessage_BadJobs(t *testing.T) {
	d := &captured{}
	for name, body := range map[string]string{
		"not json":     `{`,
		"no recipient": `{"subject":"s","text":"t"}`,
		"empty":        `{"to":"a@x.com"}`,
		"unknown tpl":  `{"to":"a@x.com","template":"nope"}`,
	} {
		err := HandleMessage(context.Background(), d, []byte(body), time.Second)
		assert.ErrorIs(t, err, ErrBadJob, name)
	}
}

func TestHandleMessage_DeliveryErrorIsRetryable(t *testing.T) {
	d := &captured{err: errors.New("mailgun down")}
	err := HandleMessage(context.Background(), d, []byte(`{"to":"a@x.com","subject":"s","text":"t"}`), time.Second)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrBadJob)
}
