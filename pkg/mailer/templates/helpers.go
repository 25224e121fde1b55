package templates

import (
	"time"
)

// Brand carries the sender identity shown in every email.
type Brand struct {
	AppName        string
	CompanyName    string
	CompanyAddress string
	LogoURL        string
	SupportURL     string
	PrivacyURL     string
}

// Option pattern
type Option func(*EmailData)

func WithIP(ip string) Option        { return func(d *EmailData) { d.IP = ip } }
func WithUserAgent(ua string) Option { return func(d *EmailData) { d.UserAgent = ua } }
func WithTime(t time.Time) Option {
	return func(d *EmailData) { d.Time = t.UTC().Format("02 January 2006, 15:04") }
}

func WithExpiresAt(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.ExpiresAt = utc
		d.ExpiresAtText = utc.Format("02 January 2006, 15:04 MST")
	}
}

// NewBaseEmailData fills brand fields, then applies options.
func NewBaseEmailData(b Brand, typ, email string, opts ...Option) EmailData {
	d := EmailData{
		Email:          email,
		RecipientEmail: email,
		Type:           typ,

		AppName:        b.AppName,
		CompanyName:    b.CompanyName,
		CompanyAddress: b.CompanyAddress,
		LogoURL:        b.LogoURL,
		SupportURL:     b.SupportURL,
		PrivacyURL:     b.PrivacyURL,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func NewVerifyEmailData(b Brand, email, verifyURL string, opts ...Option) map[string]any {
	d := NewBaseEmailData(b, VerifyEmail, email, opts...)
	d.VerifyURL = verifyURL
	return ToMap(d)
}

func NewForgotPasswordData(b Brand, email, resetURL string, opts ...Option) map[string]any {
	d := NewBaseEmailData(b, ForgotPassword, email, opts...)
	d.ResetURL = resetURL
	return ToMap(d)
}
