package application

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/notekeeper/internal/domain/entity"
	repo "github.com/oksasatya/notekeeper/internal/domain/repository"
	"github.com/oksasatya/notekeeper/pkg/helpers"
	"github.com/oksasatya/notekeeper/pkg/mailer"
	"github.com/oksasatya/notekeeper/pkg/mailer/templates"
)

// AuthService owns the account lifecycle: signup, verification, login, logout and password reset.
type AuthService struct {
	Users       repo.UserRepository
	JWT         *helpers.JWTManager
	Revocations RevocationStore
	Mail        mailer.Sender
	Logger      *logrus.Logger

	Brand            templates.Brand
	VerifyEmailURL   string
	ResetPasswordURL string
	VerifyTTL        time.Duration
	ResetTTL         time.Duration
	RequireVerified  bool

	now func() time.Time
}

type AuthOptions struct {
	Brand            templates.Brand
	VerifyEmailURL   string
	ResetPasswordURL string
	VerifyTTL        time.Duration
	ResetTTL         time.Duration
	RequireVerified  bool
}

func NewAuthService(users repo.UserRepository, jwt *helpers.JWTManager, rev RevocationStore, mail mailer.Sender, logger *logrus.Logger, opts AuthOptions) *AuthService {
	if opts.VerifyTTL <= 0 {
		opts.VerifyTTL = 24 * time.Hour
	}
	if opts.ResetTTL <= 0 {
		opts.ResetTTL = 30 * time.Minute
	}
	return &AuthService{
		Users:            users,
		JWT:              jwt,
		Revocations:      rev,
		Mail:             mail,
		Logger:           logger,
		Brand:            opts.Brand,
		VerifyEmailURL:   opts.VerifyEmailURL,
		ResetPasswordURL: opts.ResetPasswordURL,
		VerifyTTL:        opts.VerifyTTL,
		ResetTTL:         opts.ResetTTL,
		RequireVerified:  opts.RequireVerified,
		now:              time.Now,
	}
}

// Session is what a successful login hands back to the client.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *entity.User
}

// NormalizeEmail trims and lower-cases an address before it touches the store.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Signup(ctx context.Context, email, password string) error {
	email = NormalizeEmail(email)
	if _, err := s.Users.GetByEmail(ctx, email); err == nil {
		return ErrConflict
	} else if !errors.Is(err, repo.ErrNotFound) {
		return fmt.Errorf("lookup user: %w", err)
	}

	hash, err := helpers.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	raw, err := helpers.NewOpaqueToken()
	if err != nil {
		return fmt.Errorf("verification token: %w", err)
	}
	exp := s.now().Add(s.VerifyTTL)
	u := &entity.User{
		Email:                 email,
		Password:              hash,
		VerificationTokenHash: helpers.HashToken(raw),
		VerificationExpiresAt: &exp,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return ErrConflict
		}
		return fmt.Errorf("create user: %w", err)
	}

	link := withToken(s.VerifyEmailURL, raw)
	job := mailer.EmailJob{
		To:       email,
		Template: templates.VerifyEmail,
		Data:     templates.NewVerifyEmailData(s.Brand, email, link, templates.WithTime(s.now()), templates.WithExpiresAt(exp)),
	}
	if err := s.Mail.Send(ctx, job); err != nil {
		helpers.LogError(s.Logger, "send verification email failed", err, logrus.Fields{"user_id": u.ID})
		return fmt.Errorf("send verification email: %w", err)
	}
	helpers.LogInfo(s.Logger, "user signed up", logrus.Fields{"user_id": u.ID})
	return nil
}

func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	u, err := s.Users.GetByVerificationToken(ctx, helpers.HashToken(token))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrInvalidToken
		}
		return fmt.Errorf("lookup verification token: %w", err)
	}
	if u.VerificationExpiresAt != nil && !s.now().Before(*u.VerificationExpiresAt) {
		return ErrInvalidToken
	}
	u.IsVerified = true
	u.ClearVerification()
	if err := s.Users.Update(ctx, u); err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	helpers.LogInfo(s.Logger, "email verified", logrus.Fields{"user_id": u.ID})
	return nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	u, err := s.Users.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	if s.RequireVerified && !u.IsVerified {
		return nil, ErrEmailNotVerified
	}
	token, exp, err := s.JWT.GenerateSessionToken(u.ID)
	if err != nil {
		helpers.LogError(s.Logger, "generate session token failed", err, logrus.Fields{"user_id": u.ID})
		return nil, err
	}
	return &Session{Token: token, ExpiresAt: exp, User: u}, nil
}

// Logout revokes the presented session until its own expiry.
func (s *AuthService) Logout(ctx context.Context, claims *helpers.Claims) error {
	if claims == nil || claims.ID == "" {
		return ErrUnauthorized
	}
	if s.Revocations == nil {
		return nil
	}
	ttl := time.Minute
	if claims.ExpiresAt != nil {
		ttl = claims.ExpiresAt.Sub(s.now())
	}
	if ttl <= 0 {
		return nil
	}
	if err := s.Revocations.Revoke(ctx, claims.ID, ttl); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

func (s *AuthService) Me(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	return u, nil
}

// RequestInfo describes where a request came from, for security notices in emails.
type RequestInfo struct {
	IP        string
	UserAgent string
}

// ForgotPassword always succeeds for unknown addresses so callers cannot probe for accounts.
func (s *AuthService) ForgotPassword(ctx context.Context, email string, from RequestInfo) error {
	email = NormalizeEmail(email)
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			helpers.LogInfo(s.Logger, "password reset requested for unknown email", nil)
			return nil
		}
		return fmt.Errorf("lookup user: %w", err)
	}

	raw, err := helpers.NewOpaqueToken()
	if err != nil {
		return fmt.Errorf("reset token: %w", err)
	}
	exp := s.now().Add(s.ResetTTL)
	u.ResetTokenHash = helpers.HashToken(raw)
	u.ResetExpiresAt = &exp
	if err := s.Users.Update(ctx, u); err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	link := withToken(s.ResetPasswordURL, raw)
	job := mailer.EmailJob{
		To:       email,
		Template: templates.ForgotPassword,
		Data:     templates.NewForgotPasswordData(s.Brand, email, link,
			templates.WithTime(s.now()), templates.WithExpiresAt(exp),
			templates.WithIP(from.IP), templates.WithUserAgent(from.UserAgent)),
	}
	if err := s.Mail.Send(ctx, job); err != nil {
		helpers.LogError(s.Logger, "send reset email failed", err, logrus.Fields{"user_id": u.ID})
		return fmt.Errorf("send reset email: %w", err)
	}
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, token, password string) error {
	u, err := s.Users.GetByResetToken(ctx, helpers.HashToken(token))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrInvalidToken
		}
		return fmt.Errorf("lookup reset token: %w", err)
	}
	if u.ResetExpiresAt != nil && !s.now().Before(*u.ResetExpiresAt) {
		return ErrInvalidToken
	}
	hash, err := helpers.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u.Password = hash
	u.ClearReset()
	if err := s.Users.Update(ctx, u); err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	helpers.LogInfo(s.Logger, "password reset", logrus.Fields{"user_id": u.ID})
	return nil
}

func withToken(base, token string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base + "?token=" + url.QueryEscape(token)
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String()
}
