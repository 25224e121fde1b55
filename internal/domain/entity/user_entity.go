package entity

import (
	"time"
)

// User is the aggregate root for the account domain
// Passwords are stored as bcrypt hashes in Password field.
// Verification and reset tokens are only ever stored as SHA-256 digests.
type User struct {
	ID         string
	Email      string
	Password   string
	IsVerified bool

	VerificationTokenHash string
	VerificationExpiresAt *time.Time
	ResetTokenHash        string
	ResetExpiresAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ClearVerification drops the pending verification token.
func (u *User) ClearVerification() {
	u.VerificationTokenHash = ""
	u.VerificationExpiresAt = nil
}

// ClearReset drops the pending password reset token.
func (u *User) ClearReset() {
	u.ResetTokenHash = ""
	u.ResetExpiresAt = nil
}
