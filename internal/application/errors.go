package application

import "errors"

var (
	ErrConflict           = errors.New("email already registered")
	ErrNotFound           = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrEmailNotVerified   = errors.New("email not verified")
	ErrNoteNotFound       = errors.New("note not found")
	ErrExportUnavailable  = errors.New("export storage not configured")
)

// Code returns the wire code for a taxonomy error, or "" for anything else.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrConflict):
		return "Conflict"
	case errors.Is(err, ErrNotFound):
		return "NotFound"
	case errors.Is(err, ErrInvalidCredentials):
		return "InvalidCredentials"
	case errors.Is(err, ErrInvalidToken):
		return "InvalidToken"
	case errors.Is(err, ErrUnauthorized):
		return "Unauthorized"
	case errors.Is(err, ErrEmailNotVerified):
		return "EmailNotVerified"
	case errors.Is(err, ErrNoteNotFound):
		return "NoteNotFound"
	case errors.Is(err, ErrExportUnavailable):
		return "ExportUnavailable"
	}
	return ""
}
