package client

import (
	"errors"
	"fmt"
)

// ErrUnauthenticated is returned without touching the network when no session token is stored.
var ErrUnauthenticated = errors.New("not logged in")

// APIError is a non-2xx reply from the server.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

// IsCode reports whether err is an APIError carrying code.
func IsCode(err error, code string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}

// ActionError carries the fixed message shown to the user for a failed board action.
type ActionError struct {
	Message string
	Err     error
}

func (e *ActionError) Error() string { return e.Message }
func (e *ActionError) Unwrap() error { return e.Err }

// User-facing failure messages per board action.
const (
	MsgFetchFailed  = "Failed to fetch notes"
	MsgCreateFailed = "Failed to create note"
	MsgSaveFailed   = "Failed to save note"
	MsgColorFailed  = "Failed to update color"
	MsgPinFailed    = "Failed to pin/unpin note"
	MsgDeleteFailed = "Failed to delete note"
)

func actionErr(msg string, err error) error {
	if err == nil {
		return nil
	}
	return &ActionError{Message: msg, Err: err}
}
