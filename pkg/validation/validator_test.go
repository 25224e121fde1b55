package validation

import (
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,pwd"`
}

type notePayload struct {
	Color string `json:"color" validate:"omitempty,notecolor"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	Register(v)
	return v
}

func TestToDetails_UsesJSONNames(t *testing.T) {
	v := newValidator()
	err := v.Struct(signupPayload{Email: "nope"})
	require.Error(t, err)

	details := ToDetails(err)
	assert.Equal(t, "must be a valid email", details["email"])
	assert.Equal(t, "is required", details["password"])
}

func TestPasswordAlias(t *testing.T) {
	v := newValidator()
	assert.NoError(t, v.Struct(signupPayload{Email: "a@x.com", Password: "pw"}))

	err := v.Struct(signupPayload{Email: "a@x.com", Password: strings.Repeat("x", 73)})
	require.Error(t, err)
	assert.Equal(t, "must be between 1 and 72 bytes", ToDetails(err)["password"])

	assert.NoError(t, v.Struct(signupPayload{Email: "a@x.com", Password: strings.Repeat("é", 36)}))
	err = v.Struct(signupPayload{Email: "a@x.com", Password: strings.Repeat("é", 40)})
	require.Error(t, err)
	assert.Equal(t, "must be between 1 and 72 bytes", ToDetails(err)["password"])
}

func TestNoteColorAlias(t *testing.T) {
	v := newValidator()
	assert.NoError(t, v.Struct(notePayload{}))
	assert.NoError(t, v.Struct(notePayload{Color: "#f6d365"}))

	err := v.Struct(notePayload{Color: "yellow"})
	require.Error(t, err)
	assert.Equal(t, "must be a valid hexadecimal color", ToDetails(err)["color"])
}

func TestToDetails_PayloadErrors(t *testing.T) {
	assert.Nil(t, ToDetails(nil))
	assert.Equal(t, map[string]string{"payload": "empty body"}, ToDetails(io.EOF))

	var target map[string]any
	jerr := json.Unmarshal([]byte("{"), &target)
	require.Error(t, jerr)
	assert.Equal(t, map[string]string{"payload": "invalid json"}, ToDetails(jerr))

	assert.Equal(t, map[string]string{"payload": "invalid payload"}, ToDetails(errors.New("boom")))
}
