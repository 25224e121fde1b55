package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/notekeeper/internal/application"
	"github.com/oksasatya/notekeeper/pkg/helpers"
	"github.com/oksasatya/notekeeper/pkg/response"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, application.ErrConflict),
		errors.Is(err, application.ErrNotFound),
		errors.Is(err, application.ErrInvalidCredentials),
		errors.Is(err, application.ErrInvalidToken):
		return http.StatusBadRequest
	case errors.Is(err, application.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, application.ErrEmailNotVerified):
		return http.StatusForbidden
	case errors.Is(err, application.ErrNoteNotFound):
		return http.StatusNotFound
	case errors.Is(err, application.ErrExportUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// writeError maps taxonomy errors to status + {"code": ...}; anything else is logged and hidden.
func writeError(c *gin.Context, logger *logrus.Logger, err error) {
	code := application.Code(err)
	if code == "" {
		helpers.LogError(logger, "request failed", err, logrus.Fields{
			"request_id": c.GetString("request_id"),
			"route":      c.FullPath(),
		})
		response.Error[any](c, http.StatusInternalServerError, "internal error", nil)
		return
	}
	response.Error[any](c, statusFor(err), err.Error(), response.ErrorBody{Code: code})
}
