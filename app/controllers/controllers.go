// Package controllers holds the HTTP handlers. Controllers bind and
// validate input, call a service, and map service errors onto the JSON
// response envelope.
package controllers

import (
	"errors"
	"net/http"

	"github.com/ndthang/techmart/app/services"
	"github.com/ndthang/techmart/pkg/logger"
	"github.com/ndthang/techmart/pkg/response"
)

// fail maps a service error onto the response envelope.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		response.NotFound(w)
	case errors.Is(err, services.ErrForbidden):
		response.Forbidden(w)
	case errors.Is(err, services.ErrInvalidCredentials):
		response.Unauthorized(w)
	case errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrQuantityTooLow),
		errors.Is(err, services.ErrCartEmpty),
		errors.Is(err, services.ErrInvalidStatus):
		response.Error(w, http.StatusUnprocessableEntity, err.Error())
	default:
		logger.WithCtx(r.Context()).Error("request failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "internal server error")
	}
}
