package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/travel-atlas/internal/domain"
	"github.com/travel-atlas/internal/pkg/validate"
)

// httpError maps domain errors to status codes. Unknown errors are logged and
// reported without their detail.
func httpError(w http.ResponseWriter, err error) {
	var ape *domain.AuthProviderError
	if errors.As(err, &ape) {
		status := http.StatusUnauthorized
		switch ape.Code {
		case domain.AuthUserAlreadyExists:
			status = http.StatusConflict
		case domain.AuthWeakPassword:
			status = http.StatusUnprocessableEntity
		case domain.AuthProviderUnavailable:
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, MessageEnvelope{Error: ape.Message, ErrorCode: string(ape.Code)})
		return
	}

	switch {
	case errors.Is(err, domain.ErrBadRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, validate.ErrInvalid):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrAccountNotFound):
		writeError(w, http.StatusNotFound, domain.ErrAccountNotFound.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, domain.ErrNotFound.Error())
	case errors.Is(err, domain.ErrInvalidCode):
		writeError(w, http.StatusBadRequest, domain.ErrInvalidCode.Error())
	case errors.Is(err, domain.ErrCodeExpired):
		writeError(w, http.StatusBadRequest, domain.ErrCodeExpired.Error())
	case errors.Is(err, domain.ErrNotVerified):
		writeError(w, http.StatusForbidden, domain.ErrNotVerified.Error())
	case errors.Is(err, domain.ErrAlreadyVerified):
		writeError(w, http.StatusConflict, domain.ErrAlreadyVerified.Error())
	case errors.Is(err, domain.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, domain.ErrRateLimited.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, domain.ErrUnauthorized.Error())
	default:
		slog.Error("request failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
