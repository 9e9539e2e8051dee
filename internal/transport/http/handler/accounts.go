package handler

import (
	"net/http"

	"github.com/travel-atlas/internal/application/verification"
)

// AccountHandler handles registration and email verification endpoints.
type AccountHandler struct {
	svc verification.Service
	// revealCodes echoes issued codes in responses; development only.
	revealCodes bool
}

func NewAccountHandler(svc verification.Service, revealCodes bool) *AccountHandler {
	return &AccountHandler{svc: svc, revealCodes: revealCodes}
}

func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req verification.RegisterRequest
	if err := decode(r, &req); err != nil {
		httpError(w, err)
		return
	}
	res, err := h.svc.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		httpError(w, err)
		return
	}
	env := RegisterEnvelope{Identity: res.Identity, Message: "verification code sent"}
	if h.revealCodes {
		env.Code = res.Code
	}
	writeJSON(w, http.StatusCreated, env)
}

func (h *AccountHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req verification.VerifyRequest
	if err := decode(r, &req); err != nil {
		httpError(w, err)
		return
	}
	if err := h.svc.Verify(r.Context(), req.Email, req.Code); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "email verified"})
}

func (h *AccountHandler) Resend(w http.ResponseWriter, r *http.Request) {
	var req verification.ResendRequest
	if err := decode(r, &req); err != nil {
		httpError(w, err)
		return
	}
	code, err := h.svc.Resend(r.Context(), req.Email)
	if err != nil {
		httpError(w, err)
		return
	}
	env := CodeEnvelope{Message: "verification code sent"}
	if h.revealCodes {
		env.Code = code
	}
	writeJSON(w, http.StatusOK, env)
}
