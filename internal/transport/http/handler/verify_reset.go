package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-verify-reset/internal/application/verification"
	"github.com/go-verify-reset/internal/pkg/validate"
	"github.com/go-verify-reset/internal/transport/http/middleware"
)

// VerifyResetHandler exposes the verification and credential-recovery
// dispatcher over a single action endpoint.
type VerifyResetHandler struct {
	svc verification.Service
}

func NewVerifyResetHandler(svc verification.Service) *VerifyResetHandler {
	return &VerifyResetHandler{svc: svc}
}

func (h *VerifyResetHandler) Action(w http.ResponseWriter, r *http.Request) {
	var req verification.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	var auth *verification.AuthContext
	if u, ok := middleware.UserFromContext(r.Context()); ok {
		auth = &verification.AuthContext{User: u}
	}

	result, err := h.svc.Dispatch(r.Context(), req, auth)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
