package user

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ovaphlow/gophertalk/internal/auth"
	"github.com/ovaphlow/gophertalk/pkg/utilities"
)

// DefaultListLimit applies when the limit query parameter is absent.
const DefaultListLimit = 10

// Handler exposes the user directory over HTTP. Every route expects
// auth.RequireToken in front of it.
type Handler struct {
	svc    *Service
	logger *zap.SugaredLogger
}

func NewHandler(svc *Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	limit, err := utilities.QueryInt(r, "limit", DefaultListLimit)
	if err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	offset, err := utilities.QueryInt(r, "offset", 0)
	if err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	users, err := h.svc.List(r.Context(), limit, offset)
	if err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	utilities.WriteJSON(w, http.StatusOK, users)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := utilities.PathInt64(r, "id")
	if err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	u, err := h.svc.Get(r.Context(), id)
	if err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	utilities.WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.self(w, r)
	if !ok {
		return
	}
	var req UpdateInput
	if err := utilities.DecodeJSON(r, &req); err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	u, err := h.svc.Update(r.Context(), id, req)
	if err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	utilities.WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.self(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// self resolves the {id} path value and checks it is the caller's own id.
func (h *Handler) self(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := utilities.PathInt64(r, "id")
	if err != nil {
		utilities.WriteError(w, h.logger, err)
		return 0, false
	}
	viewer, ok := auth.ViewerFrom(r.Context())
	if !ok || viewer != id {
		utilities.WriteJSON(w, http.StatusForbidden, utilities.ErrorBody{Error: "cannot modify another user", Code: "FORBIDDEN"})
		return 0, false
	}
	return id, true
}
