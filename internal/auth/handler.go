package auth

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/ovaphlow/gophertalk/internal/monitoring"
	"github.com/ovaphlow/gophertalk/pkg/apperr"
	"github.com/ovaphlow/gophertalk/pkg/utilities"
)

// Handler exposes the login, register and refresh endpoints.
type Handler struct {
	svc     *Service
	metrics *monitoring.Metrics
	logger  *zap.SugaredLogger
}

func NewHandler(svc *Service, metrics *monitoring.Metrics, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, metrics: metrics, logger: logger}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginInput
	if err := utilities.DecodeJSON(r, &req); err != nil {
		h.metrics.LoginFailure.WithLabelValues("invalid_payload").Inc()
		utilities.WriteError(w, h.logger, err)
		return
	}
	pair, err := h.svc.Login(r.Context(), req)
	if err != nil {
		h.metrics.LoginFailure.WithLabelValues(loginFailureReason(err)).Inc()
		utilities.WriteError(w, h.logger, err)
		return
	}
	h.metrics.LoginSuccess.Inc()
	utilities.WriteJSON(w, http.StatusOK, pair)
}

func loginFailureReason(err error) string {
	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		return "unknown_user"
	case apperr.KindWrongPassword:
		return "wrong_password"
	case apperr.KindValidation:
		return "invalid_input"
	default:
		return "error"
	}
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterInput
	if err := utilities.DecodeJSON(r, &req); err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	pair, err := h.svc.Register(r.Context(), req)
	if err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	h.metrics.RegisterSuccess.Inc()
	utilities.WriteJSON(w, http.StatusCreated, pair)
}

// Refresh accepts the refresh token either as a bearer header or in the body.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	raw, err := BearerToken(r.Header.Get("Authorization"))
	if err != nil {
		var req RefreshInput
		if derr := utilities.DecodeJSON(r, &req); derr != nil {
			h.logger.Debugw("refresh without token", "err", derr)
			writeTokenError(w, ErrMissingToken)
			return
		}
		raw = req.RefreshToken
	}
	pair, err := h.svc.Refresh(r.Context(), raw)
	switch {
	case errors.Is(err, ErrMissingToken), errors.Is(err, ErrInvalidToken),
		errors.Is(err, ErrExpiredToken), errors.Is(err, ErrWrongTokenType):
		h.logger.Debugw("refresh rejected", "err", err)
		writeTokenError(w, err)
		return
	case err != nil:
		utilities.WriteError(w, h.logger, err)
		return
	}
	utilities.WriteJSON(w, http.StatusOK, pair)
}
