package utilities

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/ovaphlow/gophertalk/pkg/apperr"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindAlreadyExists, apperr.KindAlreadyLiked, apperr.KindAlreadyViewed:
		return http.StatusConflict
	case apperr.KindReplyTargetMissing:
		return http.StatusUnprocessableEntity
	case apperr.KindWrongPassword:
		return http.StatusUnauthorized
	case apperr.KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// WriteError writes err as JSON. Store failures and unknown errors are
// logged with their cause and reported with a generic message.
func WriteError(w http.ResponseWriter, logger *zap.SugaredLogger, err error) {
	var e *apperr.Error
	if !errors.As(err, &e) || e.Kind == apperr.KindStore {
		logger.Errorw("request failed", "err", err)
		WriteJSON(w, http.StatusInternalServerError, ErrorBody{Error: "internal server error", Code: string(apperr.KindStore)})
		return
	}
	logger.Debugw("request rejected", "kind", e.Kind, "err", err)
	WriteJSON(w, StatusFor(e.Kind), ErrorBody{Error: e.Message, Code: string(e.Kind)})
}

// DecodeJSON reads a JSON request body into v, rejecting unknown fields.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return apperr.Validation("body", "invalid payload")
	}
	return nil
}

// QueryInt parses an optional integer query parameter.
func QueryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.Validation(name, "must be an integer")
	}
	return v, nil
}

// OptionalInt64 parses an optional int64 query parameter; absent yields nil.
func OptionalInt64(r *http.Request, name string) (*int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, apperr.Validation(name, "must be an integer")
	}
	return &v, nil
}

// PathInt64 parses a path wildcard registered on a ServeMux pattern.
func PathInt64(r *http.Request, name string) (int64, error) {
	v, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil {
		return 0, apperr.Validation(name, "must be an integer")
	}
	return v, nil
}
