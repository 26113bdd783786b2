package auth

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/ovaphlow/gophertalk/pkg/utilities"
)

// RequireToken rejects requests without a valid bearer token of type t and
// stores the token subject as the request viewer.
func RequireToken(tm *TokenManager, t TokenType, logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := tm.ValidateBearer(r.Header.Get("Authorization"), t)
			if err != nil {
				logger.Debugw("token rejected", "path", r.URL.Path, "err", err)
				writeTokenError(w, err)
				return
			}
			id, _ := SubjectID(claims)
			next.ServeHTTP(w, r.WithContext(WithViewer(r.Context(), id)))
		})
	}
}

func writeTokenError(w http.ResponseWriter, err error) {
	msg := "invalid token"
	switch {
	case errors.Is(err, ErrMissingToken):
		msg = "missing bearer token"
	case errors.Is(err, ErrExpiredToken):
		msg = "token expired"
	case errors.Is(err, ErrWrongTokenType):
		msg = "wrong token type"
	}
	w.Header().Set("WWW-Authenticate", `Bearer realm="gophertalk"`)
	utilities.WriteJSON(w, http.StatusUnauthorized, utilities.ErrorBody{Error: msg, Code: "UNAUTHORIZED"})
}
