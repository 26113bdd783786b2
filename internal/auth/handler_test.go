package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ovaphlow/gophertalk/internal/monitoring"
)

func TestHandlerRefresh(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestService(t)
	pair, err := svc.Register(context.Background(), register("refresher"))
	require.NoError(t, err)
	h := NewHandler(svc, monitoring.New(prometheus.NewRegistry()), zap.NewNop().Sugar())

	tests := []struct {
		name   string
		header string
		body   string
		status int
	}{
		{"Bearer Refresh Token", "Bearer " + pair.RefreshToken, "", http.StatusOK},
		{"Body Refresh Token", "", `{"refresh_token":"` + pair.RefreshToken + `"}`, http.StatusOK},
		{"No Header Empty Body", "", "", http.StatusUnauthorized},
		{"No Header Garbage Body", "", "not json", http.StatusUnauthorized},
		{"Empty Token In Body", "", `{"refresh_token":""}`, http.StatusUnauthorized},
		{"Access Token", "Bearer " + pair.AccessToken, "", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", strings.NewReader(tt.body))
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.Refresh(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusUnauthorized {
				assert.NotEmpty(t, rec.Header().Get("WWW-Authenticate"))
			}
		})
	}
}
