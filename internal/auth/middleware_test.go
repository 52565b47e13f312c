package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireAuth(t *testing.T) {
	jwtSvc := NewJWT("test-secret")
	token, err := jwtSvc.Sign(42)
	require.NoError(t, err)

	var gotID uint64
	var gotOK bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, gotOK = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	handler := RequireAuth(jwtSvc)(next)

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{name: "valid token", authHeader: "Bearer " + token, wantStatus: http.StatusNoContent},
		{name: "no header", authHeader: "", wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", authHeader: "Basic " + token, wantStatus: http.StatusUnauthorized},
		{name: "empty bearer", authHeader: "Bearer ", wantStatus: http.StatusUnauthorized},
		{name: "garbage token", authHeader: "Bearer not.a.token", wantStatus: http.StatusUnauthorized},
		{name: "wrong secret", authHeader: "Bearer " + mustSign(t, "other-secret", 42), wantStatus: http.StatusUnauthorized},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gotID, gotOK = 0, false

			req := httptest.NewRequest(http.MethodGet, "/stats/streak", nil)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
			if tc.wantStatus == http.StatusNoContent {
				assert.True(t, gotOK)
				assert.Equal(t, uint64(42), gotID)
			} else {
				assert.False(t, gotOK, "handler must not run on a rejected request")
			}
		})
	}
}

func mustSign(t *testing.T, secret string, userID uint64) string {
	t.Helper()
	token, err := NewJWT(secret).Sign(userID)
	require.NoError(t, err)
	return token
}

func TestUserIDFromContextWithoutMiddleware(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	_, ok := UserIDFromContext(req.Context())
	assert.False(t, ok)
}
