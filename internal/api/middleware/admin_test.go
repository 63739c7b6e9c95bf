package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gradaid/gradaid-api/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireAdmin(t *testing.T) {
	const token = "internal-admin-token-for-tests"
	hash, err := auth.HashAdminToken(token)
	require.NoError(t, err)
	verifier, err := auth.NewAdminVerifier(hash)
	require.NoError(t, err)

	handler := RequireAdmin(verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "valid token", header: token, want: http.StatusNoContent},
		{name: "missing token", header: "", want: http.StatusUnauthorized},
		{name: "wrong token", header: "definitely-not-the-token", want: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/internal/users", nil)
			if tt.header != "" {
				req.Header.Set(AdminTokenHeader, tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
