package rest

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/devconnector/internal/logging"
	"github.com/dmitrijs2005/devconnector/internal/server/config"
	"github.com/dmitrijs2005/devconnector/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/devconnector/internal/server/services"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestServer(t *testing.T) *HTTPServer {
	t.Helper()
	rm := repomanager.NewMemoryRepositoryManager()
	cfg := &config.Config{
		SecretKey:                   "k",
		AccessTokenValidityDuration: time.Hour,
		PasswordHashCost:            bcrypt.MinCost,
	}
	return NewHTTPServer(":0", logging.Discard(),
		services.NewUserService(rm, cfg),
		services.NewProfileService(rm),
		services.NewPostService(rm),
	)
}

// call sends a request with an optional JSON body and bearer token.
func call(t *testing.T, s *HTTPServer, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

// signup registers and logs in, returning the "Bearer ..." token.
func signup(t *testing.T, s *HTTPServer, name, email string) string {
	t.Helper()

	rec := call(t, s, http.MethodPost, "/api/users/register", "", map[string]string{
		"name": name, "email": email, "password": "secret123",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = call(t, s, http.MethodPost, "/api/users/login", "", map[string]string{
		"email": email, "password": "secret123",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	res := decode[map[string]any](t, rec)
	token, _ := res["token"].(string)
	require.True(t, strings.HasPrefix(token, "Bearer "))
	return token
}
