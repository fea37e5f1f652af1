package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func apiKeyRig(key string) http.Handler {
	return APIKey(key)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestAPIKeyDisabledWhenNoKey(t *testing.T) {
	rec := httptest.NewRecorder()
	apiKeyRig("").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAPIKeyRejectsMissingHeader(t *testing.T) {
	rec := httptest.NewRecorder()
	apiKeyRig("secret").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"missing api key"}`, rec.Body.String())
}

func TestAPIKeyRejectsWrongKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(APIKeyHeader, "nope")
	rec := httptest.NewRecorder()
	apiKeyRig("secret").ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAPIKeyAcceptsMatchingKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(APIKeyHeader, "secret")
	rec := httptest.NewRecorder()
	apiKeyRig("secret").ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
