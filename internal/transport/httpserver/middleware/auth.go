package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"

	"convert-files-go/pkg/logger"
)

// TokenAuth guards the API with a shared bearer token issued to the portal
// web part. An empty token disables the check.
type TokenAuth struct {
	token []byte
	log   logger.Logger
}

func NewTokenAuth(token string, log logger.Logger) *TokenAuth {
	token = strings.TrimSpace(token)
	if token == "" {
		log.Warn("auth: no API token configured, requests are not authenticated")
	}
	return &TokenAuth{token: []byte(token), log: log}
}

func (a *TokenAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(a.token) == 0 {
			next.ServeHTTP(w, r)
			return
		}

		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok || subtle.ConstantTimeCompare([]byte(token), a.token) != 1 {
			a.log.Debug("auth: rejected request", "path", r.URL.Path)
			unauthorized(w)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func bearerToken(value string) (string, bool) {
	parts := strings.Fields(value)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func unauthorized(w http.ResponseWriter) {
	writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
