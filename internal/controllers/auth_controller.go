package controllers

import (
	"crypto/subtle"
	"net/http"

	"github.com/flowmatic/flowmatic/internal/config"
)

// AuthController guards the API routes with a shared key. When no key is
// configured the instance is open, which is the expected mode for local
// development.
type AuthController struct {
	APIKey string
}

func NewAuthController() *AuthController {
	return &AuthController{APIKey: config.GetSystemSettingString(config.ENGINE_API_KEY)}
}

func (c *AuthController) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if c.APIKey == "" {
			next(w, r)
			return
		}
		apiKey := r.Header.Get("X-API-Key")
		if subtle.ConstantTimeCompare([]byte(apiKey), []byte(c.APIKey)) == 1 {
			next(w, r)
			return
		}
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	}
}
