package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"

	"github.com/Lixing-Zhang/menuwal/internal/config"
)

type contextKey string

const restaurantIDKey contextKey = "restaurantID"

// OwnerAuth validates the "api_key" header against the configured owner keys
// and puts the key's restaurant ID in the request context.
func OwnerAuth(cfg config.AuthConfig) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			apiKey := r.Header.Get("api_key")

			if apiKey == "" {
				http.Error(w, "Unauthorized: API key required", http.StatusUnauthorized)
				return
			}

			restaurantID := ""
			for key, id := range cfg.OwnerKeys {
				if subtle.ConstantTimeCompare([]byte(apiKey), []byte(key)) == 1 {
					restaurantID = id
					break
				}
			}

			if restaurantID == "" {
				http.Error(w, "Forbidden: Invalid API key", http.StatusForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), restaurantIDKey, restaurantID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RestaurantID returns the restaurant the request was authenticated for
func RestaurantID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(restaurantIDKey).(string)
	return id, ok && id != ""
}
