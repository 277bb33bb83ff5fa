package handlers

import (
	"fmt"
	"net/http"
	"strings"
)

// Robots serves robots.txt, keeping crawlers out of owner pages
func Robots(baseURL string) http.HandlerFunc {
	body := fmt.Sprintf(`User-agent: *
Disallow: /dashboard/
Disallow: /auth/
Disallow: /login/
Disallow: /signup/
Disallow: /api/

Sitemap: %s/sitemap.xml
`, strings.TrimRight(baseURL, "/"))

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(body))
	}
}
