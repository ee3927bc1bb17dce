// file: internal/middleware/swagger.go
package middleware

import (
	"crypto/subtle"
	"net/http"
	"os"

	httpSwagger "github.com/swaggo/http-swagger"
)

// SwaggerConfig controls how the Swagger UI renders the API reference.
type SwaggerConfig struct {
	URL          string
	DeepLinking  bool
	DocExpansion string
}

func DefaultSwaggerConfig() *SwaggerConfig {
	return &SwaggerConfig{
		URL:          "/swagger/doc.json",
		DeepLinking:  true,
		DocExpansion: "list",
	}
}

// SwaggerHandler serves the Swagger UI for the API reference.
func SwaggerHandler(cfg *SwaggerConfig) http.Handler {
	if cfg == nil {
		cfg = DefaultSwaggerConfig()
	}

	return httpSwagger.Handler(
		httpSwagger.URL(cfg.URL),
		httpSwagger.DeepLinking(cfg.DeepLinking),
		httpSwagger.DocExpansion(cfg.DocExpansion),
		httpSwagger.DomID("#swagger-ui"),
	)
}

// SwaggerAuthMiddleware gates the docs behind basic auth in production.
// Outside production, or when SWAGGER_USERNAME/SWAGGER_PASSWORD are unset,
// the UI stays open.
func SwaggerAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if os.Getenv("GO_ENV") != "production" {
			next.ServeHTTP(w, r)
			return
		}

		wantUser := os.Getenv("SWAGGER_USERNAME")
		wantPass := os.Getenv("SWAGGER_PASSWORD")
		if wantUser == "" && wantPass == "" {
			next.ServeHTTP(w, r)
			return
		}

		user, pass, ok := r.BasicAuth()
		if !ok ||
			subtle.ConstantTimeCompare([]byte(user), []byte(wantUser)) != 1 ||
			subtle.ConstantTimeCompare([]byte(pass), []byte(wantPass)) != 1 {
			w.Header().Set("WWW-Authenticate", `Basic realm="API documentation"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}
