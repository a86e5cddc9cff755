package middleware

import (
	"net/http"
	"strings"

	"github.com/go-chi/cors"
)

// CORS admits the configured dashboard origins with credentials so the
// session cookie travels on cross-origin calls. The wildcard is never
// honoured and an empty list admits nothing.
func CORS(origins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o == "" || o == "*" {
			continue
		}
		allowed[o] = struct{}{}
	}

	return cors.Handler(cors.Options{
		AllowOriginFunc: func(r *http.Request, origin string) bool {
			_, ok := allowed[origin]
			return ok
		},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", TraceHeader},
		ExposedHeaders:   []string{TraceHeader},
		AllowCredentials: true,
		MaxAge:           600,
	})
}
