package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/linnemanlabs/go-core/httpmw"
	"github.com/linnemanlabs/go-core/log"

	"github.com/linnemanlabs/caduceus/internal/authmw"
	"github.com/linnemanlabs/caduceus/internal/clinicalapi"
	"github.com/linnemanlabs/caduceus/internal/postgres"
)

const maxBodyBytes = 64 * 1024

// newRouter builds the chi router for the main listener. Health endpoints
// are open; everything under /api requires the bearer token.
func newRouter(api *clinicalapi.API, token string, healthz, readyz http.HandlerFunc, L log.Logger) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Compress(5, "application/json"))
	r.Use(httpmw.AnnotateHTTPRoute)

	// HTTP method labels the per-query DB histogram
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(postgres.WithHTTPMethod(req.Context(), req.Method)))
		})
	})

	r.Use(httpmw.AccessLog())
	r.Use(httpmw.MaxBody(maxBodyBytes))

	r.Get("/-/healthy", healthz)
	r.Get("/-/ready", readyz)

	r.Group(func(r chi.Router) {
		r.Use(authmw.BearerToken(token, L))
		api.RegisterRoutes(r)
	})

	return r
}
