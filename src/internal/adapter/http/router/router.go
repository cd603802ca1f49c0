package router

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/kook-app/mining-service/src/internal/adapter/http/middleware"
	"github.com/kook-app/mining-service/src/internal/metrics"
)

type RouteRegistrar interface {
	RegisterRoutes(router *mux.Router)
}

// New builds the API router. Swagger and /metrics stay open; every route a
// registrar adds sits behind the rate limiter and then auth.
func New(
	authMiddleware func(http.Handler) http.Handler,
	rateLimiter func(http.Handler) http.Handler,
	registrars ...RouteRegistrar,
) *mux.Router {
	router := mux.NewRouter()
	router.Use(middleware.RequestID, metrics.InstrumentHandler)

	registerSwaggerRoutes(router)
	router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	api := router.PathPrefix("/").Subrouter()
	if rateLimiter != nil {
		api.Use(rateLimiter)
	}
	if authMiddleware != nil {
		api.Use(authMiddleware)
	}

	for _, registrar := range registrars {
		if registrar != nil {
			registrar.RegisterRoutes(api)
		}
	}

	return router
}
