package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(h.withTraceID, withLogging, withMetrics, middleware.Recoverer)
	if h.requestTimeout > 0 {
		router.Use(middleware.Timeout(h.requestTimeout))
	}

	// promhttp negotiates its own compression
	router.Method("GET", "/metrics", promhttp.Handler())

	router.Group(func(r chi.Router) {
		r.Use(withGZip)

		r.Get("/", h.index)
		r.Post("/users", h.register)
		r.Post("/sessions", h.login)
		r.Post("/reset_password", h.resetPasswordToken)
		r.Put("/reset_password", h.updatePassword)

		// routes with session
		r.Group(func(r chi.Router) {
			r.Use(h.withSession)
			r.Delete("/sessions", h.logout)
			r.Get("/profile", h.profile)
		})
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
