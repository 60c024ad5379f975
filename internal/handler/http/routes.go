package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)
	router.Use(withGZip)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Post("/api/v1/register", h.register)
		r.Post("/api/v1/token", h.token)
		r.Post("/api/v1/token/refresh", h.refreshToken)
	})

	// routes with authorization
	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Route("/api/v1/preferences", func(r chi.Router) {
			r.Post("/", h.createPreferences)
			// static route wins over the {section} wildcard
			r.Get("/my_preferences", h.getMyPreferences)
			r.Put("/my_preferences", h.updateMyPreferences)
			r.Patch("/my_preferences", h.updateMyPreferences)
			r.Delete("/my_preferences", h.deleteMyPreferences)
			r.Get("/{section}", h.getPreferencesSection)
		})

		r.Put("/api/v1/account/password", h.updatePassword)
		r.Get("/api/v1/version", h.getServerVersion)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
