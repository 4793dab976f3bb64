package calculator

import (
	"github.com/go-chi/chi/v5"

	"go-chi-keypad/internal/session"
)

// RegisterRoutes mounts all calculator endpoints onto the given router
// under the /calculator prefix.
func RegisterRoutes(r chi.Router, sessions *session.Store) {
	h := NewSessionHandlers(sessions)

	r.Route("/calculator", func(r chi.Router) {
		r.Post("/calculate", Calculate)
		r.Post("/reduce", Reduce)
		r.Post("/replay", Replay)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", h.Mount)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.Get)
				r.Delete("/", h.Unmount)
				r.Post("/keys", h.Key)
				r.Post("/press", h.Press)
			})
		})
	})
}
