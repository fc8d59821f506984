package agent

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers agent configuration routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/agents", func(r chi.Router) {
		r.Get("/", h.ListAgents)

		r.Route("/{agent_id}", func(r chi.Router) {
			r.Get("/settings", h.GetSettings)
			r.Put("/settings", h.UpdateSettings)

			r.Get("/knowledge-base", h.ListKnowledgeBase)
			r.Post("/knowledge-base", h.AddKnowledgeBaseItem)
			r.Delete("/knowledge-base/{item_id}", h.DeleteKnowledgeBaseItem)

			r.Get("/changes", h.ListChanges)
		})
	})
}
