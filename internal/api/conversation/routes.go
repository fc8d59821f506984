package conversation

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers conversation browsing and analytics routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/conversations", func(r chi.Router) {
		r.Get("/", h.ListConversations)
		r.Get("/{conversation_id}", h.GetConversation)
		r.Get("/{conversation_id}/audio", h.GetConversationAudio)
		r.Get("/{conversation_id}/export", h.ExportTranscript)
	})

	r.Get("/analytics", h.GetAnalytics)
}
