package api

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes wires the public and authenticated route groups
func setupRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	// Public routes
	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)

		r.Post("/register", handlers.authHandler.register())
		r.Post("/login", handlers.authHandler.login())
		r.Post("/logout", handlers.authHandler.logout())
		r.Get("/check-session", handlers.authHandler.checkSession())

		r.Get("/opportunities", handlers.opportunityHandler.getAllOpportunities())
		r.Get("/opportunity/{opportunityID}", handlers.opportunityHandler.getOpportunity())
		r.Get("/opportunity/{opportunityID}/comments", handlers.opportunityHandler.getComments())

		r.Get("/ai/trending", handlers.aiHandler.getTrending())
		r.Get("/ai/insights/{opportunityID}", handlers.aiHandler.getInsights())
	})

	// Authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.authenticate)
		r.Use(ColoredHTTPLoggingMiddleware)

		r.Get("/me", handlers.authHandler.getCurrentUser())

		r.Post("/opportunity", handlers.opportunityHandler.createOpportunity())
		r.Put("/opportunity/{opportunityID}", handlers.opportunityHandler.updateOpportunity())
		r.Delete("/opportunity/{opportunityID}", handlers.opportunityHandler.deleteOpportunity())
		r.Post("/opportunity/{opportunityID}/vote", handlers.opportunityHandler.voteOnOpportunity())
		r.Post("/opportunity/{opportunityID}/comment", handlers.opportunityHandler.commentOnOpportunity())
		r.Post("/opportunity/{opportunityID}/nda", handlers.opportunityHandler.acceptNDA())

		r.Get("/ai/recommendations", handlers.aiHandler.getRecommendations())
	})
}
