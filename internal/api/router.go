package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/lingueefy/review-engine/internal/api/middleware"
	"github.com/lingueefy/review-engine/internal/api/shared"
)

// requestTimeout bounds every request's handler time.
const requestTimeout = 30 * time.Second

// Handlers bundles the resource handlers the router mounts.
type Handlers struct {
	Auth     *AuthHandler
	Deck     *DeckHandler
	Vocab    *VocabHandler
	Progress *ProgressHandler
}

// NewRouter assembles the HTTP routing tree. Auth endpoints are public;
// everything else requires a bearer token.
func NewRouter(h Handlers, authMW *middleware.AuthMiddleware) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Trace)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(requestTimeout))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Auth.Register)
			r.Post("/login", h.Auth.Login)
			r.Post("/refresh", h.Auth.Refresh)
		})

		r.Group(func(r chi.Router) {
			r.Use(authMW.Authenticate)

			r.Route("/decks", func(r chi.Router) {
				r.Post("/", h.Deck.CreateDeck)
				r.Get("/", h.Deck.ListDecks)
				r.Get("/{deckID}", h.Deck.GetDeck)
				r.Delete("/{deckID}", h.Deck.DeleteDeck)
				r.Post("/{deckID}/cards", h.Deck.CreateCard)
				r.Get("/{deckID}/cards", h.Deck.ListCards)
			})

			r.Route("/cards", func(r chi.Router) {
				r.Delete("/{cardID}", h.Deck.DeleteCard)
				r.Post("/{cardID}/review", h.Deck.SubmitReview)
			})

			r.Route("/reviews", func(r chi.Router) {
				r.Get("/due", h.Deck.DueCards)
				r.Get("/stats", h.Deck.Stats)
			})

			r.Route("/vocab", func(r chi.Router) {
				r.Post("/", h.Vocab.AddWord)
				r.Get("/", h.Vocab.ListWords)
				r.Get("/due", h.Vocab.DueWords)
				r.Get("/stats", h.Vocab.Stats)
				r.Post("/{itemID}/review", h.Vocab.ReviewWord)
				r.Delete("/{itemID}", h.Vocab.DeleteWord)
			})

			r.Route("/progress", func(r chi.Router) {
				r.Get("/", h.Progress.Summary)
				r.Get("/xp", h.Progress.XpHistory)
				r.Get("/leaderboard", h.Progress.Leaderboard)
			})
		})
	})

	return r
}
