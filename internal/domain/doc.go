// Package domain defines the core entities of the review engine: learners,
// flashcard decks and cards, vocabulary items, and the gamification ledger
// records (study days, XP ledger, XP transactions, badges).
//
// Entities are created through constructors that validate invariants and are
// updated immutably: scheduling and gamification state transitions live in
// the srs and gamify subpackages, which compute new values without mutating
// their inputs.
package domain
