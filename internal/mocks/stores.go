package mocks

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lingueefy/review-engine/internal/domain"
	"github.com/lingueefy/review-engine/internal/domain/gamify"
	"github.com/lingueefy/review-engine/internal/store"
)

// masteredIntervalDays mirrors the store's mastered-card cutoff.
const masteredIntervalDays = 21

// flashData is the shared state behind the deck and card stores, so
// cross-entity operations (cascade delete, card counts) stay consistent.
type flashData struct {
	mu    sync.Mutex
	decks map[uuid.UUID]*domain.Deck
	cards map[uuid.UUID]*domain.Card
}

// MemoryDeckStore is an in-memory store.DeckStore.
type MemoryDeckStore struct {
	d *flashData

	// FailWith, when set, is returned by every operation.
	FailWith error
}

// MemoryCardStore is an in-memory store.CardStore.
type MemoryCardStore struct {
	d *flashData

	// FailWith, when set, is returned by every operation.
	FailWith error
}

var (
	_ store.DeckStore = (*MemoryDeckStore)(nil)
	_ store.CardStore = (*MemoryCardStore)(nil)
)

// NewMemoryFlashcardStores creates a deck store and card store sharing one
// in-memory dataset.
func NewMemoryFlashcardStores() (*MemoryDeckStore, *MemoryCardStore) {
	d := &flashData{
		decks: make(map[uuid.UUID]*domain.Deck),
		cards: make(map[uuid.UUID]*domain.Card),
	}
	return &MemoryDeckStore{d: d}, &MemoryCardStore{d: d}
}

func (s *MemoryDeckStore) WithTx(*sql.Tx) store.DeckStore { return s }

func (s *MemoryDeckStore) Create(_ context.Context, deck *domain.Deck) error {
	if s.FailWith != nil {
		return s.FailWith
	}
	if err := deck.Validate(); err != nil {
		return err
	}
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	cp := *deck
	s.d.decks[deck.ID] = &cp
	return nil
}

func (s *MemoryDeckStore) GetForLearner(_ context.Context, learnerID, deckID uuid.UUID) (*domain.Deck, error) {
	if s.FailWith != nil {
		return nil, s.FailWith
	}
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	deck, ok := s.d.decks[deckID]
	if !ok || deck.LearnerID != learnerID {
		return nil, store.ErrDeckNotFound
	}
	cp := *deck
	return &cp, nil
}

func (s *MemoryDeckStore) ListByLearner(_ context.Context, learnerID uuid.UUID) ([]*domain.Deck, error) {
	if s.FailWith != nil {
		return nil, s.FailWith
	}
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	out := make([]*domain.Deck, 0)
	for _, deck := range s.d.decks {
		if deck.LearnerID == learnerID {
			cp := *deck
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (s *MemoryDeckStore) Delete(_ context.Context, deckID uuid.UUID) error {
	if s.FailWith != nil {
		return s.FailWith
	}
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	if _, ok := s.d.decks[deckID]; !ok {
		return store.ErrDeckNotFound
	}
	delete(s.d.decks, deckID)
	for id, card := range s.d.cards {
		if card.DeckID == deckID {
			delete(s.d.cards, id)
		}
	}
	return nil
}

func (s *MemoryDeckStore) RefreshCardCount(_ context.Context, deckID uuid.UUID) error {
	if s.FailWith != nil {
		return s.FailWith
	}
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	deck, ok := s.d.decks[deckID]
	if !ok {
		return store.ErrDeckNotFound
	}
	count := 0
	for _, card := range s.d.cards {
		if card.DeckID == deckID {
			count++
		}
	}
	deck.CardCount = count
	return nil
}

func (s *MemoryDeckStore) Stats(_ context.Context, learnerID uuid.UUID, dueBefore time.Time) (*store.FlashcardStats, error) {
	if s.FailWith != nil {
		return nil, s.FailWith
	}
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	stats := &store.FlashcardStats{}
	owned := make(map[uuid.UUID]bool)
	for id, deck := range s.d.decks {
		if deck.LearnerID == learnerID {
			stats.TotalDecks++
			owned[id] = true
		}
	}
	for _, card := range s.d.cards {
		if !owned[card.DeckID] {
			continue
		}
		stats.TotalCards++
		if !card.Schedule.NextReviewAt.After(dueBefore) {
			stats.DueCards++
		}
		if card.Schedule.IntervalDays >= masteredIntervalDays {
			stats.Mastered++
		}
	}
	return stats, nil
}

func (s *MemoryDeckStore) MasteryByDeck(_ context.Context, learnerID uuid.UUID) ([]store.DeckMastery, error) {
	if s.FailWith != nil {
		return nil, s.FailWith
	}
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	out := make([]store.DeckMastery, 0)
	for id, deck := range s.d.decks {
		if deck.LearnerID != learnerID {
			continue
		}
		total, mastered := 0, 0
		for _, card := range s.d.cards {
			if card.DeckID != id {
				continue
			}
			total++
			if card.Schedule.IntervalDays >= masteredIntervalDays {
				mastered++
			}
		}
		pct := 0
		if total > 0 {
			pct = (mastered*100 + total/2) / total
		}
		out = append(out, store.DeckMastery{DeckID: id, Title: deck.Title, Mastery: pct})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (s *MemoryCardStore) WithTx(*sql.Tx) store.CardStore { return s }

func (s *MemoryCardStore) Create(_ context.Context, card *domain.Card) error {
	if s.FailWith != nil {
		return s.FailWith
	}
	if err := card.Validate(); err != nil {
		return err
	}
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	cp := *card
	s.d.cards[card.ID] = &cp
	return nil
}

func (s *MemoryCardStore) GetForLearner(_ context.Context, learnerID, cardID uuid.UUID) (*domain.Card, error) {
	if s.FailWith != nil {
		return nil, s.FailWith
	}
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	card, ok := s.d.cards[cardID]
	if !ok {
		return nil, store.ErrCardNotFound
	}
	deck, ok := s.d.decks[card.DeckID]
	if !ok || deck.LearnerID != learnerID {
		return nil, store.ErrCardNotFound
	}
	cp := *card
	return &cp, nil
}

func (s *MemoryCardStore) ListByDeck(_ context.Context, deckID uuid.UUID) ([]*domain.Card, error) {
	if s.FailWith != nil {
		return nil, s.FailWith
	}
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	out := make([]*domain.Card, 0)
	for _, card := range s.d.cards {
		if card.DeckID == deckID {
			cp := *card
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryCardStore) ListDue(
	_ context.Context,
	learnerID uuid.UUID,
	deckID *uuid.UUID,
	dueBefore time.Time,
	limit int,
) ([]*domain.Card, error) {
	if s.FailWith != nil {
		return nil, s.FailWith
	}
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	out := make([]*domain.Card, 0)
	for _, card := range s.d.cards {
		deck, ok := s.d.decks[card.DeckID]
		if !ok || deck.LearnerID != learnerID {
			continue
		}
		if deckID != nil && card.DeckID != *deckID {
			continue
		}
		if card.Schedule.NextReviewAt.After(dueBefore) {
			continue
		}
		cp := *card
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Schedule.NextReviewAt, out[j].Schedule.NextReviewAt
		if a.Equal(b) {
			return strings.Compare(out[i].ID.String(), out[j].ID.String()) < 0
		}
		return a.Before(b)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryCardStore) UpdateSchedule(_ context.Context, cardID uuid.UUID, sched domain.Schedule) error {
	if s.FailWith != nil {
		return s.FailWith
	}
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	card, ok := s.d.cards[cardID]
	if !ok {
		return store.ErrCardNotFound
	}
	card.Schedule = sched
	return nil
}

func (s *MemoryCardStore) Delete(_ context.Context, cardID uuid.UUID) error {
	if s.FailWith != nil {
		return s.FailWith
	}
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	if _, ok := s.d.cards[cardID]; !ok {
		return store.ErrCardNotFound
	}
	delete(s.d.cards, cardID)
	return nil
}

// MemoryVocabStore is an in-memory store.VocabStore.
type MemoryVocabStore struct {
	mu    sync.Mutex
	items map[uuid.UUID]*domain.VocabItem

	// FailWith, when set, is returned by every operation.
	FailWith error
}

var _ store.VocabStore = (*MemoryVocabStore)(nil)

// NewMemoryVocabStore creates an empty vocabulary store.
func NewMemoryVocabStore() *MemoryVocabStore {
	return &MemoryVocabStore{items: make(map[uuid.UUID]*domain.VocabItem)}
}

func (s *MemoryVocabStore) WithTx(*sql.Tx) store.VocabStore { return s }

func (s *MemoryVocabStore) Create(_ context.Context, item *domain.VocabItem) error {
	if s.FailWith != nil {
		return s.FailWith
	}
	if err := item.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *item
	s.items[item.ID] = &cp
	return nil
}

func (s *MemoryVocabStore) GetForLearner(_ context.Context, learnerID, itemID uuid.UUID) (*domain.VocabItem, error) {
	if s.FailWith != nil {
		return nil, s.FailWith
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[itemID]
	if !ok || item.LearnerID != learnerID {
		return nil, store.ErrVocabItemNotFound
	}
	cp := *item
	return &cp, nil
}

func (s *MemoryVocabStore) ListByLearner(_ context.Context, learnerID uuid.UUID) ([]*domain.VocabItem, error) {
	if s.FailWith != nil {
		return nil, s.FailWith
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.VocabItem, 0)
	for _, item := range s.items {
		if item.LearnerID == learnerID {
			cp := *item
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryVocabStore) ListDue(
	_ context.Context,
	learnerID uuid.UUID,
	dueBefore time.Time,
	limit int,
) ([]*domain.VocabItem, error) {
	if s.FailWith != nil {
		return nil, s.FailWith
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.VocabItem, 0)
	for _, item := range s.items {
		if item.LearnerID != learnerID || item.NextReviewAt.After(dueBefore) {
			continue
		}
		cp := *item
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].NextReviewAt, out[j].NextReviewAt
		if a.Equal(b) {
			return strings.Compare(out[i].ID.String(), out[j].ID.String()) < 0
		}
		return a.Before(b)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryVocabStore) UpdateReview(_ context.Context, item *domain.VocabItem) error {
	if s.FailWith != nil {
		return s.FailWith
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[item.ID]; !ok {
		return store.ErrVocabItemNotFound
	}
	cp := *item
	s.items[item.ID] = &cp
	return nil
}

func (s *MemoryVocabStore) Delete(_ context.Context, learnerID, itemID uuid.UUID) (bool, error) {
	if s.FailWith != nil {
		return false, s.FailWith
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[itemID]
	if !ok || item.LearnerID != learnerID {
		return false, nil
	}
	delete(s.items, itemID)
	return true, nil
}

func (s *MemoryVocabStore) Stats(_ context.Context, learnerID uuid.UUID, dueBefore time.Time) (*store.VocabStats, error) {
	if s.FailWith != nil {
		return nil, s.FailWith
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := &store.VocabStats{}
	masterySum := 0
	for _, item := range s.items {
		if item.LearnerID != learnerID {
			continue
		}
		stats.TotalWords++
		masterySum += item.Mastery
		if item.Mastery >= domain.MasteredThreshold {
			stats.Mastered++
		}
		if !item.NextReviewAt.After(dueBefore) {
			stats.DueForReview++
		}
	}
	if stats.TotalWords > 0 {
		stats.AverageMastery = (masterySum + stats.TotalWords/2) / stats.TotalWords
	}
	return stats, nil
}

// MemoryLearnerStore is an in-memory store.LearnerStore.
type MemoryLearnerStore struct {
	mu       sync.Mutex
	learners map[uuid.UUID]*domain.Learner
}

var _ store.LearnerStore = (*MemoryLearnerStore)(nil)

// NewMemoryLearnerStore creates an empty learner store.
func NewMemoryLearnerStore() *MemoryLearnerStore {
	return &MemoryLearnerStore{learners: make(map[uuid.UUID]*domain.Learner)}
}

func (s *MemoryLearnerStore) Create(_ context.Context, learner *domain.Learner) error {
	if err := learner.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.learners {
		if existing.Email == learner.Email {
			return store.ErrEmailExists
		}
	}
	cp := *learner
	s.learners[learner.ID] = &cp
	return nil
}

func (s *MemoryLearnerStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Learner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	learner, ok := s.learners[id]
	if !ok {
		return nil, store.ErrLearnerNotFound
	}
	cp := *learner
	return &cp, nil
}

func (s *MemoryLearnerStore) GetByEmail(_ context.Context, email string) (*domain.Learner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, learner := range s.learners {
		if learner.Email == email {
			cp := *learner
			return &cp, nil
		}
	}
	return nil, store.ErrLearnerNotFound
}

// MemoryProgressStore is an in-memory store.ProgressStore. DisplayNames maps
// learner IDs to names for Leaderboard.
type MemoryProgressStore struct {
	mu           sync.Mutex
	studyDays    map[string]*domain.StudyDay
	ledgers      map[uuid.UUID]*domain.XpLedger
	transactions []*domain.XpTransaction
	badges       map[string]*domain.Badge
	DisplayNames map[uuid.UUID]string

	// FailWith, when set, is returned by every operation.
	FailWith error
}

var _ store.ProgressStore = (*MemoryProgressStore)(nil)

// NewMemoryProgressStore creates an empty progress store.
func NewMemoryProgressStore() *MemoryProgressStore {
	return &MemoryProgressStore{
		studyDays:    make(map[string]*domain.StudyDay),
		ledgers:      make(map[uuid.UUID]*domain.XpLedger),
		badges:       make(map[string]*domain.Badge),
		DisplayNames: make(map[uuid.UUID]string),
	}
}

func (s *MemoryProgressStore) WithTx(*sql.Tx) store.ProgressStore { return s }

func dayKey(learnerID uuid.UUID, date time.Time) string {
	return learnerID.String() + "/" + date.UTC().Format("2006-01-02")
}

func (s *MemoryProgressStore) UpsertStudyDay(_ context.Context, day *domain.StudyDay) error {
	if s.FailWith != nil {
		return s.FailWith
	}
	if err := day.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := dayKey(day.LearnerID, day.StudyDate)
	if existing, ok := s.studyDays[key]; ok {
		existing.ItemsReviewed += day.ItemsReviewed
		existing.CorrectCount += day.CorrectCount
		existing.DurationSeconds += day.DurationSeconds
		return nil
	}
	cp := *day
	s.studyDays[key] = &cp
	return nil
}

func (s *MemoryProgressStore) RecentStudyDays(_ context.Context, learnerID uuid.UUID, limit int) ([]*domain.StudyDay, error) {
	if s.FailWith != nil {
		return nil, s.FailWith
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.StudyDay, 0)
	for _, day := range s.studyDays {
		if day.LearnerID == learnerID {
			cp := *day
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StudyDate.After(out[j].StudyDate) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryProgressStore) GetLedgerForUpdate(ctx context.Context, learnerID uuid.UUID) (*domain.XpLedger, error) {
	return s.GetLedger(ctx, learnerID)
}

func (s *MemoryProgressStore) GetLedger(_ context.Context, learnerID uuid.UUID) (*domain.XpLedger, error) {
	if s.FailWith != nil {
		return nil, s.FailWith
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ledger, ok := s.ledgers[learnerID]
	if !ok {
		return nil, store.ErrLedgerNotFound
	}
	cp := *ledger
	return &cp, nil
}

func (s *MemoryProgressStore) CreateLedger(_ context.Context, ledger *domain.XpLedger) error {
	if s.FailWith != nil {
		return s.FailWith
	}
	if err := ledger.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ledgers[ledger.LearnerID]; ok {
		return store.ErrDuplicate
	}
	cp := *ledger
	s.ledgers[ledger.LearnerID] = &cp
	return nil
}

func (s *MemoryProgressStore) UpdateLedger(_ context.Context, ledger *domain.XpLedger) error {
	if s.FailWith != nil {
		return s.FailWith
	}
	if err := ledger.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ledgers[ledger.LearnerID]; !ok {
		return store.ErrLedgerNotFound
	}
	cp := *ledger
	s.ledgers[ledger.LearnerID] = &cp
	return nil
}

func (s *MemoryProgressStore) InsertTransaction(_ context.Context, txn *domain.XpTransaction) error {
	if s.FailWith != nil {
		return s.FailWith
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *txn
	s.transactions = append(s.transactions, &cp)
	return nil
}

func (s *MemoryProgressStore) ListTransactions(_ context.Context, learnerID uuid.UUID, limit, offset int) ([]*domain.XpTransaction, error) {
	if s.FailWith != nil {
		return nil, s.FailWith
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.XpTransaction, 0)
	for _, txn := range s.transactions {
		if txn.LearnerID == learnerID {
			cp := *txn
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if offset >= len(out) {
		return []*domain.XpTransaction{}, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryProgressStore) SumTransactions(_ context.Context, learnerID uuid.UUID) (int, error) {
	if s.FailWith != nil {
		return 0, s.FailWith
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sum := 0
	for _, txn := range s.transactions {
		if txn.LearnerID == learnerID {
			sum += txn.Amount
		}
	}
	return sum, nil
}

func (s *MemoryProgressStore) InsertBadgeIfAbsent(_ context.Context, badge *domain.Badge) (bool, error) {
	if s.FailWith != nil {
		return false, s.FailWith
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := badge.LearnerID.String() + "/" + badge.BadgeType
	if _, ok := s.badges[key]; ok {
		return false, nil
	}
	cp := *badge
	s.badges[key] = &cp
	return true, nil
}

func (s *MemoryProgressStore) ListBadges(_ context.Context, learnerID uuid.UUID) ([]*domain.Badge, error) {
	if s.FailWith != nil {
		return nil, s.FailWith
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.Badge, 0)
	for _, badge := range s.badges {
		if badge.LearnerID == learnerID {
			cp := *badge
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AwardedAt.After(out[j].AwardedAt) })
	return out, nil
}

func (s *MemoryProgressStore) Leaderboard(_ context.Context, limit int) ([]store.LeaderboardEntry, error) {
	if s.FailWith != nil {
		return nil, s.FailWith
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ledgers := make([]*domain.XpLedger, 0, len(s.ledgers))
	for _, ledger := range s.ledgers {
		ledgers = append(ledgers, ledger)
	}
	sort.Slice(ledgers, func(i, j int) bool { return ledgers[i].TotalXp > ledgers[j].TotalXp })
	if len(ledgers) > limit {
		ledgers = ledgers[:limit]
	}
	out := make([]store.LeaderboardEntry, 0, len(ledgers))
	for i, ledger := range ledgers {
		out = append(out, store.LeaderboardEntry{
			Rank:        i + 1,
			LearnerID:   ledger.LearnerID,
			DisplayName: s.DisplayNames[ledger.LearnerID],
			TotalXp:     ledger.TotalXp,
			Level:       gamify.LevelForXp(ledger.TotalXp).Level,
			StreakDays:  ledger.CurrentStreakDays,
		})
	}
	return out, nil
}
