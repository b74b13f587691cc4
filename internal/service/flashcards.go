package service

import "github.com/aliskhannn/dmv-study-bot/internal/domain/entities"

// FlashcardSession is a deck of cards with a cursor and a flip state.
// A session is owned by a single chat and is not safe for concurrent use.
type FlashcardSession struct {
	pool    []*entities.Question
	rng     Rand
	size    int
	limit   int
	deck    []*entities.Question
	index   int
	flipped bool
}

// NewFlashcardSession builds a shuffled deck of up to size cards.
func NewFlashcardSession(pool []*entities.Question, size, limit int, rng Rand) *FlashcardSession {
	if rng == nil {
		rng = globalRand{}
	}
	s := &FlashcardSession{
		pool:  pool,
		rng:   rng,
		size:  ClampSize(size, 1, limit),
		limit: limit,
	}
	s.NewDeck()
	return s
}

// NewDeck reshuffles the deck keeping its size and resets the cursor.
func (s *FlashcardSession) NewDeck() {
	s.deck = buildDeck(s.rng, s.pool, s.size, s.limit)
	s.index = 0
	s.flipped = false
}

// Current returns the card under the cursor, or nil for an empty deck.
func (s *FlashcardSession) Current() *entities.Question {
	if len(s.deck) == 0 {
		return nil
	}
	return s.deck[s.index]
}

// Flip turns the current card over and reports whether the answer side is up.
func (s *FlashcardSession) Flip() bool {
	s.flipped = !s.flipped
	return s.flipped
}

// Flipped reports whether the answer side is up.
func (s *FlashcardSession) Flipped() bool { return s.flipped }

// Next moves to the following card, wrapping around at the end.
func (s *FlashcardSession) Next() {
	if len(s.deck) == 0 {
		return
	}
	s.flipped = false
	s.index = (s.index + 1) % len(s.deck)
}

// Prev moves to the previous card, wrapping around at the start.
func (s *FlashcardSession) Prev() {
	if len(s.deck) == 0 {
		return
	}
	s.flipped = false
	s.index = (s.index - 1 + len(s.deck)) % len(s.deck)
}

// Position returns the 1-based card number and the deck length.
func (s *FlashcardSession) Position() (int, int) {
	if len(s.deck) == 0 {
		return 0, 0
	}
	return s.index + 1, len(s.deck)
}

// Len returns the deck length.
func (s *FlashcardSession) Len() int { return len(s.deck) }
