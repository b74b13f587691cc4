package service

import "github.com/aliskhannn/dmv-study-bot/internal/domain/entities"

// Deck size caps per study mode.
const (
	MaxFlashcards = 100
	MaxPractice   = 150
)

// ClampSize limits n to [lo, hi]. Non-positive requests fall back to lo.
func ClampSize(n, lo, hi int) int {
	if n <= 0 {
		n = lo
	}
	if n < lo {
		n = lo
	}
	if n > hi {
		n = hi
	}
	return n
}

// BuildDeck returns up to n questions drawn from pool without replacement, in random order.
func BuildDeck(pool []*entities.Question, n, limit int) []*entities.Question {
	return buildDeck(globalRand{}, pool, n, limit)
}

func buildDeck(r Rand, pool []*entities.Question, n, limit int) []*entities.Question {
	n = ClampSize(n, 1, limit)
	deck := ShuffleWith(r, pool)
	if len(deck) > n {
		deck = deck[:n]
	}
	return deck
}
