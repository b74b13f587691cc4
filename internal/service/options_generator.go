package service

import (
	"strings"

	"github.com/aliskhannn/dmv-study-bot/internal/domain/entities"
)

// DefaultChoiceCount is the number of options in a practice question.
const DefaultChoiceCount = 4

const (
	defaultMaxSimilarity  = 0.75
	defaultMinLengthRatio = 0.25
	defaultMaxAttempts    = 800
	defaultMinPreferred   = 20
)

// ChoiceConfig holds the distractor heuristics.
type ChoiceConfig struct {
	MaxSimilarity  float64 // reject distractors whose token Jaccard to the correct answer is above this
	MinLengthRatio float64 // reject distractors much shorter or longer than the correct answer
	MaxAttempts    int     // random draws before falling back to relaxed rules
	MinPreferred   int     // same-shape candidates needed before the pool is narrowed to them
}

// DefaultChoiceConfig returns the standard heuristics.
func DefaultChoiceConfig() ChoiceConfig {
	return ChoiceConfig{
		MaxSimilarity:  defaultMaxSimilarity,
		MinLengthRatio: defaultMinLengthRatio,
		MaxAttempts:    defaultMaxAttempts,
		MinPreferred:   defaultMinPreferred,
	}
}

// ChoiceObserver is notified about every generated choice set.
type ChoiceObserver interface {
	ObserveChoices(requested, returned int, usedFallback bool)
}

// ChoiceGenerator generates multiple choice options for practice questions.
// It is safe for concurrent use as long as its Rand is.
type ChoiceGenerator struct {
	pool     []*entities.Question
	cfg      ChoiceConfig
	rng      Rand
	observer ChoiceObserver
}

// ChoiceOption customizes a ChoiceGenerator.
type ChoiceOption func(*ChoiceGenerator)

// WithRand sets the random source.
func WithRand(r Rand) ChoiceOption {
	return func(g *ChoiceGenerator) { g.rng = r }
}

// WithChoiceConfig overrides the heuristics.
func WithChoiceConfig(cfg ChoiceConfig) ChoiceOption {
	return func(g *ChoiceGenerator) { g.cfg = cfg }
}

// WithObserver attaches an observer.
func WithObserver(o ChoiceObserver) ChoiceOption {
	return func(g *ChoiceGenerator) { g.observer = o }
}

// NewChoiceGenerator creates a new choice generator over the question pool.
func NewChoiceGenerator(pool []*entities.Question, opts ...ChoiceOption) *ChoiceGenerator {
	g := &ChoiceGenerator{
		pool: pool,
		cfg:  DefaultChoiceConfig(),
		rng:  globalRand{},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// MakeChoices returns k options for target using the default heuristics.
func MakeChoices(pool []*entities.Question, target *entities.Question, k int) []string {
	return NewChoiceGenerator(pool).MakeChoices(target, k)
}

// MakeChoices returns up to k options in random order: the trimmed correct answer
// plus k-1 distractors taken from the answers of other questions.
// A pool without enough distinct answers yields fewer than k options.
func (g *ChoiceGenerator) MakeChoices(target *entities.Question, k int) []string {
	if target == nil {
		return nil
	}
	if k < 2 {
		k = 2
	}

	correct := strings.TrimSpace(target.Answer)
	want := k - 1

	pool := g.distractorPool(target.ID, normalize(correct))
	candidates := pool
	if hasNumber(correct) {
		preferred := make([]string, 0, len(pool))
		for _, a := range pool {
			if hasNumber(a) {
				preferred = append(preferred, a)
			}
		}
		if len(preferred) >= g.cfg.MinPreferred {
			candidates = preferred
		}
	}

	picked := make([]string, 0, want)
	seen := make(map[string]struct{}, want)

	for attempts := 0; len(picked) < want && attempts < g.cfg.MaxAttempts && len(candidates) > 0; attempts++ {
		a := candidates[g.rng.IntN(len(candidates))]
		key := normalize(a)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		if tokenJaccard(a, correct) > g.cfg.MaxSimilarity {
			continue
		}
		if lengthRatio(a, correct) < g.cfg.MinLengthRatio {
			continue
		}
		seen[key] = struct{}{}
		picked = append(picked, a)
	}

	usedFallback := false
	if len(picked) < want {
		usedFallback = true
		// A random permutation scanned in order picks each unseen answer with the same
		// odds as repeated draws, and stops once the pool is exhausted.
		for _, a := range ShuffleWith(g.rng, pool) {
			if len(picked) >= want {
				break
			}
			key := normalize(a)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			picked = append(picked, a)
		}
	}

	options := make([]string, 0, 1+len(picked))
	options = append(options, correct)
	options = append(options, picked...)
	options = ShuffleWith(g.rng, options)
	if len(options) > k {
		options = options[:k]
	}

	if g.observer != nil {
		g.observer.ObserveChoices(k, len(options), usedFallback)
	}

	return options
}

// distractorPool returns trimmed, non-empty answers of every other question
// that differ from the correct answer after normalization.
func (g *ChoiceGenerator) distractorPool(targetID entities.QuestionID, correctKey string) []string {
	pool := make([]string, 0, len(g.pool))
	for _, q := range g.pool {
		if q == nil || q.ID == targetID {
			continue
		}
		a := strings.TrimSpace(q.Answer)
		if a == "" || normalize(a) == correctKey {
			continue
		}
		pool = append(pool, a)
	}
	return pool
}

// CorrectIndex returns the position of correct within options, or -1.
func CorrectIndex(options []string, correct string) int {
	key := normalize(correct)
	for i, opt := range options {
		if normalize(opt) == key {
			return i
		}
	}
	return -1
}
