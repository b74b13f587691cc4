package service

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/aliskhannn/dmv-study-bot/internal/domain/entities"
)

// distinctAnswers are dissimilar answers of comparable length.
var distinctAnswers = []string{
	"Yield to pedestrians in the crosswalk",
	"Signal at least 100 feet before turning",
	"Pull over to the right and stop",
	"Keep a three second following distance",
	"Turn your headlights on in the rain",
	"Check mirrors and blind spots first",
	"Slow down on wet or icy roads",
	"Never pass a stopped school bus",
	"Dim high beams for oncoming traffic",
	"Use the left lane only for passing",
	"Park within twelve inches of the curb",
	"Wear a seat belt on every trip",
	"Merge smoothly into highway traffic",
	"Stay out of another driver's blind spot",
	"Obey flaggers in work zones",
	"Give bicycles three feet of space",
	"Move over for emergency vehicles",
	"Treat a dark signal as a four way stop",
	"Steer into the skid on slippery pavement",
	"Report any collision to the police",
	"Carry proof of insurance at all times",
	"Avoid using a handheld phone",
	"Look left, right, then left again",
	"Reduce speed near playgrounds",
	"Brake gently before entering a curve",
}

// newTestRand returns a deterministic random source.
func newTestRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// newTestPool creates one question per answer with ids starting at 1.
func newTestPool(answers []string) []*entities.Question {
	pool := make([]*entities.Question, 0, len(answers))
	for i, a := range answers {
		pool = append(pool, &entities.Question{
			ID:          entities.QuestionID(fmt.Sprintf("%d", i+1)),
			Question:    fmt.Sprintf("Question %d?", i+1),
			Answer:      a,
			Explanation: fmt.Sprintf("Explanation %d.", i+1),
		})
	}
	return pool
}

func assertPermutation[T comparable](t *testing.T, in, out []T) {
	t.Helper()

	if len(in) != len(out) {
		t.Fatalf("length changed: %d -> %d", len(in), len(out))
	}
	counts := make(map[T]int, len(in))
	for _, v := range in {
		counts[v]++
	}
	for _, v := range out {
		counts[v]--
	}
	for v, c := range counts {
		if c != 0 {
			t.Errorf("element %v count differs by %d", v, c)
		}
	}
}
