package service

import (
	"slices"
	"testing"
)

func TestShuffle_Permutation(t *testing.T) {
	inputs := [][]int{
		nil,
		{},
		{7},
		{1, 2},
		{1, 1, 2, 3, 5, 8, 13},
		{4, 4, 4, 4},
	}

	for _, in := range inputs {
		out := Shuffle(in)
		assertPermutation(t, in, out)
	}
}

func TestShuffle_DoesNotMutateInput(t *testing.T) {
	in := []string{"a", "b", "c", "d", "e", "f"}
	orig := slices.Clone(in)

	for i := 0; i < 50; i++ {
		_ = ShuffleWith(newTestRand(uint64(i)), in)
	}

	if !slices.Equal(in, orig) {
		t.Fatalf("input mutated: %v", in)
	}
}

func TestShuffle_ReturnsCopy(t *testing.T) {
	in := []int{1}
	out := Shuffle(in)
	out[0] = 99
	if in[0] != 1 {
		t.Fatal("single element result shares backing array with input")
	}
}

func TestShuffleWith_Uniform(t *testing.T) {
	const trials = 40000
	in := []int{0, 1, 2, 3}
	rng := newTestRand(42)

	var counts [4][4]int
	for i := 0; i < trials; i++ {
		out := ShuffleWith(rng, in)
		for pos, v := range out {
			counts[pos][v]++
		}
	}

	want := trials / len(in)
	tolerance := want / 20
	for pos := range counts {
		for v, got := range counts[pos] {
			if got < want-tolerance || got > want+tolerance {
				t.Errorf("position %d held %d %d times, want %d±%d", pos, v, got, want, tolerance)
			}
		}
	}
}
