package services

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bilashs/StudyBuddy-Server/internal/models"
)

func testTerms(n int) []models.FlashcardTerm {
	terms := make([]models.FlashcardTerm, 0, n)
	for i := 0; i < n; i++ {
		terms = append(terms, models.FlashcardTerm{
			Term:       fmt.Sprintf("term%d", i),
			Definition: fmt.Sprintf("def%d", i),
		})
	}
	return terms
}

func TestShuffleTermsLeavesOriginalUntouched(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	terms := testTerms(20)

	shuffled := ShuffleTerms(rng, terms)

	require.Len(t, shuffled, 20)
	assert.Equal(t, "term0", terms[0].Term)
	assert.ElementsMatch(t, terms, shuffled)
}

func TestNextMatchBatchCapsAtTwelveTerms(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	terms := testTerms(30)
	used := map[string]bool{}

	tiles := NextMatchBatch(rng, terms, used)
	assert.Len(t, tiles, 24)
	assert.Len(t, used, 12)
}

func TestNextMatchBatchPairsShareMatchID(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	terms := testTerms(3)

	tiles := NextMatchBatch(rng, terms, map[string]bool{})
	require.Len(t, tiles, 6)

	counts := map[string]int{}
	for _, tile := range tiles {
		counts[tile.MatchID]++
	}
	require.Len(t, counts, 3)
	for _, c := range counts {
		assert.Equal(t, 2, c)
	}
}

func TestNextMatchBatchExhaustsDeck(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	terms := testTerms(15)
	used := map[string]bool{}

	first := NextMatchBatch(rng, terms, used)
	assert.Len(t, first, 24)

	second := NextMatchBatch(rng, terms, used)
	assert.Len(t, second, 6)

	assert.Nil(t, NextMatchBatch(rng, terms, used))
}

func TestBuildPracticeQuestionOptions(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	terms := testTerms(10)

	q := BuildPracticeQuestion(rng, terms, 3)
	assert.Equal(t, "term3", q.Term)
	assert.Equal(t, "def3", q.Answer)
	assert.Len(t, q.Options, 4)
	assert.Contains(t, q.Options, "def3")
}

func TestBuildPracticeQuestionSmallSet(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	terms := testTerms(2)

	q := BuildPracticeQuestion(rng, terms, 0)
	assert.Len(t, q.Options, 2)
	assert.Contains(t, q.Options, q.Answer)
}

func TestBuildPracticeTestOneQuestionPerTerm(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	terms := testTerms(8)

	questions := BuildPracticeTest(rng, terms)
	require.Len(t, questions, 8)

	prompts := map[string]bool{}
	for _, q := range questions {
		prompts[q.Term] = true
		assert.Contains(t, q.Options, q.Answer)
	}
	assert.Len(t, prompts, 8)
}
