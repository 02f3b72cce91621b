package services

import (
	"math/rand"

	"github.com/bilashs/StudyBuddy-Server/internal/models"
)

// matchBatchSize caps how many terms one match-game board shows at once.
const matchBatchSize = 12

// practiceOptionCount is the number of answer choices per practice question.
const practiceOptionCount = 4

// ShuffleTerms returns a shuffled copy of the terms, leaving the set's stored
// order untouched.
func ShuffleTerms(rng *rand.Rand, terms []models.FlashcardTerm) []models.FlashcardTerm {
	shuffled := make([]models.FlashcardTerm, len(terms))
	copy(shuffled, terms)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled
}

// MatchTile is one face-up tile on the match board. Two tiles share a MatchID
// when they belong to the same term.
type MatchTile struct {
	Text    string `json:"text"`
	MatchID string `json:"match_id"`
}

// NextMatchBatch takes the next batch of unused terms (up to twelve), marks
// them used, and lays out their term and definition tiles shuffled together.
// An empty board means the game is complete.
func NextMatchBatch(rng *rand.Rand, terms []models.FlashcardTerm, used map[string]bool) []MatchTile {
	var batch []models.FlashcardTerm
	for _, term := range terms {
		if used[term.Term] {
			continue
		}
		batch = append(batch, term)
		if len(batch) == matchBatchSize {
			break
		}
	}
	if len(batch) == 0 {
		return nil
	}

	tiles := make([]MatchTile, 0, 2*len(batch))
	for _, card := range batch {
		used[card.Term] = true
		tiles = append(tiles, MatchTile{Text: card.Term, MatchID: card.Term})
		tiles = append(tiles, MatchTile{Text: card.Definition, MatchID: card.Term})
	}
	rng.Shuffle(len(tiles), func(i, j int) {
		tiles[i], tiles[j] = tiles[j], tiles[i]
	})
	return tiles
}

// PracticeQuestion is one multiple-choice question: the term prompt, the
// shuffled options, and the correct definition.
type PracticeQuestion struct {
	Term    string   `json:"term"`
	Options []string `json:"options"`
	Answer  string   `json:"answer"`
}

// BuildPracticeQuestion builds the question for terms[index]: the correct
// definition plus up to three other definitions drawn from the rest of the
// set, shuffled.
func BuildPracticeQuestion(rng *rand.Rand, terms []models.FlashcardTerm, index int) PracticeQuestion {
	correct := terms[index]

	others := make([]string, 0, len(terms)-1)
	for i, term := range terms {
		if i == index {
			continue
		}
		others = append(others, term.Definition)
	}
	rng.Shuffle(len(others), func(i, j int) {
		others[i], others[j] = others[j], others[i]
	})
	if len(others) > practiceOptionCount-1 {
		others = others[:practiceOptionCount-1]
	}

	options := append([]string{correct.Definition}, others...)
	rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	return PracticeQuestion{
		Term:    correct.Term,
		Options: options,
		Answer:  correct.Definition,
	}
}

// BuildPracticeTest shuffles the deck and builds one question per term.
func BuildPracticeTest(rng *rand.Rand, terms []models.FlashcardTerm) []PracticeQuestion {
	deck := ShuffleTerms(rng, terms)
	questions := make([]PracticeQuestion, 0, len(deck))
	for i := range deck {
		questions = append(questions, BuildPracticeQuestion(rng, deck, i))
	}
	return questions
}
