package service

import (
	"math/rand"
	"sync"

	"github.com/aliskhannn/times-tables-bot/internal/domain/entities"
)

// distractorSpan is the width of the range wrong answers are drawn from.
const distractorSpan = 10

// AnswerGenerator generates multiple choice answers for quiz questions.
type AnswerGenerator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewAnswerGenerator creates a new answer generator reading from src.
func NewAnswerGenerator(src rand.Source) *AnswerGenerator {
	return &AnswerGenerator{
		rng: rand.New(src),
	}
}

// GenerateAnswers creates 4 distinct shuffled answers including the correct one.
// Wrong answers are always in [correct+1, correct+10).
func (g *AnswerGenerator) GenerateAnswers(correct int) []int {
	g.mu.Lock()
	defer g.mu.Unlock()

	used := map[int]bool{correct: true}
	answers := make([]int, 0, entities.AnswersPerQuestion)
	answers = append(answers, correct)

	for len(answers) < entities.AnswersPerQuestion {
		candidate := g.randomInRange(correct+1, correct+distractorSpan)
		if used[candidate] {
			continue
		}
		used[candidate] = true
		answers = append(answers, candidate)
	}

	g.rng.Shuffle(len(answers), func(i, j int) {
		answers[i], answers[j] = answers[j], answers[i]
	})

	return answers
}

// randomInRange returns a value in [min, max).
func (g *AnswerGenerator) randomInRange(min, max int) int {
	return min + g.rng.Intn(max-min)
}
