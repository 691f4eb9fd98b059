package entities

import "fmt"

// AnswersPerQuestion is the number of options shown for every question.
const AnswersPerQuestion = 4

// Question is a single "key x multiplier" prompt with its answer options.
type Question struct {
	Seq           int   // identifies the question across games, used to reject stale answers
	Number        int   // 1-based position in the running game
	Total         int   // questions planned for the game
	Key           int   // table being drilled
	Multiplier    int   // second operand, 1..9
	Answers       []int // shuffled options, exactly one equals CorrectAnswer
	CorrectAnswer int
}

// Text returns the question as shown to the player.
func (q Question) Text() string {
	return fmt.Sprintf("%d x %d", q.Key, q.Multiplier)
}

// IsCorrect reports whether value answers the question.
func (q Question) IsCorrect(value int) bool {
	return value == q.CorrectAnswer
}

// MarkState is the visual state of one answer option.
type MarkState int

const (
	MarkNeutral MarkState = iota
	MarkCorrect
	MarkIncorrect
)

func (s MarkState) String() string {
	switch s {
	case MarkCorrect:
		return "correct"
	case MarkIncorrect:
		return "incorrect"
	default:
		return "neutral"
	}
}

// AnswerMark pairs an answer value with its visual state.
type AnswerMark struct {
	Value int
	State MarkState
}

// MarkChosen marks only the chosen answer, leaving the others neutral.
func (q Question) MarkChosen(value int) []AnswerMark {
	marks := make([]AnswerMark, 0, len(q.Answers))
	for _, a := range q.Answers {
		m := AnswerMark{Value: a, State: MarkNeutral}
		if a == value {
			if q.IsCorrect(a) {
				m.State = MarkCorrect
			} else {
				m.State = MarkIncorrect
			}
		}
		marks = append(marks, m)
	}
	return marks
}

// MarkAll flags the correct answer as correct and every other answer as incorrect.
func (q Question) MarkAll() []AnswerMark {
	marks := make([]AnswerMark, 0, len(q.Answers))
	for _, a := range q.Answers {
		state := MarkIncorrect
		if q.IsCorrect(a) {
			state = MarkCorrect
		}
		marks = append(marks, AnswerMark{Value: a, State: state})
	}
	return marks
}
