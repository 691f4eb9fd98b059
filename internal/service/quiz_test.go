package service

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aliskhannn/times-tables-bot/internal/domain/entities"
)

const testChatID int64 = 42

type quizFixture struct {
	game     *QuizController
	sched    *fakeScheduler
	renderer *fakeRenderer
	recorder *fakeRecorder
	observer *fakeObserver
}

func newQuizFixture(t *testing.T) *quizFixture {
	t.Helper()

	f := &quizFixture{
		sched:    &fakeScheduler{},
		renderer: &fakeRenderer{},
		recorder: &fakeRecorder{},
		observer: newFakeObserver(),
	}
	f.game = NewQuizController(
		testChatID,
		DefaultQuizConfig(),
		f.renderer,
		f.sched,
		NewAnswerGenerator(rand.NewSource(1)),
		zap.NewNop(),
	)
	f.game.SetRecorder(f.recorder)
	f.game.SetObserver(f.observer)
	return f
}

// answer submits value for the current question and lets the feedback delay pass.
func (f *quizFixture) answer(value int) {
	f.game.OnSubmitAnswer(value)
	f.sched.Flush()
}

func (f *quizFixture) answerCorrectly() {
	f.answer(f.renderer.lastQuestion().CorrectAnswer)
}

func (f *quizFixture) answerWrong() {
	f.answer(f.renderer.lastQuestion().CorrectAnswer + 1)
}

func TestQuizController_Toggle(t *testing.T) {
	f := newQuizFixture(t)

	assert.True(t, f.game.IsEmpty())

	f.game.OnToggle(3)
	assert.False(t, f.game.IsEmpty())
	assert.True(t, f.renderer.lastStartEnabled())
	assert.Equal(t, []int{3}, f.game.Selected())

	f.game.OnToggle(7)
	assert.Equal(t, []int{3, 7}, f.game.Selected())

	f.game.OnToggle(3)
	f.game.OnToggle(7)
	assert.True(t, f.game.IsEmpty())
	assert.False(t, f.renderer.lastStartEnabled())
}

func TestQuizController_StartRequiresSelection(t *testing.T) {
	f := newQuizFixture(t)

	f.game.OnStart()

	assert.False(t, f.game.IsRunning())
	assert.Empty(t, f.renderer.questions)
	assert.Equal(t, 0, f.sched.Running())
}

func TestQuizController_PerfectSingleTable(t *testing.T) {
	f := newQuizFixture(t)

	f.game.OnToggle(3)
	f.game.OnStart()
	require.True(t, f.game.IsRunning())

	for m := 1; m <= 9; m++ {
		q := f.renderer.lastQuestion()
		require.Equal(t, fmt.Sprintf("3 x %d", m), q.Text())
		require.Equal(t, m, q.Number)
		require.Equal(t, 9, q.Total)

		f.game.OnSubmitAnswer(q.CorrectAnswer)
		if m < 9 {
			assert.Equal(t, m, f.game.Score())
		}
		f.sched.Flush()
	}

	require.Len(t, f.renderer.questions, 9)
	require.Len(t, f.renderer.summaries, 1)

	summary := f.renderer.summaries[0]
	assert.Equal(t, "9/9 correct(s)", summary.CorrectText())
	assert.Equal(t, "100%", summary.PercentageText())

	assert.False(t, f.game.IsRunning())
	assert.True(t, f.game.IsEmpty(), "selection is cleared after a game")
	assert.Equal(t, 0, f.sched.Running())
	assert.Equal(t, 0, f.sched.Pending())
	assert.Equal(t, 1, f.observer.finished)
	assert.Equal(t, 9, f.observer.outcomes[OutcomeCorrect])
}

func TestQuizController_TwoTablesHalfCorrect(t *testing.T) {
	f := newQuizFixture(t)

	f.game.OnToggle(5)
	f.game.OnToggle(2)
	f.game.OnStart()

	for i := 0; i < 18; i++ {
		q := f.renderer.lastQuestion()
		if i < 9 {
			require.Equal(t, 2, q.Key)
			f.answerCorrectly()
		} else {
			require.Equal(t, 5, q.Key)
			f.answerWrong()
		}
		require.Equal(t, i%9+1, q.Multiplier)
	}

	require.Len(t, f.renderer.questions, 18)
	require.Len(t, f.renderer.summaries, 1)
	assert.Equal(t, "9/18 correct(s)", f.renderer.summaries[0].CorrectText())
	assert.Equal(t, "50%", f.renderer.summaries[0].PercentageText())
}

func TestQuizController_QuestionCount(t *testing.T) {
	tests := []struct {
		name   string
		tables []int
	}{
		{"one table", []int{1}},
		{"three tables", []int{1, 2, 3}},
		{"sparse tables", []int{4, 7, 9, 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newQuizFixture(t)
			for _, table := range tt.tables {
				f.game.OnToggle(table)
			}
			f.game.OnStart()

			for i := 0; f.game.IsRunning(); i++ {
				require.Less(t, i, 1000, "game never ended")
				f.answerCorrectly()
			}

			assert.Len(t, f.renderer.questions, 9*len(tt.tables))
			require.Len(t, f.renderer.summaries, 1)
			assert.Equal(t, 9*len(tt.tables), f.renderer.summaries[0].Total)
		})
	}
}

func TestQuizController_CountdownExpiry(t *testing.T) {
	f := newQuizFixture(t)

	f.game.OnToggle(3)
	f.game.OnStart()

	// 10..0 are displayed before expiry.
	f.sched.TickN(11)
	assert.Equal(t, []int{10, 9, 8, 7, 6, 5, 4, 3, 2, 1, 0}, f.renderer.times)
	assert.Empty(t, f.renderer.marks)

	f.sched.Tick()
	require.Len(t, f.renderer.marks, 1)

	var correct, incorrect int
	for _, m := range f.renderer.marks[0] {
		switch m.State {
		case entities.MarkCorrect:
			correct++
			assert.Equal(t, 3, m.Value)
		case entities.MarkIncorrect:
			incorrect++
		}
	}
	assert.Equal(t, 1, correct)
	assert.Equal(t, 3, incorrect)
	assert.Equal(t, 0, f.game.Score())
	assert.Equal(t, 0, f.sched.Running(), "countdown stops on expiry")
	assert.Equal(t, 1, f.sched.Pending())

	// An answer during the feedback delay does not count.
	f.game.OnSubmitAnswer(3)
	assert.Equal(t, 0, f.game.Score())

	f.sched.Flush()
	assert.Equal(t, "3 x 2", f.renderer.lastQuestion().Text())
	assert.Equal(t, 1, f.observer.outcomes[OutcomeTimeout])
}

func TestQuizController_AnswerCancelsCountdown(t *testing.T) {
	f := newQuizFixture(t)

	f.game.OnToggle(4)
	f.game.OnStart()
	f.sched.TickN(3)

	f.game.OnSubmitAnswer(4)
	assert.Equal(t, 1, f.game.Score())
	assert.Equal(t, 0, f.sched.Running())
	assert.Equal(t, 1, f.sched.Pending())

	f.sched.TickN(20)
	assert.Len(t, f.renderer.times, 3)
	assert.Empty(t, f.renderer.marks[1:], "no expiry marks after an answer")

	// A second answer to the same question is ignored.
	f.game.OnSubmitAnswer(4)
	assert.Equal(t, 1, f.game.Score())
	assert.Equal(t, 1, f.sched.Pending())
}

func TestQuizController_MarksChosenAnswer(t *testing.T) {
	f := newQuizFixture(t)

	f.game.OnToggle(6)
	f.game.OnStart()

	q := f.renderer.lastQuestion()
	wrong := q.CorrectAnswer + 1
	for _, a := range q.Answers {
		if a != q.CorrectAnswer {
			wrong = a
			break
		}
	}

	f.game.OnSubmitAnswer(wrong)
	require.Len(t, f.renderer.marks, 1)
	for _, m := range f.renderer.marks[0] {
		if m.Value == wrong {
			assert.Equal(t, entities.MarkIncorrect, m.State)
		} else {
			assert.Equal(t, entities.MarkNeutral, m.State)
		}
	}
	assert.Equal(t, 0, f.game.Score())
}

func TestQuizController_SubmitAnswerStaleSeq(t *testing.T) {
	f := newQuizFixture(t)

	f.game.OnToggle(2)
	f.game.OnStart()

	first := f.renderer.lastQuestion()
	require.True(t, f.game.SubmitAnswer(first.Seq, first.CorrectAnswer))
	f.sched.Flush()

	second := f.renderer.lastQuestion()
	require.NotEqual(t, first.Seq, second.Seq)

	assert.False(t, f.game.SubmitAnswer(first.Seq, second.CorrectAnswer))
	assert.Equal(t, 1, f.game.Score())

	assert.True(t, f.game.SubmitAnswer(second.Seq, second.CorrectAnswer))
	assert.Equal(t, 2, f.game.Score())
}

func TestQuizController_SelectionFrozenWhileRunning(t *testing.T) {
	f := newQuizFixture(t)

	f.game.OnToggle(2)
	f.game.OnStart()
	f.game.OnToggle(5)

	assert.Equal(t, []int{2}, f.game.Selected())

	for f.game.IsRunning() {
		f.answerCorrectly()
	}
	assert.Len(t, f.renderer.questions, 9)
}

func TestQuizController_Reset(t *testing.T) {
	f := newQuizFixture(t)

	f.game.OnToggle(3)
	f.game.OnStart()
	f.sched.TickN(2)
	f.game.OnSubmitAnswer(3)

	f.game.OnReset()

	assert.False(t, f.game.IsRunning())
	assert.True(t, f.game.IsEmpty())
	assert.Equal(t, 0, f.sched.Running())
	assert.Equal(t, 0, f.sched.Pending())
	assert.Nil(t, f.renderer.selections[len(f.renderer.selections)-1])
	assert.False(t, f.renderer.lastStartEnabled())
	assert.Equal(t, 1, f.observer.aborted)
	assert.Empty(t, f.recorder.results)
	assert.Empty(t, f.renderer.summaries)

	questions := len(f.renderer.questions)
	f.sched.Flush()
	f.sched.TickN(15)
	assert.Len(t, f.renderer.questions, questions, "nothing fires after reset")
}

func TestQuizController_StaleCallbacksAfterRestart(t *testing.T) {
	f := newQuizFixture(t)

	f.game.OnToggle(3)
	f.game.OnStart()
	f.game.OnSubmitAnswer(3)
	stale := f.sched.active(false)
	require.Len(t, stale, 1)

	f.game.OnReset()
	f.game.OnToggle(7)
	f.game.OnStart()

	// The deferred advance of the aborted game must not move the new one.
	stale[0].fn()
	assert.Equal(t, "7 x 1", f.renderer.lastQuestion().Text())
}

func TestQuizController_ContinueShowsSelection(t *testing.T) {
	f := newQuizFixture(t)

	f.game.OnToggle(1)
	f.game.OnStart()
	for f.game.IsRunning() {
		f.answerCorrectly()
	}

	before := len(f.renderer.selections)
	f.game.OnContinue()

	require.Len(t, f.renderer.selections, before+1)
	assert.Empty(t, f.renderer.selections[before])
	assert.False(t, f.renderer.lastStartEnabled())
}

func TestQuizController_RecordsResult(t *testing.T) {
	f := newQuizFixture(t)
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	f.game.now = func() time.Time { return start }

	f.game.OnToggle(9)
	f.game.OnToggle(2)
	f.game.OnStart()
	for i := 0; f.game.IsRunning(); i++ {
		if i%2 == 0 {
			f.answerCorrectly()
		} else {
			f.answerWrong()
		}
	}

	require.Len(t, f.recorder.results, 1)
	r := f.recorder.results[0]
	assert.Equal(t, testChatID, r.ChatID)
	assert.Equal(t, []int{2, 9}, r.Tables)
	assert.Equal(t, 9, r.Correct)
	assert.Equal(t, 18, r.Total)
	assert.Equal(t, 50.0, r.Percentage)
	assert.Equal(t, start, r.StartedAt)
	assert.NotEmpty(t, r.GameID.String())
}

func TestQuizController_RecorderErrorDoesNotBlock(t *testing.T) {
	f := newQuizFixture(t)
	f.recorder.err = errors.New("db down")

	f.game.OnToggle(1)
	f.game.OnStart()
	for f.game.IsRunning() {
		f.answerCorrectly()
	}

	assert.Len(t, f.renderer.summaries, 1)
	assert.False(t, f.game.IsRunning())

	f.game.OnToggle(2)
	f.game.OnStart()
	assert.True(t, f.game.IsRunning())
}

func TestQuizController_AnswerSetInvariant(t *testing.T) {
	f := newQuizFixture(t)

	for _, table := range []int{1, 5, 10} {
		f.game.OnToggle(table)
	}
	f.game.OnStart()
	for f.game.IsRunning() {
		q := f.renderer.lastQuestion()
		require.Len(t, q.Answers, entities.AnswersPerQuestion)
		require.Contains(t, q.Answers, q.CorrectAnswer)
		require.Equal(t, q.Key*q.Multiplier, q.CorrectAnswer)
		f.answerCorrectly()
	}
}

func TestQuizController_SlowRecorderDoesNotBlockEvents(t *testing.T) {
	f := newQuizFixture(t)
	recorder := newBlockingRecorder()
	f.game.SetRecorder(recorder)

	f.game.OnToggle(1)
	f.game.OnStart()
	for i := 0; i < 8; i++ {
		f.answerCorrectly()
	}
	f.game.OnSubmitAnswer(f.renderer.lastQuestion().CorrectAnswer)

	finished := make(chan struct{})
	go func() {
		defer close(finished)
		f.sched.Flush()
	}()

	select {
	case <-recorder.entered:
	case <-time.After(time.Second):
		t.Fatal("result was not recorded")
	}
	require.Len(t, f.renderer.summaries, 1)

	continued := make(chan struct{})
	go func() {
		defer close(continued)
		f.game.OnContinue()
		f.game.OnToggle(4)
	}()

	select {
	case <-continued:
	case <-time.After(time.Second):
		t.Fatal("player events blocked while the result is being recorded")
	}
	assert.False(t, f.game.IsRunning())
	assert.Equal(t, []int{4}, f.game.Selected())

	close(recorder.release)
	<-finished
}
