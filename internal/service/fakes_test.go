package service

import (
	"context"
	"sync"
	"time"

	"github.com/aliskhannn/times-tables-bot/internal/domain/entities"
)

// fakeTimer is a timer driven by fakeScheduler.
type fakeTimer struct {
	fn      func()
	every   bool
	delay   time.Duration
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

// fakeScheduler fires callbacks only when the test asks it to.
type fakeScheduler struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (s *fakeScheduler) After(d time.Duration, fn func()) Timer {
	return s.add(&fakeTimer{fn: fn, delay: d})
}

func (s *fakeScheduler) Every(d time.Duration, fn func()) Timer {
	return s.add(&fakeTimer{fn: fn, delay: d, every: true})
}

func (s *fakeScheduler) add(t *fakeTimer) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timers = append(s.timers, t)
	return t
}

func (s *fakeScheduler) active(every bool) []*fakeTimer {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*fakeTimer
	for _, t := range s.timers {
		if !t.stopped && t.every == every {
			out = append(out, t)
		}
	}
	return out
}

// Tick fires every running repeating timer once.
func (s *fakeScheduler) Tick() {
	for _, t := range s.active(true) {
		t.fn()
	}
}

// TickN calls Tick n times.
func (s *fakeScheduler) TickN(n int) {
	for i := 0; i < n; i++ {
		s.Tick()
	}
}

// Flush fires every pending one-shot timer.
func (s *fakeScheduler) Flush() {
	for _, t := range s.active(false) {
		t.stopped = true
		t.fn()
	}
}

func (s *fakeScheduler) Pending() int {
	return len(s.active(false))
}

func (s *fakeScheduler) Running() int {
	return len(s.active(true))
}

// fakeRenderer records everything the controller shows.
type fakeRenderer struct {
	selections   [][]int
	startEnabled []bool
	questions    []entities.Question
	times        []int
	marks        [][]entities.AnswerMark
	summaries    []entities.Summary
}

func (r *fakeRenderer) ShowSelection(selected []int, startEnabled bool) {
	r.selections = append(r.selections, selected)
	r.startEnabled = append(r.startEnabled, startEnabled)
}

func (r *fakeRenderer) ShowQuestion(q entities.Question) {
	r.questions = append(r.questions, q)
}

func (r *fakeRenderer) ShowTime(seconds int) {
	r.times = append(r.times, seconds)
}

func (r *fakeRenderer) ShowMarks(marks []entities.AnswerMark) {
	r.marks = append(r.marks, marks)
}

func (r *fakeRenderer) ShowSummary(s entities.Summary) {
	r.summaries = append(r.summaries, s)
}

func (r *fakeRenderer) lastQuestion() entities.Question {
	return r.questions[len(r.questions)-1]
}

func (r *fakeRenderer) lastStartEnabled() bool {
	return r.startEnabled[len(r.startEnabled)-1]
}

// fakeRecorder captures recorded results.
type fakeRecorder struct {
	results []*entities.GameResult
	err     error
}

func (r *fakeRecorder) Record(_ context.Context, result *entities.GameResult) error {
	r.results = append(r.results, result)
	return r.err
}

// fakeObserver counts lifecycle events.
type fakeObserver struct {
	started  int
	finished int
	aborted  int
	outcomes map[string]int
}

func newFakeObserver() *fakeObserver {
	return &fakeObserver{outcomes: make(map[string]int)}
}

func (o *fakeObserver) GameStarted(int)               { o.started++ }
func (o *fakeObserver) AnswerRecorded(outcome string) { o.outcomes[outcome]++ }
func (o *fakeObserver) GameFinished(entities.Summary) { o.finished++ }
func (o *fakeObserver) GameAborted()                  { o.aborted++ }

// blockingRecorder holds Record until release is closed.
type blockingRecorder struct {
	entered chan struct{}
	release chan struct{}
}

func newBlockingRecorder() *blockingRecorder {
	return &blockingRecorder{entered: make(chan struct{}), release: make(chan struct{})}
}

func (r *blockingRecorder) Record(ctx context.Context, _ *entities.GameResult) error {
	close(r.entered)
	select {
	case <-r.release:
	case <-ctx.Done():
	}
	return nil
}
