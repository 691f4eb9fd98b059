package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aliskhannn/times-tables-bot/internal/domain/entities"
)

const recordTimeout = 5 * time.Second

// QuizConfig holds the timing parameters of a game.
type QuizConfig struct {
	QuestionSeconds int           // countdown start value
	TickInterval    time.Duration // countdown granularity
	FeedbackDelay   time.Duration // pause between marking answers and the next question
}

// DefaultQuizConfig returns a 10 second countdown with 1 second ticks and feedback delay.
func DefaultQuizConfig() QuizConfig {
	return QuizConfig{
		QuestionSeconds: 10,
		TickInterval:    time.Second,
		FeedbackDelay:   time.Second,
	}
}

// QuizController runs the times-tables game of a single chat.
// All methods are safe for concurrent use; events are applied one at a time.
type QuizController struct {
	mu sync.Mutex

	chatID    int64
	cfg       QuizConfig
	renderer  Renderer
	scheduler Scheduler
	generator *AnswerGenerator
	recorder  ResultRecorder
	observer  Observer
	logger    *zap.Logger
	now       func() time.Time

	selection    *entities.Selection
	session      *quizSession
	seq          int                  // last issued question seq, never reset
	unrecorded   *entities.GameResult // finished game waiting to be recorded outside the lock
	lastActivity time.Time
}

// quizSession is the state of a running game.
type quizSession struct {
	gameID     uuid.UUID
	startedAt  time.Time
	tables     []int               // selection frozen at start
	remaining  *entities.Selection // tables not yet exhausted
	key        int
	multiplier int
	number     int // questions asked so far
	points     int
	question   entities.Question
	awaiting   bool
	countdown  *Countdown
	ticker     Timer
	pending    Timer
}

// NewQuizController creates an idle controller with an empty selection.
func NewQuizController(
	chatID int64,
	cfg QuizConfig,
	renderer Renderer,
	scheduler Scheduler,
	generator *AnswerGenerator,
	logger *zap.Logger,
) *QuizController {
	return &QuizController{
		chatID:       chatID,
		cfg:          cfg,
		renderer:     renderer,
		scheduler:    scheduler,
		generator:    generator,
		observer:     nopObserver{},
		logger:       logger.With(zap.Int64("chat_id", chatID)),
		now:          time.Now,
		selection:    entities.NewSelection(),
		lastActivity: time.Now(),
	}
}

// SetRecorder sets where finished games are stored.
func (c *QuizController) SetRecorder(recorder ResultRecorder) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.recorder = recorder
}

// SetObserver sets the lifecycle observer.
func (c *QuizController) SetObserver(observer Observer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if observer == nil {
		observer = nopObserver{}
	}
	c.observer = observer
}

// OnToggle adds or removes a table from the selection. Ignored while a game is running.
func (c *QuizController) OnToggle(value int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touch()

	if c.session != nil {
		return
	}

	c.selection.Toggle(value)
	c.renderer.ShowSelection(c.selection.Keys(), !c.selection.IsEmpty())
}

// OnStart starts a game over the selected tables. Ignored if the selection is
// empty or a game is already running.
func (c *QuizController) OnStart() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touch()

	if c.session != nil || c.selection.IsEmpty() {
		return
	}

	c.session = &quizSession{
		gameID:    uuid.New(),
		startedAt: c.now(),
		tables:    c.selection.Keys(),
		remaining: c.selection.Clone(),
	}

	c.logger.Debug("game started",
		zap.String("game_id", c.session.gameID.String()),
		zap.Ints("tables", c.session.tables),
	)
	c.observer.GameStarted(c.selection.Len())

	c.nextQuestion()
	c.presentQuestion()
}

// OnSubmitAnswer checks value against the current question. Answers arriving
// after the countdown expired or after a previous answer are ignored.
func (c *QuizController) OnSubmitAnswer(value int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touch()

	c.submit(value)
}

// SubmitAnswer answers question seq with value. It reports false when seq is
// no longer the question awaiting an answer.
func (c *QuizController) SubmitAnswer(seq, value int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touch()

	if c.session == nil || c.session.question.Seq != seq {
		return false
	}
	return c.submit(value)
}

func (c *QuizController) submit(value int) bool {
	s := c.session
	if s == nil || !s.awaiting {
		return false
	}

	c.stopCountdown()
	s.awaiting = false

	outcome := OutcomeIncorrect
	if s.question.IsCorrect(value) {
		s.points++
		outcome = OutcomeCorrect
	}
	c.observer.AnswerRecorded(outcome)

	c.renderer.ShowMarks(s.question.MarkChosen(value))
	c.scheduleAdvance()
	return true
}

// OnContinue dismisses the summary and shows the table selection again.
func (c *QuizController) OnContinue() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touch()

	if c.session != nil {
		return
	}

	c.renderer.ShowSelection(c.selection.Keys(), !c.selection.IsEmpty())
}

// OnReset aborts a running game and clears the selection.
func (c *QuizController) OnReset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touch()

	if c.session != nil {
		c.stopTimers()
		c.logger.Debug("game aborted", zap.String("game_id", c.session.gameID.String()))
		c.observer.GameAborted()
		c.session = nil
	}

	c.selection.Clear()
	c.renderer.ShowSelection(nil, false)
}

// IsEmpty reports whether no table is selected.
func (c *QuizController) IsEmpty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selection.IsEmpty()
}

// IsRunning reports whether a game is in progress.
func (c *QuizController) IsRunning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session != nil
}

// Selected returns the selected tables in ascending order.
func (c *QuizController) Selected() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selection.Keys()
}

// Score returns the points scored in the running game.
func (c *QuizController) Score() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return 0
	}
	return c.session.points
}

// CurrentQuestion returns the question being asked, if any.
func (c *QuizController) CurrentQuestion() (entities.Question, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return entities.Question{}, false
	}
	return c.session.question, true
}

// LastActivity returns the time of the last player event.
func (c *QuizController) LastActivity() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastActivity
}

// Close stops pending timers without rendering anything.
func (c *QuizController) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session != nil {
		c.stopTimers()
		c.observer.GameAborted()
		c.session = nil
	}
}

func (c *QuizController) touch() {
	c.lastActivity = c.now()
}

// nextQuestion moves to the next key/multiplier pair. It reports false when
// every table has been drilled.
func (c *QuizController) nextQuestion() bool {
	s := c.session
	if s.multiplier == entities.MultipliersPerTable {
		s.multiplier = 0
		s.remaining.Remove(s.key)
		if s.remaining.IsEmpty() {
			return false
		}
	}

	s.key, _ = s.remaining.First()
	s.multiplier++
	return true
}

func (c *QuizController) presentQuestion() {
	s := c.session
	c.seq++
	s.number++

	correct := s.key * s.multiplier
	s.question = entities.Question{
		Seq:           c.seq,
		Number:        s.number,
		Total:         len(s.tables) * entities.MultipliersPerTable,
		Key:           s.key,
		Multiplier:    s.multiplier,
		Answers:       c.generator.GenerateAnswers(correct),
		CorrectAnswer: correct,
	}
	s.awaiting = true

	c.renderer.ShowQuestion(s.question)

	s.countdown = NewCountdown(c.cfg.QuestionSeconds)
	s.ticker = c.scheduler.Every(c.cfg.TickInterval, c.guard(c.seq, c.tick))
}

// tick runs once per countdown interval.
func (c *QuizController) tick() {
	s := c.session
	if !s.awaiting || s.countdown == nil {
		return
	}

	display, expired := s.countdown.Tick()
	if !expired {
		c.renderer.ShowTime(display)
		return
	}

	c.stopCountdown()
	s.awaiting = false
	c.observer.AnswerRecorded(OutcomeTimeout)

	c.renderer.ShowMarks(s.question.MarkAll())
	c.scheduleAdvance()
}

func (c *QuizController) scheduleAdvance() {
	c.session.pending = c.scheduler.After(c.cfg.FeedbackDelay, c.guard(c.seq, c.advance))
}

func (c *QuizController) advance() {
	s := c.session
	if s.awaiting {
		return
	}
	s.pending = nil

	if !c.nextQuestion() {
		c.finish()
		return
	}
	c.presentQuestion()
}

// finish shows the summary and returns to idle. The result is left in
// c.unrecorded for the caller to record once the lock is released.
func (c *QuizController) finish() {
	s := c.session
	c.stopTimers()

	summary := entities.NewSummary(s.points, len(s.tables))
	c.renderer.ShowSummary(summary)
	c.observer.GameFinished(summary)

	c.logger.Debug("game finished",
		zap.String("game_id", s.gameID.String()),
		zap.Int("correct", summary.Correct),
		zap.Int("total", summary.Total),
	)

	if c.recorder != nil {
		c.unrecorded = entities.NewGameResult(s.gameID, c.chatID, s.tables, summary, s.startedAt, c.now())
	}

	c.session = nil
	c.selection.Clear()
}

// record stores a finished game. It must be called without holding c.mu so a
// slow database does not block the chat's next events.
func (c *QuizController) record(recorder ResultRecorder, result *entities.GameResult) {
	if recorder == nil || result == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()

	if err := recorder.Record(ctx, result); err != nil {
		c.logger.Error("failed to record game result",
			zap.String("game_id", result.GameID.String()),
			zap.Error(err),
		)
	}
}

// guard wraps a scheduled callback so it runs under the lock and only while
// question seq is still current. A game finished by fn is recorded after unlocking.
func (c *QuizController) guard(seq int, fn func()) func() {
	return func() {
		c.mu.Lock()
		if c.session == nil || c.seq != seq {
			c.mu.Unlock()
			return
		}
		fn()

		result, recorder := c.unrecorded, c.recorder
		c.unrecorded = nil
		c.mu.Unlock()

		c.record(recorder, result)
	}
}

func (c *QuizController) stopCountdown() {
	s := c.session
	if s.ticker != nil {
		s.ticker.Stop()
		s.ticker = nil
	}
	s.countdown = nil
}

func (c *QuizController) stopTimers() {
	c.stopCountdown()
	if c.session.pending != nil {
		c.session.pending.Stop()
		c.session.pending = nil
	}
}
