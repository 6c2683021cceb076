package brewing

import (
	"fmt"
	"time"

	"github.com/alexander-akhmetov/brewguide/internal/domain"
	"github.com/alexander-akhmetov/brewguide/internal/event"
)

// Scheduler arms and cancels the periodic tick source of a session.
// Schedule is called with the tag every tick of the new source must carry;
// Cancel stops the current source. Implementations deliver ticks back to
// the session owner, which calls Session.Tick.
type Scheduler interface {
	Schedule(tag int)
	Cancel()
}

// Meta is the read-only context a session is created with.
type Meta struct {
	RecipeID          string
	BeanID            string
	TargetWaterML     int
	TargetBrewSeconds int
}

// Result is made available once the session completes.
type Result struct {
	ActualElapsedSeconds int
	StepsCompletedCount  int
	TotalSteps           int
}

// View is a snapshot of the derived values shown by a presentation layer.
type View struct {
	State            State
	CurrentIndex     int
	TotalSteps       int
	Completed        []bool
	Elapsed          int
	FormattedElapsed string
	Progress         float64
	Current          domain.Step
	Next             *domain.Step
}

// Option configures a Session.
type Option func(*Session)

// WithScheduler sets the tick source owner.
func WithScheduler(s Scheduler) Option {
	return func(sess *Session) { sess.scheduler = s }
}

// WithHandler sets the event callback.
func WithHandler(h event.Handler) Option {
	return func(sess *Session) { sess.handler = h }
}

// WithClock overrides time.Now for start and finish timestamps.
func WithClock(now func() time.Time) Option {
	return func(sess *Session) { sess.now = now }
}

// Session is one guided brewing run over a fixed list of steps.
// It is not safe for concurrent use: a single owner loop mutates it and
// feeds it ticks.
type Session struct {
	steps     []domain.Step
	meta      Meta
	current   int
	completed []bool
	elapsed   int
	state     State

	// tag identifies the live tick source. It changes whenever a source is
	// armed or cancelled, so ticks from an older source are ignored.
	tag       int
	scheduler Scheduler
	closed    bool

	handler    event.Handler
	now        func() time.Time
	startedAt  time.Time
	finishedAt time.Time
	result     *Result
}

// New creates an idle session. Steps are copied and never modified.
func New(steps []domain.Step, meta Meta, opts ...Option) (*Session, error) {
	if len(steps) == 0 {
		return nil, ErrNoSteps
	}
	s := &Session{
		steps:     append([]domain.Step(nil), steps...),
		meta:      meta,
		completed: make([]bool, len(steps)),
		state:     StateIdle,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Start moves Idle to Running and resets the elapsed time.
func (s *Session) Start() error {
	if s.closed || s.state != StateIdle {
		return s.reject("start")
	}
	s.state = StateRunning
	s.elapsed = 0
	s.startedAt = s.now()
	s.arm()
	s.emit(event.Started(s.current))
	return nil
}

// TogglePause flips between Running and Paused.
func (s *Session) TogglePause() error {
	if s.closed {
		return s.reject("toggle pause")
	}
	switch s.state {
	case StateRunning:
		s.disarm()
		s.state = StatePaused
		s.emit(event.Paused(s.current, s.elapsed))
	case StatePaused:
		s.state = StateRunning
		s.arm()
		s.emit(event.Resumed(s.current, s.elapsed))
	default:
		return s.reject("toggle pause")
	}
	return nil
}

// Advance marks the current step completed and moves to the next one.
// Advancing from the last step completes the session without marking
// that step.
func (s *Session) Advance() error {
	if s.closed || !s.state.Active() {
		return s.reject("advance")
	}
	if err := s.checkIndex(); err != nil {
		return err
	}
	if s.current == len(s.steps)-1 {
		s.finish()
		return nil
	}
	s.completed[s.current] = true
	s.current++
	s.emit(event.StepAdvanced(fmt.Sprintf("Step %d/%d: %s", s.current+1, len(s.steps), s.steps[s.current].Title), s.current, s.elapsed))
	return nil
}

// Retreat moves back one step. The completed flag of the revisited step is
// left as it was.
func (s *Session) Retreat() error {
	if s.closed || !s.state.Active() || s.current == 0 {
		return s.reject("retreat")
	}
	if err := s.checkIndex(); err != nil {
		return err
	}
	s.current--
	s.emit(event.StepRetreated(fmt.Sprintf("Back to step %d/%d: %s", s.current+1, len(s.steps), s.steps[s.current].Title), s.current, s.elapsed))
	return nil
}

// Complete ends the session from any non-terminal state. Calling it on a
// completed session does nothing.
func (s *Session) Complete() error {
	if s.state == StateCompleted {
		return nil
	}
	if s.closed {
		return s.reject("complete")
	}
	s.finish()
	return nil
}

// Tick advances elapsed time by one second if the session is running and
// tag belongs to the live tick source. It reports whether the tick was
// accepted; owners re-arm tick chains only on acceptance.
func (s *Session) Tick(tag int) bool {
	if s.closed || s.state != StateRunning || tag != s.tag {
		return false
	}
	s.elapsed++
	return true
}

// Close cancels the tick source and invalidates outstanding ticks. It is
// safe to call more than once; owners defer it.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.disarm()
	s.closed = true
}

func (s *Session) finish() {
	s.disarm()
	s.state = StateCompleted
	s.finishedAt = s.now()
	done := 0
	for _, c := range s.completed {
		if c {
			done++
		}
	}
	s.result = &Result{
		ActualElapsedSeconds: s.elapsed,
		StepsCompletedCount:  done,
		TotalSteps:           len(s.steps),
	}
	s.emit(event.Completed(fmt.Sprintf("Brewing complete in %s (%d/%d steps)", FormatElapsed(s.elapsed), done, len(s.steps)), s.current, s.elapsed))
}

func (s *Session) arm() {
	s.tag++
	if s.scheduler != nil && !s.closed {
		s.scheduler.Schedule(s.tag)
	}
}

func (s *Session) disarm() {
	s.tag++
	if s.scheduler != nil {
		s.scheduler.Cancel()
	}
}

func (s *Session) checkIndex() error {
	if s.current < 0 || s.current >= len(s.steps) {
		return fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, s.current, len(s.steps))
	}
	return nil
}

func (s *Session) reject(op string) error {
	state := s.state.String()
	if s.closed {
		state = "closed"
	}
	err := fmt.Errorf("%w: %s while %s", ErrInvalidTransition, op, state)
	s.emit(event.Rejected(err.Error(), s.current, s.elapsed))
	return err
}

func (s *Session) emit(e event.Event) {
	if s.handler != nil {
		s.handler(e)
	}
}

// State returns the run state.
func (s *Session) State() State { return s.state }

// CurrentIndex returns the 0-based current step index.
func (s *Session) CurrentIndex() int { return s.current }

// Elapsed returns the elapsed seconds while running.
func (s *Session) Elapsed() int { return s.elapsed }

// Tag returns the tag of the live tick source.
func (s *Session) Tag() int { return s.tag }

// Meta returns the session metadata.
func (s *Session) Meta() Meta { return s.meta }

// StartedAt returns when Start was called, or the zero time.
func (s *Session) StartedAt() time.Time { return s.startedAt }

// FinishedAt returns when the session completed, or the zero time.
func (s *Session) FinishedAt() time.Time { return s.finishedAt }

// Steps returns a copy of the steps.
func (s *Session) Steps() []domain.Step {
	return append([]domain.Step(nil), s.steps...)
}

// CompletedFlags returns a copy of the per-step completion flags.
func (s *Session) CompletedFlags() []bool {
	return append([]bool(nil), s.completed...)
}

// ProgressFraction is (current+1)/N.
func (s *Session) ProgressFraction() float64 {
	return float64(s.current+1) / float64(len(s.steps))
}

// FormattedElapsed returns the elapsed time as mm:ss.
func (s *Session) FormattedElapsed() string {
	return FormatElapsed(s.elapsed)
}

// CurrentStep returns the step at the current index.
func (s *Session) CurrentStep() domain.Step {
	return s.steps[s.current]
}

// NextStep returns the step after the current one, if any.
func (s *Session) NextStep() (domain.Step, bool) {
	if s.current+1 >= len(s.steps) {
		return domain.Step{}, false
	}
	return s.steps[s.current+1], true
}

// Result returns the completion record once the session has completed.
func (s *Session) Result() (Result, bool) {
	if s.result == nil {
		return Result{}, false
	}
	return *s.result, true
}

// Snapshot returns all derived values at once.
func (s *Session) Snapshot() View {
	v := View{
		State:            s.state,
		CurrentIndex:     s.current,
		TotalSteps:       len(s.steps),
		Completed:        s.CompletedFlags(),
		Elapsed:          s.elapsed,
		FormattedElapsed: s.FormattedElapsed(),
		Progress:         s.ProgressFraction(),
		Current:          s.CurrentStep(),
	}
	if next, ok := s.NextStep(); ok {
		v.Next = &next
	}
	return v
}

// TargetReached reports whether the current step's target duration elapsed
// on the last tick, given the elapsed time at which the step was entered.
func (s *Session) TargetReached(stepStart int) bool {
	d := s.steps[s.current].Duration
	return s.state == StateRunning && d > 0 && s.elapsed-stepStart == d
}

// TargetNote is the note emitted when step's target duration elapses.
func TargetNote(step domain.Step) event.Event {
	return event.Note(fmt.Sprintf("⏱ %s: target time %s reached", step.Title, FormatElapsed(step.Duration)))
}

// FormatElapsed formats seconds as zero-padded mm:ss. Minutes are not
// wrapped into hours.
func FormatElapsed(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
