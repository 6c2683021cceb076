// Package event defines typed events emitted by a brewing session,
// consumed by the TUI, the progress logger, and plain CLI output.
package event

// Kind identifies the type of event.
type Kind int

const (
	// KindStarted is emitted when a session leaves Idle.
	KindStarted Kind = iota
	// KindPaused is emitted when a running session is paused.
	KindPaused
	// KindResumed is emitted when a paused session resumes.
	KindResumed
	// KindStepAdvanced is emitted when the current step moves forward.
	KindStepAdvanced
	// KindStepRetreated is emitted when the current step moves back.
	KindStepRetreated
	// KindCompleted is emitted once, when the session reaches Completed.
	KindCompleted
	// KindRejected is emitted when an operation is refused in the current state.
	KindRejected
	// KindNote is a free-form message from the session owner.
	KindNote
)

var kindNames = map[Kind]string{
	KindStarted:       "started",
	KindPaused:        "paused",
	KindResumed:       "resumed",
	KindStepAdvanced:  "step",
	KindStepRetreated: "back",
	KindCompleted:     "completed",
	KindRejected:      "rejected",
	KindNote:          "note",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Event is a single typed event emitted by a session.
type Event struct {
	Kind    Kind
	Text    string // human-readable payload
	Step    int    // current step index at emission time
	Elapsed int    // elapsed seconds at emission time
}

// Handler is a callback that receives typed events.
type Handler func(Event)

// Started creates a KindStarted event.
func Started(step int) Event {
	return Event{Kind: KindStarted, Text: "Brewing started", Step: step}
}

// Paused creates a KindPaused event.
func Paused(step, elapsed int) Event {
	return Event{Kind: KindPaused, Text: "Paused", Step: step, Elapsed: elapsed}
}

// Resumed creates a KindResumed event.
func Resumed(step, elapsed int) Event {
	return Event{Kind: KindResumed, Text: "Resumed", Step: step, Elapsed: elapsed}
}

// StepAdvanced creates a KindStepAdvanced event.
func StepAdvanced(text string, step, elapsed int) Event {
	return Event{Kind: KindStepAdvanced, Text: text, Step: step, Elapsed: elapsed}
}

// StepRetreated creates a KindStepRetreated event.
func StepRetreated(text string, step, elapsed int) Event {
	return Event{Kind: KindStepRetreated, Text: text, Step: step, Elapsed: elapsed}
}

// Completed creates a KindCompleted event.
func Completed(text string, step, elapsed int) Event {
	return Event{Kind: KindCompleted, Text: text, Step: step, Elapsed: elapsed}
}

// Rejected creates a KindRejected event.
func Rejected(text string, step, elapsed int) Event {
	return Event{Kind: KindRejected, Text: text, Step: step, Elapsed: elapsed}
}

// Note creates a KindNote event.
func Note(text string) Event { return Event{Kind: KindNote, Text: text} }
