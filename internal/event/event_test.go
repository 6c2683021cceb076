package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventConstructors(t *testing.T) {
	tests := []struct {
		name string
		fn   func(string, int, int) Event
		kind Kind
	}{
		{"StepAdvanced", StepAdvanced, KindStepAdvanced},
		{"StepRetreated", StepRetreated, KindStepRetreated},
		{"Completed", Completed, KindCompleted},
		{"Rejected", Rejected, KindRejected},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := tc.fn("hello", 2, 42)
			assert.Equal(t, tc.kind, e.Kind)
			assert.Equal(t, "hello", e.Text)
			assert.Equal(t, 2, e.Step)
			assert.Equal(t, 42, e.Elapsed)
		})
	}
}

func TestStateEvents(t *testing.T) {
	assert.Equal(t, KindStarted, Started(0).Kind)
	assert.Equal(t, KindPaused, Paused(1, 10).Kind)
	assert.Equal(t, 10, Paused(1, 10).Elapsed)
	assert.Equal(t, KindResumed, Resumed(1, 10).Kind)
	assert.Equal(t, Event{Kind: KindNote, Text: "x"}, Note("x"))
}

func TestKindValues(t *testing.T) {
	kinds := []Kind{
		KindStarted, KindPaused, KindResumed, KindStepAdvanced,
		KindStepRetreated, KindCompleted, KindRejected, KindNote,
	}
	seen := make(map[Kind]bool)
	names := make(map[string]bool)
	for _, k := range kinds {
		assert.False(t, seen[k], "duplicate kind value: %d", k)
		seen[k] = true
		assert.NotEqual(t, "unknown", k.String())
		assert.False(t, names[k.String()], "duplicate kind name: %s", k)
		names[k.String()] = true
	}
	assert.Equal(t, "unknown", Kind(99).String())
}
