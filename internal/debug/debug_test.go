package debug

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func withOutput(t *testing.T, on bool) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prevEnabled, prevOut := enabled, out
	enabled, out = on, &buf
	t.Cleanup(func() { enabled, out = prevEnabled, prevOut })
	return &buf
}

func TestLogf(t *testing.T) {
	buf := withOutput(t, true)
	Logf("tick %d rejected", 3)
	assert.Contains(t, buf.String(), "[DEBUG ")
	assert.Contains(t, buf.String(), "tick 3 rejected\n")
	assert.True(t, Enabled())
}

func TestLogf_Disabled(t *testing.T) {
	buf := withOutput(t, false)
	Logf("hidden")
	assert.Empty(t, buf.String())
	assert.False(t, Enabled())
}
