package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerboseLevel(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetVerbose(false) })

	SetVerbose(false)
	Debug("hidden")
	Info("shown", "plan", "Flat")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "plan=Flat")

	buf.Reset()
	SetVerbose(true)
	Debug("visible")
	Warn("careful")
	Error("broken")
	assert.Contains(t, buf.String(), "visible")
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "level=ERROR")
}
