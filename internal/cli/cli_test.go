package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderTable(t *testing.T) {
	out := RenderTable([]string{"category", "value"}, [][]string{{"water", "1"}, {"food", "0"}})
	for _, s := range []string{"category", "value", "water", "food"} {
		assert.Contains(t, out, s)
	}
}

func TestFormatters(t *testing.T) {
	assert.Contains(t, FormatTitle("Loading data..."), "Loading data...")
	assert.Contains(t, FormatSuccess("saved"), SuccessIcon)
	assert.Contains(t, FormatWarning("careful"), "careful")
	assert.Contains(t, FormatError("broken"), ErrorIcon)
}

func TestProgress(t *testing.T) {
	var nilProgress *Progress
	assert.NotPanics(t, nilProgress.Step)

	var buf bytes.Buffer
	p := NewProgress(&buf, 2, "Grid search")
	p.Step()
	p.Step()
	assert.Contains(t, buf.String(), "Grid search")
}
