package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMode(t *testing.T) {
	tests := []struct {
		in   string
		want OutputMode
	}{
		{"", ModeAuto},
		{"auto", ModeAuto},
		{"text", ModeText},
		{"markdown", ModeMarkdown},
		{"md", ModeMarkdown},
		{"json", ModeJSON},
		{"yaml", ModeAuto},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Mode(tt.in))
		})
	}
}

func TestRenderer_EffectiveMode(t *testing.T) {
	var out, errOut bytes.Buffer

	assert.Equal(t, ModeText, NewRendererWithTTY(&out, &errOut, true, ModeAuto).EffectiveMode())
	assert.Equal(t, ModeMarkdown, NewRendererWithTTY(&out, &errOut, false, ModeAuto).EffectiveMode())
	assert.Equal(t, ModeJSON, NewRendererWithTTY(&out, &errOut, true, ModeJSON).EffectiveMode())
	assert.False(t, NewRenderer(&out, &errOut, ModeAuto).IsTTY(), "buffers are never terminals")
}

func TestRenderer_TableText(t *testing.T) {
	var out, errOut bytes.Buffer
	r := NewRendererWithTTY(&out, &errOut, false, ModeText)

	r.Table([]string{"ID", "NAME"}, [][]string{{"1", "Ann"}})

	s := out.String()
	assert.Contains(t, s, "ID")
	assert.Contains(t, s, "Ann")
	assert.Contains(t, s, "(1 rows)")
	assert.NotContains(t, s, "\x1b[", "non-TTY output has no ANSI codes")
}

func TestRenderer_TableMarkdown(t *testing.T) {
	var out, errOut bytes.Buffer
	r := NewRendererWithTTY(&out, &errOut, false, ModeMarkdown)

	r.Table([]string{"ID", "NAME"}, [][]string{{"1", "Ann"}})

	s := out.String()
	assert.Contains(t, s, "| ID | NAME |")
	assert.Contains(t, s, "| 1 | Ann |")
}

func TestRenderer_StreamsAndHeaders(t *testing.T) {
	var out, errOut bytes.Buffer
	r := NewRendererWithTTY(&out, &errOut, false, ModeMarkdown)

	r.Header(1, "Schema")
	r.Success("done")
	r.Muted("note")
	r.Error("boom")

	assert.Equal(t, "# Schema\n\ndone\n", out.String())
	assert.Equal(t, "note\nboom\n", errOut.String())
}

func TestRenderer_JSON(t *testing.T) {
	var out, errOut bytes.Buffer
	r := NewRendererWithTTY(&out, &errOut, false, ModeJSON)

	assert.NoError(t, r.JSON(map[string]string{"a": "<b>"}))
	assert.Equal(t, "{\n  \"a\": \"<b>\"\n}\n", out.String())
}
