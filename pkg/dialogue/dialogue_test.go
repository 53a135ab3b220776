package dialogue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePhase(t *testing.T) {
	tests := []struct {
		in   string
		want Phase
	}{
		{"initial", Initial},
		{"During", During},
		{" completion ", Completion},
		{"default", Default},
		{"", Default},
		{"yield", Custom("yield")},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParsePhase(tt.in))
		})
	}

	assert.True(t, Custom("hint").IsCustom())
	assert.False(t, Initial.IsCustom())
	assert.Equal(t, "hint", Custom("hint").String())
}

func TestTable_Lines(t *testing.T) {
	table := NewTable(map[string][]string{
		"initial": {"Quest started."},
		"during":  {"Keep looking."},
		"default": {"Nothing to do here right now."},
		"yield":   {"Take this poster."},
		"empty":   {},
	})

	tests := []struct {
		name  string
		phase Phase
		want  []string
	}{
		{"exact initial", Initial, []string{"Quest started."}},
		{"custom tag", Custom("yield"), []string{"Take this poster."}},
		{"missing custom falls back to default", Custom("hint"), []string{"Nothing to do here right now."}},
		{"empty custom falls back to default", Custom("empty"), []string{"Nothing to do here right now."}},
		{"completion falls back to during", Completion, []string{"Keep looking."}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, table.Lines(tt.phase))
		})
	}
}

func TestTable_LinesOr(t *testing.T) {
	var empty Table
	assert.Nil(t, empty.Lines(Initial))
	assert.Equal(t, []string{"fallback"}, empty.LinesOr(Initial, "fallback"))
}

func TestDialogue_Progression(t *testing.T) {
	d := New("first", "", "second")

	assert.Equal(t, []string{"first", "second"}, d.Lines)
	assert.Equal(t, "first", d.Current())
	assert.True(t, d.Advance())
	assert.Equal(t, "second", d.Current())
	assert.False(t, d.Advance())
	assert.True(t, d.Done())
	assert.Equal(t, "", d.Current())
	assert.False(t, d.Advance(), "advancing past the end is a no-op")
	assert.Equal(t, 2, d.Index)
}

func TestDialogue_Nil(t *testing.T) {
	var d *Dialogue
	assert.True(t, d.Done())
	assert.Equal(t, "", d.Current())
	assert.Equal(t, "", d.Text())
	assert.False(t, d.Advance())
}
