package richtext

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenumber(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		mode ListMode
		want []string
	}{
		{
			name: "sequential",
			in:   []string{"1. a", "1. b", "1. c"},
			mode: ModeNumbered,
			want: []string{"1. a", "2. b", "3. c"},
		},
		{
			name: "nested levels count independently",
			in:   []string{"a", "    b", "c"},
			mode: ModeNumbered,
			want: []string{"1. a", "    1. b", "2. c"},
		},
		{
			name: "deeper level resets when parent advances",
			in:   []string{"a", "    b", "    c", "d", "    e"},
			mode: ModeNumbered,
			want: []string{"1. a", "    1. b", "    2. c", "2. d", "    1. e"},
		},
		{
			name: "blank lines pass through and take no number",
			in:   []string{"a", "", "   ", "b"},
			mode: ModeNumbered,
			want: []string{"1. a", "", "   ", "2. b"},
		},
		{
			name: "bullets from mixed input",
			in:   []string{"3. a", "* b", "c"},
			mode: ModeBullet,
			want: []string{"• a", "• b", "• c"},
		},
		{
			name: "empty marker line unchanged",
			in:   []string{"1. ", "x"},
			mode: ModeBullet,
			want: []string{"1. ", "• x"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Renumber(tt.in, tt.mode))
		})
	}
}

func TestRenumberIdempotent(t *testing.T) {
	inputs := [][]string{
		{"a", "    b", "        c", "    d", "e"},
		{"5. x", "* y", "", "    • z"},
		{"plain"},
	}
	for _, mode := range []ListMode{ModeNumbered, ModeBullet} {
		for _, in := range inputs {
			once := Renumber(in, mode)
			assert.Equal(t, once, Renumber(once, mode), "mode %s input %q", mode, in)
		}
	}
}

func TestNumberStackAdvance(t *testing.T) {
	s := NewNumberStack()
	assert.Equal(t, 1, s.Advance(0))
	assert.Equal(t, 1, s.Advance(2))
	assert.Equal(t, NumberStack{1, 0, 1}, s)
	assert.Equal(t, 2, s.Advance(0))
	assert.Equal(t, NumberStack{2, 0, 0}, s)
}

func TestListMarkup(t *testing.T) {
	assert.Equal(t, "1. a&lt;b<br>2. c", ListMarkup([]string{"1. a<b", "2. c"}))
}
