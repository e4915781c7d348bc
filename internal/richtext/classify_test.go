package richtext

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		kind    Kind
		depth   int
		ordinal int
		glyph   rune
		payload string
	}{
		{"numbered", "1. hello", KindNumbered, 0, 1, 0, "hello"},
		{"numbered indented", "    12. deep", KindNumbered, 1, 12, 0, "deep"},
		{"numbered short indent", "  1. hello", KindNumbered, 0, 1, 0, "hello"},
		{"numbered empty payload", "4. ", KindNumbered, 0, 4, 0, ""},
		{"bullet glyph", "• item", KindBullet, 0, 0, '•', "item"},
		{"bullet star", "        * item", KindBullet, 2, 0, '*', "item"},
		{"no space after dot", "1.hello", KindPlain, 0, 0, 0, "1.hello"},
		{"plain indented", "    text", KindPlain, 1, 0, 0, "text"},
		{"plain", "hello world", KindPlain, 0, 0, 0, "hello world"},
		{"empty", "", KindPlain, 0, 0, 0, ""},
		{"huge ordinal degrades", "99999999999999999999999. x", KindPlain, 0, 0, 0, "99999999999999999999999. x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Classify(tt.line)
			assert.Equal(t, tt.kind, c.Kind)
			assert.Equal(t, tt.depth, c.IndentDepth)
			assert.Equal(t, tt.ordinal, c.Ordinal)
			assert.Equal(t, tt.glyph, c.Glyph)
			assert.Equal(t, tt.payload, c.Payload)
		})
	}
}

func TestClassifyEmpty(t *testing.T) {
	assert.True(t, Classify("1.  ").Empty())
	assert.True(t, Classify("•   ").Empty())
	assert.False(t, Classify("1. x").Empty())
}

func TestClassifiedLineRender(t *testing.T) {
	c := Classify("    * item")
	assert.Equal(t, "    • item", c.Render("•"))
	assert.Equal(t, "    item", c.Render(""))
	assert.Equal(t, "*", c.Marker())
	assert.Equal(t, "3.", Classify("3. x").Marker())
	assert.Equal(t, "", Classify("x").Marker())
}

func TestDepthProbe(t *testing.T) {
	assert.Equal(t, 0, DepthProbe("x"))
	assert.Equal(t, 1, DepthProbe("  x"))
	assert.Equal(t, 2, DepthProbe("    1. x"))
}
