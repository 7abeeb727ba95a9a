package message

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuilder(test *testing.T) {
	builder := Builder{}
	if s := builder.Flush(); s != "" {
		test.Error("Invalid string has built just after init", s)
	}
	content := []byte("Hello Builder!")
	builder.Write(content)
	cpoint := []byte{226, 140, 152} // ⌘
	// write incomplete unicode sequence
	builder.Write(cpoint[:2])
	assert.Len(test, builder.pending, 2)
	if s := builder.Flush(); s != string(content) {
		test.Error("Expected Flush() result:", string(content), "actual:", s)
	}
	// complete the sequence, Builder remembers previous bytes
	builder.Write(cpoint[2:])
	if s := builder.Flush(); s != string(cpoint) {
		test.Error("Expected Flush() result:", string(cpoint), "actual:", s)
	}
	assert.Empty(test, builder.pending)
}

func TestNormalize(test *testing.T) {
	cases := []struct {
		source, expected string
	}{
		{"", ""},
		{"hello", "hello"},
		{"hello\nworld", "hello world"},
		{"hello\r\n\n\nworld", "hello world"},
		{"tab\there", "tab here"},
		{"bell\x07", "bell"},
		{"broken \xff utf8", "broken  utf8"},
		{"Hello, 世界", "Hello, 世界"},
		{"keeps: colons", "keeps: colons"},
	}
	for _, c := range cases {
		assert.Equal(test, c.expected, Normalize(c.source), "source %q", c.source)
	}
}
