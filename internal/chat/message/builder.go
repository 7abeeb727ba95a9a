package message

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Builder - implements io.Writer interface to build single-line chat text from byte parts.
// Invalid unicode and control characters are dropped, line breaks are folded into single space.
// Incomplete rune at the end of written part is kept until the next Write.
type Builder struct {
	pending []byte
	str     strings.Builder
	prev    rune
}

func (b *Builder) Write(p []byte) (n int, err error) {
	data := append(b.pending, p...)
	b.pending = nil
	for len(data) > 0 {
		if !utf8.FullRune(data) {
			b.pending = append([]byte{}, data...)
			break
		}
		r, size := utf8.DecodeRune(data)
		data = data[size:]
		b.writeRune(r)
	}
	return len(p), nil
}

func (b *Builder) writeRune(r rune) {
	switch {
	case r == utf8.RuneError:
		// drop
		return
	case r == '\n' || r == '\r':
		if b.prev != '\n' && b.prev != '\r' {
			b.str.WriteByte(' ')
		}
	case unicode.IsSpace(r):
		b.str.WriteByte(' ')
	case unicode.IsControl(r):
		// drop
		return
	default:
		b.str.WriteRune(r)
	}
	b.prev = r
}

// Flush - returns built string and resets internal builder.
// Pending incomplete rune is kept.
func (b *Builder) Flush() string {
	defer b.str.Reset()
	b.prev = 0
	return b.str.String()
}

// Normalize - builds single-line chat text from s.
func Normalize(s string) string {
	b := Builder{}
	b.Write([]byte(s))
	return b.Flush()
}
