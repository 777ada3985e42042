// Package strings provides pooled string building utilities for tabular,
// plus the escape-aware split/join used by the column flag grammar.
package strings

import (
	"fmt"
	"strconv"
	"sync"
	"unsafe"
)

// BytesToString converts byte slice to string without allocation.
// WARNING: The returned string shares memory with the byte slice.
// Do not modify the byte slice after calling this function.
func BytesToString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(&b[0], len(b))
}

// Builder provides efficient string building over a reusable byte buffer.
type Builder struct {
	buf []byte
}

// NewBuilder creates a new string builder with the given capacity.
func NewBuilder(capacity int) *Builder {
	return &Builder{
		buf: make([]byte, 0, capacity),
	}
}

// WriteString appends a string to the builder.
func (b *Builder) WriteString(s string) {
	b.buf = append(b.buf, s...)
}

// WriteByte appends a single byte.
func (b *Builder) WriteByte(c byte) error {
	b.buf = append(b.buf, c)
	return nil
}

// Write implements io.Writer.
func (b *Builder) Write(p []byte) (n int, err error) {
	b.buf = append(b.buf, p...)
	return len(p), nil
}

// String returns the built string using zero-copy conversion.
func (b *Builder) String() string {
	return BytesToString(b.buf)
}

// Len returns the length of the built string.
func (b *Builder) Len() int {
	return len(b.buf)
}

// Reset resets the builder for reuse.
func (b *Builder) Reset() {
	b.buf = b.buf[:0]
}

// Clone creates a copy of a string (useful when you need to own the memory).
func Clone(s string) string {
	if len(s) == 0 {
		return ""
	}
	b := make([]byte, len(s))
	copy(b, s)
	return BytesToString(b)
}

var builderPool = &sync.Pool{
	New: func() interface{} {
		return NewBuilder(1024)
	},
}

// GetBuilder retrieves a pooled builder.
func GetBuilder() *Builder {
	b := builderPool.Get().(*Builder)
	b.Reset()
	return b
}

// PutBuilder returns a builder to the pool.
func PutBuilder(b *Builder) {
	if b == nil {
		return
	}
	b.Reset()
	builderPool.Put(b)
}

// Sprintf provides a pooled alternative to fmt.Sprintf.
func Sprintf(format string, args ...interface{}) string {
	if len(args) == 0 {
		return format
	}

	b := GetBuilder()
	defer PutBuilder(b)

	fmt.Fprintf(b, format, args...)
	return Clone(b.String())
}

// ValueToString converts interface{} values to strings without the fmt
// overhead for the common scalar types found in table cells.
func ValueToString(value interface{}) string {
	if value == nil {
		return ""
	}

	switch v := value.(type) {
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case []byte:
		return BytesToString(v)
	default:
		return Sprintf("%v", value)
	}
}

// EscapeSplit splits s on unescaped occurrences of sep. A backslash
// escapes an embedded separator; the escape is removed from the output
// tokens.
func EscapeSplit(s string, sep byte) []string {
	if s == "" {
		return nil
	}

	var tokens []string
	b := GetBuilder()
	defer PutBuilder(b)

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\' && i+1 < len(s) && s[i+1] == sep:
			b.WriteByte(sep)
			i++
		case c == sep:
			tokens = append(tokens, Clone(b.String()))
			b.Reset()
		default:
			b.WriteByte(c)
		}
	}
	tokens = append(tokens, Clone(b.String()))
	return tokens
}

// EscapeJoin joins tokens with sep, escaping embedded separators with a
// backslash. Empty tokens are dropped.
func EscapeJoin(tokens []string, sep byte) string {
	b := GetBuilder()
	defer PutBuilder(b)

	for _, tok := range tokens {
		if tok == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(sep)
		}
		for i := 0; i < len(tok); i++ {
			if tok[i] == sep {
				b.WriteByte('\\')
			}
			b.WriteByte(tok[i])
		}
	}
	return Clone(b.String())
}
