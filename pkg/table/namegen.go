package table

import (
	"strconv"
)

// NameGen hands out sequential generated column names ("Feature 1",
// "Feature 2", ...). One generator is scoped to a whole read, so
// generated names never collide within a file.
type NameGen struct {
	prefix string
	next   int
}

// NewNameGen creates a generator starting at start.
func NewNameGen(prefix string, start int) *NameGen {
	return &NameGen{prefix: prefix, next: start}
}

// Next returns the next generated name.
func (g *NameGen) Next() string {
	name := g.prefix + strconv.Itoa(g.next)
	g.next++
	return name
}
