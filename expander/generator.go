package expander

import (
	"fmt"
	"iter"
	"math"
	"strings"

	"github.com/shibukawa/snapdomain/pattern"
)

// Generate yields the expansion of d lazily, in a stable order and without
// deduplication. Every result is produced independently from its index, so
// stopping early never enumerates more of a label than the results it emits.
//
// Ordering: labels and sequence elements vary rightmost first; an optional
// element yields the empty string before its primary; alternation options keep
// their written order; repetitions are ordered by count, then by characters in
// Universe order.
func Generate(d *pattern.Domain) iter.Seq[string] {
	return generate(newCounter(d.Arena, math.MaxUint64), d)
}

func generate(c *counter, d *pattern.Domain) iter.Seq[string] {
	return func(yield func(string) bool) {
		g := &generator{counter: c}
		total := c.domain(d)
		digits := make([]uint64, len(d.Labels))

		for i := uint64(0); i < total; i++ {
			rest := i
			for j := len(d.Labels) - 1; j >= 0; j-- {
				n := c.counts[d.Labels[j].Body]
				digits[j] = rest % n
				rest /= n
			}

			var sb strings.Builder

			for j, label := range d.Labels {
				if j > 0 {
					sb.WriteByte('.')
				}

				g.decode(&sb, label.Body, digits[j])
			}

			if !yield(sb.String()) {
				return
			}
		}
	}
}

type frame struct {
	id    pattern.NodeID
	index uint64
}

// generator unranks one index at a time. The work stack replaces recursion so
// deeply nested groups cannot grow the goroutine stack.
type generator struct {
	counter *counter
	stack   []frame
	chars   []byte
}

func (g *generator) push(id pattern.NodeID, index uint64) {
	g.stack = append(g.stack, frame{id: id, index: index})
}

// decode writes the index-th string of node root. index must be below the
// node's count.
func (g *generator) decode(sb *strings.Builder, root pattern.NodeID, index uint64) {
	c := g.counter
	g.stack = g.stack[:0]
	g.push(root, index)

	for len(g.stack) > 0 {
		f := g.stack[len(g.stack)-1]
		g.stack = g.stack[:len(g.stack)-1]

		switch n := c.arena.Node(f.id).(type) {
		case pattern.Literal:
			sb.WriteString(n.Text)
		case pattern.CharClass:
			chars := n.Set.Chars()
			base := uint64(len(chars))
			r, idx := c.block(base, n.Repeat, f.index)

			g.chars = g.chars[:0]
			for range r {
				g.chars = append(g.chars, 0)
			}

			for j := r - 1; j >= 0; j-- {
				g.chars[j] = chars[idx%base]
				idx /= base
			}

			sb.Write(g.chars)
		case pattern.Alternation:
			idx := f.index
			for _, opt := range n.Options {
				if idx < c.counts[opt] {
					g.push(opt, idx)
					break
				}

				idx -= c.counts[opt]
			}
		case pattern.Group:
			base := c.counts[n.Body]
			r, idx := c.block(base, n.Repeat, f.index)

			// Rightmost repetition is pushed first so the leftmost is written first.
			for range r {
				g.push(n.Body, idx%base)
				idx /= base
			}
		case pattern.Sequence:
			idx := f.index
			for j := len(n.Elements) - 1; j >= 0; j-- {
				el := n.Elements[j]
				size := c.element(el)
				digit := idx % size
				idx /= size

				if el.Optional {
					if digit == 0 {
						continue
					}

					digit--
				}

				g.push(el.Primary, digit)
			}
		default:
			panic(fmt.Sprintf("expander: unknown node type %T", n))
		}
	}
}

// block locates index within a repetition: it returns the repeat count r and
// the index relative to the first string of length r.
func (c *counter) block(base uint64, rep pattern.Repetition, index uint64) (int, uint64) {
	for r := rep.Min; r < rep.Max; r++ {
		size := c.limit.pow(base, r)
		if index < size {
			return r, index
		}

		index -= size
	}

	return rep.Max, index
}
