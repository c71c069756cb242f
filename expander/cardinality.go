package expander

import (
	"fmt"
	"strconv"

	"github.com/shibukawa/snapdomain/pattern"
)

// MaxSafeSize is the largest count reported exactly. Anything above it is
// reported as unbounded.
const MaxSafeSize = 1<<53 - 1

// Cardinality is the number of strings an expression expands to, counting
// duplicates across alternation options and optional elements. It is an
// upper bound on the number of distinct results.
type Cardinality struct {
	n         uint64
	unbounded bool
}

// Unbounded is the size of any expansion larger than MaxSafeSize.
var Unbounded = Cardinality{unbounded: true}

// Exact returns a bounded size. Values above MaxSafeSize become Unbounded.
func Exact(n uint64) Cardinality {
	if n > MaxSafeSize {
		return Unbounded
	}

	return Cardinality{n: n}
}

// Value returns the count; ok is false when the size is unbounded.
func (s Cardinality) Value() (n uint64, ok bool) {
	return s.n, !s.unbounded
}

func (s Cardinality) IsUnbounded() bool {
	return s.unbounded
}

// Exceeds reports whether s is larger than limit.
func (s Cardinality) Exceeds(limit int) bool {
	if s.unbounded {
		return true
	}

	if limit < 0 {
		return true
	}

	return s.n > uint64(limit)
}

func (s Cardinality) Add(o Cardinality) Cardinality {
	if s.unbounded || o.unbounded {
		return Unbounded
	}

	return fromCount(sizeCeiling.add(s.n, o.n))
}

func (s Cardinality) String() string {
	if s.unbounded {
		return "unbounded"
	}

	return strconv.FormatUint(s.n, 10)
}

func (s Cardinality) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

const sizeCeiling ceiling = MaxSafeSize + 1

func fromCount(n uint64) Cardinality {
	if n >= uint64(sizeCeiling) {
		return Unbounded
	}

	return Cardinality{n: n}
}

// Size computes the expansion size of d without generating anything.
func Size(d *pattern.Domain) Cardinality {
	c := newCounter(d.Arena, sizeCeiling)
	return fromCount(c.domain(d))
}

// DocumentSize is the sum of the sizes of the document's expressions.
func DocumentSize(doc *pattern.Document) Cardinality {
	c := newCounter(doc.Arena, sizeCeiling)
	total := Exact(0)

	for _, d := range doc.Domains {
		total = total.Add(fromCount(c.domain(d)))
	}

	return total
}

// counter holds saturated counts for every node of an arena. Counts are filled
// in a single forward pass because children precede their parents.
type counter struct {
	arena  *pattern.Arena
	limit  ceiling
	counts []uint64
}

func newCounter(arena *pattern.Arena, limit ceiling) *counter {
	c := &counter{
		arena:  arena,
		limit:  limit,
		counts: make([]uint64, arena.Len()),
	}

	for i := range c.counts {
		c.counts[i] = c.node(pattern.NodeID(i))
	}

	return c
}

func (c *counter) node(id pattern.NodeID) uint64 {
	switch n := c.arena.Node(id).(type) {
	case pattern.Literal:
		return 1
	case pattern.CharClass:
		return c.limit.repeat(uint64(n.Set.Len()), n.Repeat.Min, n.Repeat.Max)
	case pattern.Alternation:
		var total uint64
		for _, opt := range n.Options {
			total = c.limit.add(total, c.counts[opt])
		}

		return total
	case pattern.Group:
		return c.limit.repeat(c.counts[n.Body], n.Repeat.Min, n.Repeat.Max)
	case pattern.Sequence:
		total := c.limit.clamp(1)
		for _, el := range n.Elements {
			total = c.limit.mul(total, c.element(el))
		}

		return total
	default:
		panic(fmt.Sprintf("expander: unknown node type %T", n))
	}
}

func (c *counter) element(el pattern.Element) uint64 {
	n := c.counts[el.Primary]
	if el.Optional {
		return c.limit.add(n, 1)
	}

	return n
}

func (c *counter) domain(d *pattern.Domain) uint64 {
	total := c.limit.clamp(1)
	for _, label := range d.Labels {
		total = c.limit.mul(total, c.counts[label.Body])
	}

	return total
}
