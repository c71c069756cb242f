// Package expander computes expansion sizes and generates the strings a parsed
// pattern expands to.
package expander

import (
	"iter"
	"math"

	"github.com/shibukawa/snapdomain/pattern"
)

// DefaultMaxExpansion is the limit used when callers have no better choice.
const DefaultMaxExpansion = 1_000_000

// PreviewResult is a bounded sample of an expansion.
type PreviewResult struct {
	Domains   []string    `json:"domains"`
	Total     Cardinality `json:"total"`
	Truncated bool        `json:"truncated"`
}

// Expand returns the deduplicated expansion of d in generation order. It fails
// with *ExpansionError before generating anything when Size(d) exceeds
// maxExpansion. A maxExpansion of zero or less disables the limit, but an
// unbounded size is always rejected.
func Expand(d *pattern.Domain, maxExpansion int) ([]string, error) {
	size := Size(d)
	if err := checkLimit(size, maxExpansion); err != nil {
		return nil, err
	}

	set := newCollector(initialCapacity(size))
	set.addAll(Generate(d), -1)

	return set.items, nil
}

// ExpandDocument expands every expression of doc and returns the union of the
// results in declaration order. The limit applies to DocumentSize(doc).
func ExpandDocument(doc *pattern.Document, maxExpansion int) ([]string, error) {
	size := DocumentSize(doc)
	if err := checkLimit(size, maxExpansion); err != nil {
		return nil, err
	}

	set := newCollector(initialCapacity(size))
	c := newCounter(doc.Arena, math.MaxUint64)

	for _, d := range doc.Domains {
		set.addAll(generate(c, d), -1)
	}

	return set.items, nil
}

// Preview returns at most limit results of d. It never fails: Total carries
// the full size and Truncated reports whether Total exceeds limit. Duplicates
// among the generated results are dropped, so Domains can be shorter than
// limit even when Truncated is set.
func Preview(d *pattern.Domain, limit int) PreviewResult {
	limit = max(limit, 0)
	total := Size(d)

	set := newCollector(min(limit, 1024))
	set.addAll(Generate(d), limit)

	return PreviewResult{
		Domains:   set.items,
		Total:     total,
		Truncated: total.Exceeds(limit),
	}
}

// PreviewDocument previews the expressions of doc in declaration order. Each
// expression receives the budget left over by the ones before it, and
// generation stops as soon as limit distinct results have been collected.
func PreviewDocument(doc *pattern.Document, limit int) PreviewResult {
	limit = max(limit, 0)
	total := DocumentSize(doc)

	set := newCollector(min(limit, 1024))
	c := newCounter(doc.Arena, math.MaxUint64)

	for _, d := range doc.Domains {
		remaining := limit - len(set.items)
		if remaining <= 0 {
			break
		}

		set.addAll(generate(c, d), remaining)
	}

	return PreviewResult{
		Domains:   set.items,
		Total:     total,
		Truncated: total.Exceeds(limit),
	}
}

func checkLimit(size Cardinality, maxExpansion int) error {
	if size.IsUnbounded() || (maxExpansion > 0 && size.Exceeds(maxExpansion)) {
		return &ExpansionError{Size: size, Limit: maxExpansion}
	}

	return nil
}

func initialCapacity(size Cardinality) int {
	n, _ := size.Value()
	return int(min(n, 1<<16))
}

// collector keeps the first occurrence of every string.
type collector struct {
	seen  map[string]struct{}
	items []string
}

func newCollector(capacity int) *collector {
	return &collector{
		seen:  make(map[string]struct{}, capacity),
		items: make([]string, 0, capacity),
	}
}

// addAll consumes up to budget generated strings (all of them when budget is
// negative).
func (c *collector) addAll(seq iter.Seq[string], budget int) {
	if budget == 0 {
		return
	}

	taken := 0

	for s := range seq {
		if _, ok := c.seen[s]; !ok {
			c.seen[s] = struct{}{}
			c.items = append(c.items, s)
		}

		taken++
		if budget > 0 && taken >= budget {
			return
		}
	}
}
