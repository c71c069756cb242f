package expander

import "math/bits"

// ceiling saturates counts: every result is min(exact value, ceiling).
// Saturation composes, so a saturated child yields a saturated parent.
type ceiling uint64

func (c ceiling) clamp(v uint64) uint64 {
	return min(v, uint64(c))
}

func (c ceiling) add(x, y uint64) uint64 {
	sum, carry := bits.Add64(x, y, 0)
	if carry != 0 {
		return uint64(c)
	}

	return c.clamp(sum)
}

func (c ceiling) mul(x, y uint64) uint64 {
	hi, lo := bits.Mul64(x, y)
	if hi != 0 {
		return uint64(c)
	}

	return c.clamp(lo)
}

func (c ceiling) pow(base uint64, exp int) uint64 {
	result := c.clamp(1)
	for range exp {
		if result == uint64(c) || result == 0 {
			break
		}

		result = c.mul(result, base)
	}

	return result
}

// repeat counts Σ base^r for r in [lo, hi].
func (c ceiling) repeat(base uint64, lo, hi int) uint64 {
	switch base {
	case 0:
		if lo == 0 {
			return c.clamp(1)
		}

		return 0
	case 1:
		return c.clamp(uint64(hi - lo + 1))
	}

	term := c.pow(base, lo)
	total := term

	for r := lo + 1; r <= hi && total < uint64(c); r++ {
		term = c.mul(term, base)
		total = c.add(total, term)
	}

	return total
}
