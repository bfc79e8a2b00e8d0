package codec

// widthPolicy chooses the bit width of a PFOR block from the histogram of the
// bit lengths of its values: hist[k] counts values needing exactly k bits.
type widthPolicy interface {
	selectWidth(hist *[65]int, n, maxBits, posBits int) int

	// maxExceptions bounds the exceptions a block of n values can produce.
	// The bound feeds MaxCompressedLength.
	maxExceptions(n int) int
}

// fixedPolicy picks the smallest width leaving at most percent% of the block
// as exceptions. One pass over the histogram, no cost model.
type fixedPolicy struct {
	percent int
}

func (p fixedPolicy) maxExceptions(n int) int {
	return n * p.percent / 100
}

func (p fixedPolicy) selectWidth(hist *[65]int, n, maxBits, _ int) int {
	limit := p.maxExceptions(n)
	exceeding := 0
	for b := maxBits; b >= 0; b-- {
		// exceeding counts the values wider than b.
		if exceeding > limit {
			return b + 1
		}
		exceeding += hist[b]
	}

	return 0
}

// optimalPolicy evaluates every width and keeps the cheapest in bits:
// n*b for the packed values plus, per exception, its position and excess bits.
// Ties go to the smaller width.
type optimalPolicy struct{}

// maxExceptions is zero because the chosen cost never exceeds packing every
// value at maxBits, which produces no exceptions.
func (optimalPolicy) maxExceptions(int) int {
	return 0
}

func (optimalPolicy) selectWidth(hist *[65]int, n, maxBits, posBits int) int {
	best, bestCost := maxBits, n*maxBits
	exceeding := 0
	for b := maxBits; b >= 0; b-- {
		cost := n*b + exceeding*(posBits+maxBits-b)
		if cost <= bestCost {
			best, bestCost = b, cost
		}
		exceeding += hist[b]
	}

	return best
}
