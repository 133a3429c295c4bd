package stats

import "math"

// kahan is a Neumaier compensated sum; per-isolate totals add up millions
// of small 1/L fractions.
type kahan struct {
	sum, comp float64
}

func (k *kahan) add(x float64) {
	t := k.sum + x
	if math.Abs(k.sum) >= math.Abs(x) {
		k.comp += (k.sum - t) + x
	} else {
		k.comp += (x - t) + k.sum
	}
	k.sum = t
}

func (k kahan) value() float64 { return k.sum + k.comp }

// accum holds the four running sums tracked per isolate and globally.
type accum struct {
	count, length, h1, c1 kahan
}

func (a *accum) add(weight, length, h1, c1 float64) {
	a.count.add(weight)
	a.length.add(length)
	a.h1.add(h1)
	a.c1.add(c1)
}
