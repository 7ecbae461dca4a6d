package stats

// Fixed point IIR averaging filter:
//
//	y(n)   = 0.875*y(n-1) + 0.125*x(n)
//	8*y(n) = 8*y(n-1) - (8*y(n-1) >> 3) + x(n)
//
// The accumulator holds 8*y(n) (three fractional bits). The shifts are
// arithmetic, so negative inputs such as dBm readings round toward negative
// infinity exactly like the integer implementation other tools compare
// against.

// IIRAverage folds x into the scaled accumulator and returns the new value.
func IIRAverage(acc, x int) int {
	return acc - (acc >> 3) + x
}

// IIRValue reads the average back out of a scaled accumulator.
func IIRValue(acc int) int {
	return acc >> 3
}

// FixedPointAverager is a scaled accumulator with the IIR helpers as methods.
// The zero value is an empty average.
type FixedPointAverager int

func (a *FixedPointAverager) Add(x int) {
	*a = FixedPointAverager(IIRAverage(int(*a), x))
}

func (a FixedPointAverager) Value() int {
	return IIRValue(int(a))
}
