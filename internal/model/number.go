package model

import "math"

// UndefinedMantissa marks a Number that carries no value yet.
const UndefinedMantissa int64 = math.MaxInt64

// Number is an exact fixed-point decimal: value = significand * 10^exponent.
// All business-logic comparisons and rounding run on the significand/exponent
// pair; Value is for display only.
type Number struct {
	significand int64
	exponent    int
}

func NewNumber(significand int64, exponent int) Number {
	return Number{significand: significand, exponent: exponent}
}

// Undefined returns the sentinel Number, for which HasValue reports false.
func Undefined() Number {
	return Number{significand: UndefinedMantissa}
}

func (n Number) Significand() int64 {
	return n.significand
}

func (n Number) Exponent() int {
	return n.exponent
}

func (n Number) HasValue() bool {
	return n.significand != UndefinedMantissa
}

// Value converts to float64 for logging and telemetry. Never feed the result
// back into a decision path.
func (n Number) Value() float64 {
	if n.exponent < 0 {
		return float64(n.significand) / floatFactor(-n.exponent)
	}

	return float64(n.significand) * floatFactor(n.exponent)
}

// Integer returns the whole part of the value.
func (n Number) Integer() int64 {
	if n.exponent < 0 {
		f, ok := pow10(-n.exponent)
		if !ok {
			return 0
		}
		return n.significand / f
	}

	f, ok := pow10(n.exponent)
	if !ok {
		return 0
	}
	return n.significand * f
}

// Fraction returns the fractional digits of the value in significand units.
func (n Number) Fraction() int64 {
	if n.exponent >= 0 {
		return 0
	}

	f, ok := pow10(-n.exponent)
	if !ok {
		return 0
	}
	return n.significand - n.Integer()*f
}

// Add sums two fixed-point values, rescaling significands to the finer
// exponent. Falls back through float64 only when the rescale would overflow
// int64.
func (n Number) Add(o Number) Number {
	if n.exponent == o.exponent {
		return Number{significand: n.significand + o.significand, exponent: n.exponent}
	}

	a, b, exp, ok := align(n, o)
	if !ok {
		return fromFloat(n.Value()+o.Value(), n.exponent)
	}
	return Number{significand: a + b, exponent: exp}
}

// AddScalar adds a float constant expressed in value units.
func (n Number) AddScalar(a float64) Number {
	return Number{significand: n.significand + scalarUnits(a, n.exponent), exponent: n.exponent}
}

// SubScalar subtracts a float constant expressed in value units.
func (n Number) SubScalar(s float64) Number {
	return Number{significand: n.significand - scalarUnits(s, n.exponent), exponent: n.exponent}
}

// DivScalar divides the value, truncating to the current exponent.
func (n Number) DivScalar(d float64) Number {
	return Number{significand: int64(float64(n.significand) / d), exponent: n.exponent}
}

// ModRing rounds the value to the nearest multiple of increment, ties going
// to the even multiple. The result is expressed at the finer of the two
// exponents. A zero or unset increment leaves the value untouched; callers
// are expected to guard with HasValue.
func (n Number) ModRing(increment Number) Number {
	if !increment.HasValue() || increment.significand == 0 {
		return n
	}

	a, m, exp, ok := align(n, increment)
	if !ok || m == 0 {
		units := math.RoundToEven(n.Value()/increment.Value()) * increment.Value()
		return fromFloat(units, n.exponent)
	}
	if m < 0 {
		m = -m
	}

	q := a / m
	r := a % m
	if r < 0 {
		r += m
		q--
	}

	switch {
	case 2*r > m:
		q++
	case 2*r == m && q%2 != 0:
		q++
	}

	return Number{significand: q * m, exponent: exp}
}

// Less orders two values by cross-multiplying significands to a common
// exponent. No floats are involved: a rescale that overflows int64 already
// decides the comparison by sign.
func (n Number) Less(o Number) bool {
	diff := n.exponent - o.exponent

	s1 := n.significand
	s2 := o.significand

	switch {
	case diff == 0:
		return s1 < s2
	case diff > 0:
		scaled, ok := rescale(s1, diff)
		if !ok {
			return s1 < 0
		}
		s1 = scaled
	default:
		scaled, ok := rescale(s2, -diff)
		if !ok {
			return s2 > 0
		}
		s2 = scaled
	}

	return s1 < s2
}

// Ne reports whether two values differ in either direction. The only order
// primitive is Less, so inequality is a<b || b<a.
func (n Number) Ne(o Number) bool {
	return n.Less(o) || o.Less(n)
}

func align(a, b Number) (sa, sb int64, exp int, ok bool) {
	exp = a.exponent
	if b.exponent < exp {
		exp = b.exponent
	}

	sa, ok = rescale(a.significand, a.exponent-exp)
	if !ok {
		return 0, 0, 0, false
	}
	sb, ok = rescale(b.significand, b.exponent-exp)
	if !ok {
		return 0, 0, 0, false
	}
	return sa, sb, exp, true
}

func rescale(significand int64, diff int) (int64, bool) {
	if diff == 0 || significand == 0 {
		return significand, true
	}

	f, ok := pow10(diff)
	if !ok {
		return 0, false
	}

	scaled := significand * f
	if scaled/f != significand {
		return 0, false
	}
	return scaled, true
}

func pow10(n int) (int64, bool) {
	if n < 0 || n > 18 {
		return 0, false
	}

	f := int64(1)
	for i := 0; i < n; i++ {
		f *= 10
	}
	return f, true
}

func floatFactor(n int) float64 {
	f := 1.0
	for i := 0; i < n; i++ {
		f *= 10
	}
	return f
}

func scalarUnits(v float64, exponent int) int64 {
	if exponent < 0 {
		return int64(math.Round(v * floatFactor(-exponent)))
	}
	return int64(math.Round(v / floatFactor(exponent)))
}

func fromFloat(v float64, exponent int) Number {
	return Number{significand: scalarUnits(v, exponent), exponent: exponent}
}
