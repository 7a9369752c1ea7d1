package scoring

import (
	"math"
	"math/big"
)

// MaxScore is the top of the Likert scale; percentages are relative to it.
const MaxScore = 10.0

// Round1 rounds half away from zero to one decimal. This is how a NUMERIC(…,1) column rounds,
// so it is used for the persisted forms.
func Round1(v float64) float64 { return roundTo(v, 10) }

// Round2 rounds half away from zero to two decimals.
func Round2(v float64) float64 { return roundTo(v, 100) }

func roundTo(v, scale float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return math.Round(v*scale) / scale
}

// RoundEven1 rounds to one decimal with ties going to the even digit, judged on the exact
// binary value of v. 8.25 becomes 8.2 while 0.35, which is stored as 0.34999…, becomes 0.3.
// Displayed values and the area mean use this rule.
func RoundEven1(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	// 53 mantissa bits times 10 fits well inside 128 bits, so the product is exact.
	scaled := new(big.Float).SetPrec(128).SetFloat64(v)
	scaled.Mul(scaled, big.NewFloat(10))

	whole, _ := scaled.Int(nil) // truncates toward zero
	frac := new(big.Float).SetPrec(128).Sub(scaled, new(big.Float).SetInt(whole))
	frac.Abs(frac)

	switch frac.Cmp(big.NewFloat(0.5)) {
	case 1:
		whole.Add(whole, big.NewInt(int64(scaled.Sign())))
	case 0:
		if whole.Bit(0) == 1 {
			whole.Add(whole, big.NewInt(int64(scaled.Sign())))
		}
	}
	n, _ := new(big.Float).SetInt(whole).Float64()
	return n / 10
}

// Percentage converts an average on the 0..10 scale to 0..100.
func Percentage(avg float64) float64 {
	return avg / MaxScore * 100
}

// Mean returns the arithmetic mean and false for an empty slice.
func Mean(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values)), true
}
