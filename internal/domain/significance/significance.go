// Package significance implements a one-sided test of proportions using the
// normal approximation to the binomial distribution.
//
// All functions are pure. Invalid arguments are contract violations and are
// returned as errors to the immediate caller.
package significance

import (
	"fmt"
	"math"
)

// Abramowitz & Stegun 7.1.26 coefficients, |error| <= 1.5e-7.
const (
	asP  = 0.3275911
	asA1 = 0.254829592
	asA2 = -0.284496736
	asA3 = 1.421413741
	asA4 = -1.453152027
	asA5 = 1.061405429
)

// Erfc approximates the complementary error function.
// For x >= 0 the rational form is evaluated directly, so the upper tail does
// not lose precision to cancellation.
func Erfc(x float64) float64 {
	if math.IsNaN(x) {
		return math.NaN()
	}
	if x < 0 {
		return 2 - Erfc(-x)
	}
	t := 1 / (1 + asP*x)
	poly := t * (asA1 + t*(asA2+t*(asA3+t*(asA4+t*asA5))))
	return poly * math.Exp(-x*x)
}

// Erf approximates the error function.
func Erf(x float64) float64 {
	return 1 - Erfc(x)
}

// NormalSF returns P(Z > z) for a standard normal Z.
func NormalSF(z float64) float64 {
	return clamp01(0.5 * Erfc(z/math.Sqrt2))
}

// ZScore returns the z-statistic of successCount/sampleSize against nullProportion,
// with standard error sqrt(p0*(1-p0)/n).
func ZScore(sampleSize, successCount, nullProportion float64) (float64, error) {
	if err := validate(sampleSize, successCount, nullProportion); err != nil {
		return 0, err
	}
	observed := successCount / sampleSize
	se := math.Sqrt(nullProportion * (1 - nullProportion) / sampleSize)
	return (observed - nullProportion) / se, nil
}

// PValue returns the one-sided p-value for the alternative "true proportion is
// greater than nullProportion". It is non-increasing in successCount for a
// fixed sample size and always lies in [0, 1].
func PValue(sampleSize, successCount, nullProportion float64) (float64, error) {
	z, err := ZScore(sampleSize, successCount, nullProportion)
	if err != nil {
		return 0, err
	}
	return NormalSF(z), nil
}

func validate(sampleSize, successCount, nullProportion float64) error {
	if math.IsNaN(sampleSize) || math.IsInf(sampleSize, 0) || sampleSize <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidSampleSize, sampleSize)
	}
	if math.IsNaN(successCount) || successCount < 0 || successCount > sampleSize {
		return fmt.Errorf("%w: success count %v not in [0, %v]", ErrInvalidInput, successCount, sampleSize)
	}
	if math.IsNaN(nullProportion) || nullProportion <= 0 || nullProportion >= 1 {
		return fmt.Errorf("%w: null proportion %v not in (0, 1)", ErrInvalidInput, nullProportion)
	}
	return nil
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
