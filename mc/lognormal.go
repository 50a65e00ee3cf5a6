package mc

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/integrate/quad"
	"gonum.org/v1/gonum/stat/distuv"
)

// LognormalCall returns E[max(S - K, 0)] for ln S ~ N(m, s*s). This is the
// closed-form benchmark for the degenerate Nu=0 model: discounting the result
// by beta^n gives the exact price the Monte Carlo estimator converges to.
func LognormalCall(m, s, k float64) float64 {
	if k <= 0 {
		return math.Exp(m+0.5*s*s) - k
	}
	if s == 0 {
		return math.Max(math.Exp(m)-k, 0)
	}
	d1 := (m - math.Log(k) + s*s) / s
	d2 := d1 - s
	return math.Exp(m+0.5*s*s)*distuv.UnitNormal.CDF(d1) - k*distuv.UnitNormal.CDF(d2)
}

// LognormalCallQuad computes the same expectation by Gauss-Hermite quadrature
// of the max payoff against the normal density. Cross-check for LognormalCall.
func LognormalCallQuad(m, s, k float64, n int) float64 {
	if s == 0 {
		return math.Max(math.Exp(m)-k, 0)
	}
	f := func(x float64) float64 {
		return math.Max(math.Exp(m+s*math.Sqrt2*x)-k, 0) / math.SqrtPi
	}
	return quad.Fixed(f, math.Inf(-1), math.Inf(1), n, quad.Hermite{}, 0)
}

// ClosedForm prices the Nu=0 parameter set exactly. It is only defined for
// the degenerate model; for Nu > 0 no closed form exists and the Monte Carlo
// estimator is the answer.
func ClosedForm(p Params) (float64, error) {
	if err := p.Validate(); err != nil {
		return math.NaN(), err
	}
	if p.Nu != 0 {
		return math.NaN(), fmt.Errorf("%w: closed form requires nu = 0, got %v", ErrInvalidParameter, p.Nu)
	}
	m := math.Log(p.S0) + float64(p.N)*p.Mu
	s := p.Model().ConstVolStd()
	disc := math.Pow(p.Beta, float64(p.N))
	return disc * LognormalCall(m, s, p.K), nil
}
