package mc

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/optimize"
)

// ImpliedVol finds the constant per-step volatility sigma such that the
// discounted lognormal call price matches px. The search runs over log sigma
// so the domain is unconstrained, minimizing squared pricing error with
// Nelder-Mead.
func ImpliedVol(px, s0, k, beta, mu float64, n int) (float64, error) {
	if !(s0 > 0) || k < 0 || !(beta > 0) || beta > 1 || n < 1 {
		return math.NaN(), fmt.Errorf("%w: implied vol inputs out of range", ErrInvalidParameter)
	}
	if px < 0 {
		return math.NaN(), fmt.Errorf("%w: price must be non-negative, got %v", ErrInvalidParameter, px)
	}
	disc := math.Pow(beta, float64(n))
	m := math.Log(s0) + float64(n)*mu
	problem := optimize.Problem{
		Func: func(par []float64) float64 {
			s := math.Exp(par[0]) * math.Sqrt(float64(n))
			v := disc*LognormalCall(m, s, k) - px
			return v * v
		},
	}
	res, err := optimize.Minimize(problem, []float64{math.Log(0.2)}, nil, &optimize.NelderMead{})
	if err != nil {
		return math.NaN(), err
	}
	sigma := math.Exp(res.X[0])
	if math.Sqrt(res.F) > 1e-4*(1+px) {
		return math.NaN(), fmt.Errorf("implied vol did not converge: residual %v", math.Sqrt(res.F))
	}
	return sigma, nil
}
