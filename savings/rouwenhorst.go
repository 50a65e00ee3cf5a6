package savings

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// MarkovChain is a finite-state discretization of the AR(1) log income
// process log z' = rho*log z + d + sigma*eta.
type MarkovChain struct {
	P      *mat.Dense // transition probabilities, row = current state
	States []float64  // log state values, evenly spaced
}

// Rouwenhorst discretizes the AR(1) process onto n states. Unlike
// Tauchen-style grids it matches the conditional mean and variance exactly
// for any persistence, which matters here with rho close to one.
func Rouwenhorst(n int, d, sigma, rho float64) (MarkovChain, error) {
	switch {
	case n < 1:
		return MarkovChain{}, fmt.Errorf("rouwenhorst: need at least one state, got %d", n)
	case sigma < 0:
		return MarkovChain{}, fmt.Errorf("rouwenhorst: sigma must be non-negative, got %v", sigma)
	case math.Abs(rho) >= 1:
		return MarkovChain{}, fmt.Errorf("rouwenhorst: |rho| must be less than one, got %v", rho)
	}
	mean := d / (1 - rho)
	if n == 1 {
		return MarkovChain{P: mat.NewDense(1, 1, []float64{1}), States: []float64{mean}}, nil
	}

	p := (1 + rho) / 2
	theta := mat.NewDense(2, 2, []float64{p, 1 - p, 1 - p, p})
	for k := 3; k <= n; k++ {
		next := mat.NewDense(k, k, nil)
		for i := 0; i < k-1; i++ {
			for j := 0; j < k-1; j++ {
				v := theta.At(i, j)
				next.Set(i, j, next.At(i, j)+p*v)
				next.Set(i, j+1, next.At(i, j+1)+(1-p)*v)
				next.Set(i+1, j, next.At(i+1, j)+(1-p)*v)
				next.Set(i+1, j+1, next.At(i+1, j+1)+p*v)
			}
		}
		// Interior rows received two overlapping copies.
		for i := 1; i < k-1; i++ {
			for j := 0; j < k; j++ {
				next.Set(i, j, next.At(i, j)/2)
			}
		}
		theta = next
	}

	// Stationary std of the log process sets the grid span.
	span := sigma / math.Sqrt(1-rho*rho) * math.Sqrt(float64(n-1))
	states := make([]float64, n)
	floats.Span(states, mean-span, mean+span)
	return MarkovChain{P: theta, States: states}, nil
}
