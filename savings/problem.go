// Package savings solves the optimal savings problem with the Bellman
// equation
//
//	v(x, z) = max_{0 <= x' <= y} { u(y - x') + beta * E v(x', z') },  y = R*x + w*z
//
// where u is CRRA utility and income z follows a discretized AR(1) log
// process. The value function is computed by iterating the Bellman operator
// to a sup-norm fixed point.
package savings

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Problem holds the primitives of the savings problem and the grids the
// solution is computed on. Immutable once constructed.
type Problem struct {
	Beta  float64 // discount factor
	Gamma float64 // relative risk aversion
	R     float64 // gross return on assets, 1 + r
	W     float64 // wage scale
	P     *mat.Dense
	ZGrid []float64 // income levels, exp of the chain's log states
	XGrid []float64 // asset grid, ascending from zero
}

// NewProblem constructs a savings problem with income discretized by
// Rouwenhorst's method.
func NewProblem(beta, gamma, rho, d, sigma, r, w float64, zGridSize, xGridSize int, xGridMax float64) (*Problem, error) {
	switch {
	case !(beta > 0) || beta >= 1:
		return nil, fmt.Errorf("savings: discount factor must be in (0, 1), got %v", beta)
	case gamma == 1:
		return nil, fmt.Errorf("savings: gamma = 1 (log utility) is not supported")
	case xGridSize < 2 || !(xGridMax > 0):
		return nil, fmt.Errorf("savings: asset grid needs at least two points up to a positive maximum")
	}
	chain, err := Rouwenhorst(zGridSize, d, sigma, rho)
	if err != nil {
		return nil, err
	}
	zGrid := make([]float64, zGridSize)
	for i, s := range chain.States {
		zGrid[i] = math.Exp(s)
	}
	xGrid := make([]float64, xGridSize)
	floats.Span(xGrid, 0, xGridMax)
	return &Problem{
		Beta:  beta,
		Gamma: gamma,
		R:     1 + r,
		W:     w,
		P:     chain.P,
		ZGrid: zGrid,
		XGrid: xGrid,
	}, nil
}

// DefaultProblem returns the parameterization given in the exercise.
func DefaultProblem() (*Problem, error) {
	return NewProblem(0.96, 2.5, 0.9, 0.0, 0.1, 0.05, 1.0, 25, 200, 10)
}

// The small shift keeps utility finite when the whole budget is saved.
func utility(c, gamma float64) float64 {
	return math.Pow(c+1e-10, 1-gamma) / (1 - gamma)
}

// Bellman applies the Bellman operator to v, writing the result to vOut.
// Rows index assets, columns index income states. Columns are independent
// given v, so the operator fans out one goroutine per income state.
func (p *Problem) Bellman(v, vOut *mat.Dense) {
	nx := len(p.XGrid)
	nz := len(p.ZGrid)
	var wg sync.WaitGroup
	wg.Add(nz)
	for j := 0; j < nz; j++ {
		go func(j int) {
			defer wg.Done()
			pj := p.P.RawRowView(j)
			ev := make([]float64, nx)
			for k := 0; k < nx; k++ {
				ev[k] = floats.Dot(v.RawRowView(k), pj)
			}
			z := p.ZGrid[j]
			for i := 0; i < nx; i++ {
				// Cash in hand at the start of the period
				y := p.R*p.XGrid[i] + p.W*z
				maxSoFar := math.Inf(-1)
				// Feasible savings choices satisfy x' <= y
				idx := sort.SearchFloat64s(p.XGrid, y)
				for k := 0; k < idx; k++ {
					val := utility(y-p.XGrid[k], p.Gamma) + p.Beta*ev[k]
					if val > maxSoFar {
						maxSoFar = val
					}
				}
				vOut.Set(i, j, maxSoFar)
			}
		}(j)
	}
	wg.Wait()
}

// FixedPoint iterates the Bellman operator from a constant initial guess
// until successive values differ by less than tol in sup norm. It returns the
// value function and the number of iterations used. verbose prints the error
// every printSkip iterations.
func (p *Problem) FixedPoint(tol float64, maxIter, printSkip int, verbose bool) (*mat.Dense, int, error) {
	if tol <= 0 || maxIter < 1 {
		return nil, 0, fmt.Errorf("savings: need positive tolerance and iteration budget")
	}
	if printSkip < 1 {
		printSkip = 25
	}
	nx := len(p.XGrid)
	nz := len(p.ZGrid)
	vIn := mat.NewDense(nx, nz, nil)
	for i := 0; i < nx; i++ {
		for j := 0; j < nz; j++ {
			vIn.Set(i, j, 1)
		}
	}
	vOut := mat.NewDense(nx, nz, nil)
	for it := 1; it <= maxIter; it++ {
		p.Bellman(vIn, vOut)
		diff := maxAbsDiff(vIn, vOut)
		vIn.Copy(vOut)
		if verbose && it%printSkip == 0 {
			fmt.Printf("error at iteration %d is %g\n", it, diff)
		}
		if diff < tol {
			return vIn, it, nil
		}
	}
	return nil, maxIter, fmt.Errorf("savings: no fixed point within %d iterations", maxIter)
}

func maxAbsDiff(a, b *mat.Dense) float64 {
	ra := a.RawMatrix()
	rb := b.RawMatrix()
	m := 0.0
	for i := range ra.Data {
		if d := math.Abs(ra.Data[i] - rb.Data[i]); d > m {
			m = d
		}
	}
	return m
}
