package mc

import (
	"errors"
	"fmt"
	"math"
	"runtime"
	"sync"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// ErrInvalidParameter is returned, wrapped, for any pricing input that would
// produce NaN or garbage rather than an estimate.
var ErrInvalidParameter = errors.New("invalid parameter")

// Params collects the inputs of the pricing exercise.
type Params struct {
	Beta float64 // per-period discount factor, 0 < Beta <= 1
	Mu   float64 // per-step drift of log returns
	S0   float64 // initial price
	H0   float64 // initial log volatility
	K    float64 // strike
	N    int     // steps to expiry
	Rho  float64 // log volatility persistence
	Nu   float64 // volatility shock scale
	M    int     // Monte Carlo sample count
}

// Default returns the literal parameter set given in the exercise.
func Default() Params {
	return Params{
		Beta: 0.96,
		Mu:   0.005,
		S0:   10.0,
		H0:   0.0,
		K:    100.0,
		N:    10,
		Rho:  0.5,
		Nu:   0.01,
		M:    5_000_000,
	}
}

// Model returns the simulation model implied by the parameters.
func (p Params) Model() SV {
	return SV{Mu: p.Mu, S0: p.S0, H0: p.H0, Rho: p.Rho, Nu: p.Nu, N: p.N}
}

// Validate checks the parameters against their admissible ranges.
func (p Params) Validate() error {
	switch {
	case p.M < 1:
		return fmt.Errorf("%w: sample count M must be positive, got %d", ErrInvalidParameter, p.M)
	case p.N < 0:
		return fmt.Errorf("%w: horizon n must be non-negative, got %d", ErrInvalidParameter, p.N)
	case !(p.S0 > 0):
		return fmt.Errorf("%w: initial price S0 must be positive, got %v", ErrInvalidParameter, p.S0)
	case p.K < 0 || math.IsNaN(p.K):
		return fmt.Errorf("%w: strike K must be non-negative, got %v", ErrInvalidParameter, p.K)
	case !(p.Beta > 0) || p.Beta > 1:
		return fmt.Errorf("%w: discount factor beta must be in (0, 1], got %v", ErrInvalidParameter, p.Beta)
	case p.Nu < 0 || math.IsNaN(p.Nu):
		return fmt.Errorf("%w: shock scale nu must be non-negative, got %v", ErrInvalidParameter, p.Nu)
	}
	return nil
}

// Result is a Monte Carlo price estimate with its sampling error.
type Result struct {
	Price   float64 // discounted expected payoff estimate
	StdErr  float64 // Monte Carlo standard error of Price
	Samples int
}

// Price estimates beta^n * E[max(S_n - K, 0)] with M independent paths on a
// single goroutine. It is the reference implementation for PriceParallel.
func Price(p Params, seed uint64) (Result, error) {
	if err := p.Validate(); err != nil {
		return Result{}, err
	}
	m := p.Model()
	d := distuv.Normal{Mu: 0.0, Sigma: 1.0, Src: rand.NewSource(seed)}

	payoffs := make([]float64, p.M)
	for i := range payoffs {
		payoffs[i] = math.Max(m.Terminal(d)-p.K, 0)
	}
	mean, std := stat.MeanStdDev(payoffs, nil)
	disc := math.Pow(p.Beta, float64(p.N))
	return Result{
		Price:   disc * mean,
		StdErr:  disc * std / math.Sqrt(float64(p.M)),
		Samples: p.M,
	}, nil
}

const barStride = 1 << 16

// PriceParallel estimates the same quantity as Price with the sample count
// partitioned across workers. Paths are independent, so the sum splits
// freely: each worker owns its generator to avoid correlated streams, and
// partial sums combine in worker order so a fixed seed and worker count
// reproduce the estimate. workers < 1 selects runtime.NumCPU. bar may be
// nil; when set it is advanced as paths complete.
func PriceParallel(p Params, seed uint64, workers int, bar *progressbar.ProgressBar) (Result, error) {
	if err := p.Validate(); err != nil {
		return Result{}, err
	}
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	if workers > p.M {
		workers = p.M
	}
	m := p.Model()

	sums := make([]float64, workers)
	sumsqs := make([]float64, workers)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		count := p.M / workers
		if w < p.M%workers {
			count++
		}
		go func(w, count int) {
			defer wg.Done()
			d := distuv.Normal{Mu: 0.0, Sigma: 1.0, Src: rand.NewSource(seed + uint64(w))}
			var sum, sumsq float64
			for i := 0; i < count; i++ {
				x := math.Max(m.Terminal(d)-p.K, 0)
				sum += x
				sumsq += x * x
				if bar != nil && (i+1)%barStride == 0 {
					bar.Add(barStride)
				}
			}
			if bar != nil {
				bar.Add(count % barStride)
			}
			sums[w] = sum
			sumsqs[w] = sumsq
		}(w, count)
	}
	wg.Wait()

	var sum, sumsq float64
	for w := 0; w < workers; w++ {
		sum += sums[w]
		sumsq += sumsqs[w]
	}
	n := float64(p.M)
	mean := sum / n
	variance := 0.0
	if p.M > 1 {
		variance = math.Max(sumsq-n*mean*mean, 0) / (n - 1)
	}
	disc := math.Pow(p.Beta, float64(p.N))
	return Result{
		Price:   disc * mean,
		StdErr:  disc * math.Sqrt(variance/n),
		Samples: p.M,
	}, nil
}
