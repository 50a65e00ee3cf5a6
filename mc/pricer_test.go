package mc

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

// tameParams keeps the payoff distribution light-tailed so closed-form
// comparisons resolve within a few hundred thousand paths. The cumulative
// volatility is about 1.2 rather than the sqrt(10) of the default set.
func tameParams() Params {
	return Params{
		Beta: 0.96,
		Mu:   0.005,
		S0:   100.0,
		H0:   math.Log(0.2),
		K:    100.0,
		N:    10,
		Rho:  0.9,
		Nu:   0.0,
		M:    400_000,
	}
}

func TestValidate(t *testing.T) {
	type testCases struct {
		name   string
		mutate func(*Params)
	}

	for _, test := range []testCases{
		{name: "ZERO_SAMPLES", mutate: func(p *Params) { p.M = 0 }},
		{name: "NEGATIVE_HORIZON", mutate: func(p *Params) { p.N = -1 }},
		{name: "ZERO_SPOT", mutate: func(p *Params) { p.S0 = 0 }},
		{name: "NEGATIVE_STRIKE", mutate: func(p *Params) { p.K = -1 }},
		{name: "ZERO_DISCOUNT", mutate: func(p *Params) { p.Beta = 0 }},
		{name: "DISCOUNT_ABOVE_ONE", mutate: func(p *Params) { p.Beta = 1.2 }},
		{name: "NEGATIVE_SHOCK_SCALE", mutate: func(p *Params) { p.Nu = -0.1 }},
	} {
		t.Run(test.name, func(t *testing.T) {
			p := Default()
			test.mutate(&p)
			err := p.Validate()
			require.ErrorIs(t, err, ErrInvalidParameter)

			_, err = Price(p, 1)
			require.ErrorIs(t, err, ErrInvalidParameter)
			_, err = PriceParallel(p, 1, 2, nil)
			require.ErrorIs(t, err, ErrInvalidParameter)
		})
	}

	require.NoError(t, Default().Validate())
}

func TestPriceNonNegative(t *testing.T) {
	p := tameParams()
	p.M = 2_000
	p.K = 500 // deep out of the money, most payoffs are zero

	for _, seed := range []uint64{1, 2, 3, 4, 5} {
		res, err := Price(p, seed)
		require.NoError(t, err)
		require.GreaterOrEqual(t, res.Price, 0.0)
		require.GreaterOrEqual(t, res.StdErr, 0.0)
	}
}

func TestPriceMonotoneInStrike(t *testing.T) {
	p := tameParams()
	p.M = 50_000
	p.Nu = 0.01

	// Common random numbers: the same seed reuses the same paths, so the
	// estimates must be ordered pointwise, not just in expectation.
	prev := math.Inf(1)
	for _, k := range []float64{60, 80, 100, 120, 150} {
		p.K = k
		res, err := Price(p, 2023)
		require.NoError(t, err)
		require.LessOrEqual(t, res.Price, prev+1e-9)
		prev = res.Price
	}
}

func TestPriceSeedReproducible(t *testing.T) {
	p := tameParams()
	p.M = 20_000
	p.Nu = 0.01

	a, err := PriceParallel(p, 7, 4, nil)
	require.NoError(t, err)
	b, err := PriceParallel(p, 7, 4, nil)
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestParallelMatchesSequential(t *testing.T) {
	p := tameParams()
	p.M = 50_000
	p.Nu = 0.01

	seq, err := Price(p, 11)
	require.NoError(t, err)
	par, err := PriceParallel(p, 11, 1, nil)
	require.NoError(t, err)

	// A single worker consumes the exact same variate stream.
	require.InEpsilon(t, seq.Price, par.Price, 1e-12)
	require.InEpsilon(t, seq.StdErr, par.StdErr, 1e-6)
	require.Equal(t, seq.Samples, par.Samples)
}

func TestConstantVolMatchesClosedForm(t *testing.T) {
	p := tameParams()

	want, err := ClosedForm(p)
	require.NoError(t, err)

	res, err := PriceParallel(p, 314159, 4, nil)
	require.NoError(t, err)
	require.InDelta(t, want, res.Price, 6*res.StdErr)
}

func TestZeroStrikeMatchesForwardValue(t *testing.T) {
	p := tameParams()
	p.K = 0

	// With K = 0 the payoff is S_n itself, so the price must approach
	// beta^n * S0 * exp(n*mu + s^2/2).
	s := p.Model().ConstVolStd()
	want := math.Pow(p.Beta, float64(p.N)) * p.S0 * math.Exp(float64(p.N)*p.Mu+0.5*s*s)

	res, err := PriceParallel(p, 2718, 4, nil)
	require.NoError(t, err)
	require.InDelta(t, want, res.Price, 6*res.StdErr)
}

func TestStdErrConvergenceRate(t *testing.T) {
	p := tameParams()
	p.Nu = 0.01

	p.M = 10_000
	small, err := Price(p, 1234)
	require.NoError(t, err)

	p.M = 1_000_000
	large, err := PriceParallel(p, 1234, 4, nil)
	require.NoError(t, err)

	// Monte Carlo error shrinks like 1/sqrt(M); a 100x sample increase
	// should cut the standard error by roughly 10x.
	ratio := small.StdErr / large.StdErr
	require.Greater(t, ratio, 5.0)
	require.Less(t, ratio, 20.0)
}

func TestDefaultParamsEstimate(t *testing.T) {
	if testing.Short() {
		t.Skip("five million paths")
	}
	p := Default()

	res, err := PriceParallel(p, 1, 0, nil)
	require.NoError(t, err)
	require.Greater(t, res.Price, 0.0)

	// nu is 0.01, so the lognormal benchmark of the degenerate model is
	// within a fraction of a standard error of the true value. The payoff
	// distribution is heavy-tailed at these parameters; the standard error
	// is around ten percent of the price even at M = 5,000,000.
	bench := p
	bench.Nu = 0
	want, err := ClosedForm(bench)
	require.NoError(t, err)
	require.InDelta(t, want, res.Price, 6*res.StdErr)
}
