package mc

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// Model interface to be satisfied by terminal-price simulation model types.
type Model interface {
	// Compute a full price path S_0..S_n under the model
	Path(d distuv.Normal) []float64
	// Compute a single terminal price S_n under the model
	Terminal(d distuv.Normal) float64
	// Number of recursion steps per path
	Steps() int
}

// SV is a discrete-time stochastic log-volatility return model,
//
//	h_{t+1} = Rho*h_t + Nu*eta_{t+1}
//	ln(S_{t+1}/S_t) = Mu + exp(h_t)*xi_{t+1}
//
// with xi and eta independent standard normals, S_0 = S0 and h_0 = H0.
type SV struct {
	Mu  float64 // per-step drift of log returns
	S0  float64 // initial price
	H0  float64 // initial log volatility
	Rho float64 // log volatility persistence
	Nu  float64 // volatility shock scale
	N   int     // number of steps to expiry
}

// Terminal simulates one terminal price S_n. The recursion carries only two
// scalars, so large sample counts run without per-path allocation.
func (m SV) Terminal(d distuv.Normal) float64 {
	h := m.H0
	x := math.Log(m.S0)
	for t := 0; t < m.N; t++ {
		x += m.Mu + math.Exp(h)*d.Rand()
		h = m.Rho*h + m.Nu*d.Rand()
	}
	return math.Exp(x)
}

// Path simulates a full price path S_0..S_n. Kept as the non-optimized
// reference for Terminal; both consume the variate stream in the same order.
func (m SV) Path(d distuv.Normal) []float64 {
	r := make([]float64, m.N+1)
	r[0] = math.Log(m.S0)
	h := m.H0
	for t := 0; t < m.N; t++ {
		r[t+1] = r[t] + m.Mu + math.Exp(h)*d.Rand()
		h = m.Rho*h + m.Nu*d.Rand()
	}
	for i, v := range r {
		r[i] = math.Exp(v)
	}
	return r
}

// Steps returns the number of recursion steps per path.
func (m SV) Steps() int {
	return m.N
}

// ConstVolStd returns the cumulative return standard deviation of the
// degenerate Nu=0 model, sqrt(sum_t exp(2*Rho^t*H0)). With Nu=0 the terminal
// log price is normal around its drift with this standard deviation, which
// maps the model onto the lognormal closed form.
func (m SV) ConstVolStd() float64 {
	h := m.H0
	s2 := 0.0
	for t := 0; t < m.N; t++ {
		sigma := math.Exp(h)
		s2 += sigma * sigma
		h = m.Rho * h
	}
	return math.Sqrt(s2)
}
