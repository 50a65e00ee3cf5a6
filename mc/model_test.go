package mc

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

func unitNormal(seed uint64) distuv.Normal {
	return distuv.Normal{Mu: 0.0, Sigma: 1.0, Src: rand.NewSource(seed)}
}

func TestTerminalMatchesPath(t *testing.T) {
	m := SV{Mu: 0.005, S0: 10, H0: 0, Rho: 0.5, Nu: 0.01, N: 10}

	for _, seed := range []uint64{1, 7, 42} {
		terminal := m.Terminal(unitNormal(seed))
		path := m.Path(unitNormal(seed))

		require.Len(t, path, m.N+1)
		require.InEpsilon(t, 10.0, path[0], 1e-12)
		require.InEpsilon(t, path[m.N], terminal, 1e-12)
	}
}

func TestPathPositive(t *testing.T) {
	m := SV{Mu: -0.1, S0: 3, H0: 0.5, Rho: -0.8, Nu: 0.3, N: 50}
	d := unitNormal(99)

	for i := 0; i < 20; i++ {
		for _, s := range m.Path(d) {
			require.Greater(t, s, 0.0)
		}
	}
}

func TestConstVolStd(t *testing.T) {
	type testCases struct {
		name  string
		model SV
		want  float64
	}

	for _, test := range []testCases{
		{
			// h stays at zero, sigma_t = 1 for all t
			name:  "UNIT_VOL",
			model: SV{H0: 0, Rho: 0.5, N: 10},
			want:  math.Sqrt(10),
		},
		{
			name:  "SINGLE_STEP",
			model: SV{H0: math.Log(0.2), Rho: 0.9, N: 1},
			want:  0.2,
		},
		{
			// rho = 0: sigma_0 = exp(h0), sigma_t = 1 afterwards
			name:  "NO_PERSISTENCE",
			model: SV{H0: math.Log(0.5), Rho: 0, N: 4},
			want:  math.Sqrt(0.25 + 3),
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			require.InEpsilon(t, test.want, test.model.ConstVolStd(), 1e-12)
		})
	}
}
