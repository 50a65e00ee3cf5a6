package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/mhafzal/columbia-mini-course/config"
	"github.com/mhafzal/columbia-mini-course/mc"
	"github.com/mhafzal/columbia-mini-course/savings"
)

func main() {
	mode := flag.String("mode", "price", "exercise to run: price or savings")
	scenario := flag.String("scenario", "", "path to a YAML scenario file")
	seed := flag.Uint64("seed", 0, "random seed; 0 draws one from the clock")
	workers := flag.Int("workers", 0, "simulation workers; 0 uses all CPUs")
	samples := flag.Int("samples", 0, "override the scenario sample count")
	flag.Parse()

	cfg, err := config.Load(*scenario)
	if err != nil {
		log.Fatal(err)
	}

	switch *mode {
	case "price":
		runPricer(cfg, *seed, *workers, *samples)
	case "savings":
		runSavings(cfg)
	default:
		log.Fatalf("unknown mode %q", *mode)
	}
}

func runPricer(cfg *config.Config, seed uint64, workers, samples int) {
	c := cfg.Pricer
	p := mc.Params{
		Beta: c.Beta,
		Mu:   c.Mu,
		S0:   c.S0,
		H0:   c.H0,
		K:    c.Strike,
		N:    c.Horizon,
		Rho:  c.Rho,
		Nu:   c.Nu,
		M:    c.Samples,
	}
	if samples > 0 {
		p.M = samples
	}
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	bar := progressBar(p.M)
	res, err := mc.PriceParallel(p, seed, workers, bar)
	if err != nil {
		log.Fatal(err)
	}
	bar.Finish()

	fmt.Printf("price estimate: %.4f (std err %.4f, %d paths, seed %d)\n", res.Price, res.StdErr, res.Samples, seed)

	iv, err := mc.ImpliedVol(res.Price, p.S0, p.K, p.Beta, p.Mu, p.N)
	if err != nil {
		log.Printf("implied vol: %v", err)
		return
	}
	fmt.Printf("implied constant per-step vol: %.4f\n", iv)
}

func runSavings(cfg *config.Config) {
	c := cfg.Savings
	prob, err := savings.NewProblem(c.Beta, c.Gamma, c.Rho, c.D, c.Sigma, c.R, c.W, c.ZGridSize, c.XGridSize, c.XGridMax)
	if err != nil {
		log.Fatal(err)
	}
	start := time.Now()
	v, iters, err := prob.FixedPoint(c.Tol, c.MaxIter, 25, true)
	if err != nil {
		log.Fatal(err)
	}
	nx := len(prob.XGrid)
	nz := len(prob.ZGrid)
	fmt.Printf("converged in %d iterations (%s)\n", iters, time.Since(start).Round(time.Millisecond))
	fmt.Printf("v(0, z_lo) = %.6f, v(x_max, z_hi) = %.6f\n", v.At(0, 0), v.At(nx-1, nz-1))
}

func progressBar(length int) *progressbar.ProgressBar {
	return progressbar.NewOptions(
		length,
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionUseANSICodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(20),
		progressbar.OptionSetVisibility(true),
		progressbar.OptionSetDescription("simulating paths"),
	)
}
