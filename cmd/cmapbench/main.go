// Package main provides cmapbench, a concurrent stress/benchmark CLI
// for pkg/cmap. It drives the load profiles spec.md §8 describes as
// Scenarios C (resize under contention), D (update atomicity), and E
// (iteration vs mutation), and writes a markdown report.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/natefinch/atomic"
	"github.com/spf13/pflag"
	"github.com/tailscale/hujson"

	"github.com/epochmap/epochmap/pkg/cmap"
)

var errNoScenarios = errors.New("cmapbench: no scenarios selected")

// Config holds all benchmark configuration, optionally overlaid from a
// JWCC scenario file via -config.
type Config struct {
	Scenarios    []string `json:"scenarios,omitempty"`
	OutDir       string   `json:"out_dir,omitempty"` //nolint:tagliatelle // snake_case for config file
	Goroutines   int      `json:"goroutines,omitempty"`
	OpsPerWorker int      `json:"ops_per_worker,omitempty"` //nolint:tagliatelle
	Keyspace     int      `json:"keyspace,omitempty"`
}

// DefaultConfig mirrors the teacher's DefaultConfig: sane values a
// first run works with unmodified.
func DefaultConfig() Config {
	return Config{
		Scenarios:    []string{"resize", "update", "iter"},
		OutDir:       ".benchmarks",
		Goroutines:   8,
		OpsPerWorker: 50_000,
		Keyspace:     1 << 20,
	}
}

// ScenarioResult is one scenario's measured outcome.
type ScenarioResult struct {
	Name     string
	Duration time.Duration
	OpsTotal int
	OpsPerMs float64
	Assert   string
}

func main() {
	cfg := DefaultConfig()

	var configPath string
	pflag.StringVar(&configPath, "config", "", "path to a JWCC (JSON with comments) scenario config")
	scenariosCSV := pflag.String("scenarios", strings.Join(cfg.Scenarios, ","), "comma-separated scenario list: resize,update,iter")
	pflag.StringVar(&cfg.OutDir, "out", cfg.OutDir, "output directory for the markdown report")
	pflag.IntVar(&cfg.Goroutines, "goroutines", cfg.Goroutines, "concurrent workers per scenario")
	pflag.IntVar(&cfg.OpsPerWorker, "ops", cfg.OpsPerWorker, "operations performed per worker")
	pflag.IntVar(&cfg.Keyspace, "keyspace", cfg.Keyspace, "first key number the iteration scenario's churn goroutines insert from")

	pflag.Usage = func() {
		fmt.Fprint(os.Stderr, "Usage: cmapbench [flags]\n\n")
		fmt.Fprint(os.Stderr, "Benchmarks cmap.Map under concurrent load: resize, update, and iteration-vs-mutation scenarios.\n\n")
		fmt.Fprint(os.Stderr, "Flags:\n")
		pflag.PrintDefaults()
	}

	pflag.Parse()

	if configPath != "" {
		if err := loadScenarioConfig(configPath, &cfg); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
	} else {
		cfg.Scenarios = splitCSV(*scenariosCSV)
	}

	if len(cfg.Scenarios) == 0 {
		fmt.Fprintf(os.Stderr, "%v\n", errNoScenarios)
		os.Exit(1)
	}

	if err := os.MkdirAll(cfg.OutDir, 0o750); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create output directory: %v\n", err)
		os.Exit(1)
	}

	var results []ScenarioResult
	for _, name := range cfg.Scenarios {
		res, err := runScenario(name, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "scenario %q failed: %v\n", name, err)
			os.Exit(1)
		}
		results = append(results, res)
	}

	if err := writeReport(cfg, results); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write report: %v\n", err)
		os.Exit(1)
	}
}

// loadScenarioConfig overlays cfg with a JWCC (JSON-with-comments) file,
// the same format the teacher's config.go accepts for its own config.
func loadScenarioConfig(path string, cfg *Config) error {
	data, err := os.ReadFile(path) //nolint:gosec // path is an operator-supplied CLI flag
	if err != nil {
		return fmt.Errorf("reading scenario config: %w", err)
	}

	standardized, err := hujson.Standardize(data)
	if err != nil {
		return fmt.Errorf("parsing scenario config: %w", err)
	}

	if err := json.Unmarshal(standardized, cfg); err != nil {
		return fmt.Errorf("decoding scenario config: %w", err)
	}

	return nil
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func runScenario(name string, cfg Config) (ScenarioResult, error) {
	switch name {
	case "resize":
		return scenarioResize(cfg)
	case "update":
		return scenarioUpdate(cfg)
	case "iter":
		return scenarioIter(cfg)
	default:
		return ScenarioResult{}, fmt.Errorf("unknown scenario %q (want resize, update, or iter)", name)
	}
}

// scenarioResize mirrors spec.md §8 Scenario C: many goroutines insert
// disjoint keys into a map starting from a tiny capacity, forcing
// repeated migrations.
func scenarioResize(cfg Config) (ScenarioResult, error) {
	m := cmap.New[int, int]()

	start := time.Now()
	var wg sync.WaitGroup
	wg.Add(cfg.Goroutines)
	for w := 0; w < cfg.Goroutines; w++ {
		go func(base int) {
			defer wg.Done()
			g := m.Guard()
			defer g.Release()
			for i := 0; i < cfg.OpsPerWorker; i++ {
				m.Insert(base*cfg.OpsPerWorker+i, base, g)
			}
		}(w)
	}
	wg.Wait()
	elapsed := time.Since(start)

	total := cfg.Goroutines * cfg.OpsPerWorker
	assert := "ok"
	if got := m.Len(); got != total {
		assert = fmt.Sprintf("FAIL: len=%d want=%d", got, total)
	}

	return ScenarioResult{
		Name: "resize (Scenario C)", Duration: elapsed, OpsTotal: total,
		OpsPerMs: opsPerMs(total, elapsed), Assert: assert,
	}, nil
}

// scenarioUpdate mirrors spec.md §8 Scenario D: many goroutines apply
// Update(+1) to the same key, checking no increment is lost.
func scenarioUpdate(cfg Config) (ScenarioResult, error) {
	m := cmap.New[string, int]()
	g0 := m.Guard()
	m.Insert("x", 0, g0)
	g0.Release()

	start := time.Now()
	var wg sync.WaitGroup
	wg.Add(cfg.Goroutines)
	for w := 0; w < cfg.Goroutines; w++ {
		go func() {
			defer wg.Done()
			g := m.Guard()
			defer g.Release()
			for i := 0; i < cfg.OpsPerWorker; i++ {
				m.Update("x", func(n int) int { return n + 1 }, g)
			}
		}()
	}
	wg.Wait()
	elapsed := time.Since(start)

	total := cfg.Goroutines * cfg.OpsPerWorker
	assert := "ok"
	g := m.Guard()
	if got, _ := m.Get("x", g); got != total {
		assert = fmt.Sprintf("FAIL: x=%d want=%d", got, total)
	}
	g.Release()

	return ScenarioResult{
		Name: "update atomicity (Scenario D)", Duration: elapsed, OpsTotal: total,
		OpsPerMs: opsPerMs(total, elapsed), Assert: assert,
	}, nil
}

// scenarioIter mirrors spec.md §8 Scenario E: one goroutine repeatedly
// snapshots the map while others churn it, just to measure iteration
// throughput under contention (no single-iteration-window assertion;
// pkg/cmap's own tests cover that property precisely).
func scenarioIter(cfg Config) (ScenarioResult, error) {
	m := cmap.New[int, int]()
	setupG := m.Guard()
	for i := 0; i < 1024; i++ {
		m.Insert(i, i, setupG)
	}
	setupG.Release()

	stop := make(chan struct{})
	var churners sync.WaitGroup
	churners.Add(cfg.Goroutines)
	for w := 0; w < cfg.Goroutines; w++ {
		go func(base int) {
			defer churners.Done()
			g := m.Guard()
			defer g.Release()
			i := 0
			for {
				select {
				case <-stop:
					return
				default:
				}
				m.Insert(cfg.Keyspace+base*cfg.OpsPerWorker+i, i, g)
				i++
			}
		}(w)
	}

	start := time.Now()
	snapshots := 0
	for time.Since(start) < 200*time.Millisecond {
		g := m.Guard()
		_ = m.Iter(g)
		g.Release()
		snapshots++
	}
	elapsed := time.Since(start)
	close(stop)
	churners.Wait()

	return ScenarioResult{
		Name: "iteration vs mutation (Scenario E)", Duration: elapsed, OpsTotal: snapshots,
		OpsPerMs: opsPerMs(snapshots, elapsed), Assert: "ok",
	}, nil
}

func opsPerMs(total int, elapsed time.Duration) float64 {
	ms := float64(elapsed) / float64(time.Millisecond)
	if ms == 0 {
		return 0
	}
	return float64(total) / ms
}

func writeReport(cfg Config, results []ScenarioResult) error {
	timestamp := time.Now().UTC().Format("20060102-150405")
	outFile := filepath.Join(cfg.OutDir, fmt.Sprintf("cmapbench_%s.md", timestamp))

	var report strings.Builder
	report.WriteString(systemInfo())

	report.WriteString("| Scenario | Total ops | Duration | ops/ms | Assertion |\n")
	report.WriteString("|:---|---:|---:|---:|:---|\n")
	for _, r := range results {
		report.WriteString(fmt.Sprintf("| %s | %d | %s | %.1f | %s |\n",
			r.Name, r.OpsTotal, r.Duration.Round(time.Millisecond), r.OpsPerMs, r.Assert))
	}

	if err := atomic.WriteFile(outFile, strings.NewReader(report.String())); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	fmt.Fprintf(os.Stderr, "wrote %s\n", outFile)
	return nil
}

func systemInfo() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Run %s\n\n", time.Now().UTC().Format(time.RFC3339)))

	ctx := context.Background()
	if rev, err := exec.CommandContext(ctx, "git", "rev-parse", "--short", "HEAD").Output(); err == nil {
		sb.WriteString(fmt.Sprintf("- git: %s\n", strings.TrimSpace(string(rev))))
	}
	if ver, err := exec.CommandContext(ctx, "go", "version").Output(); err == nil {
		sb.WriteString(fmt.Sprintf("- %s\n", strings.TrimSpace(string(ver))))
	}
	sb.WriteString(fmt.Sprintf("- %s/%s, GOMAXPROCS=%d\n\n", runtime.GOOS, runtime.GOARCH, runtime.GOMAXPROCS(0)))
	return sb.String()
}
