package main

import (
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/joshuapare/heapkit"
	"github.com/spf13/cobra"
)

var (
	benchConfig  string
	benchOps     int
	benchLive    int
	benchMaxSize int
	benchSeed    int64
	benchDump    bool
)

func init() {
	cmd := newBenchCmd()
	cmd.Flags().StringVar(&benchConfig, "config", "Balanced", "Arena configuration: Compact, Balanced, or Throughput")
	cmd.Flags().IntVar(&benchOps, "ops", 100000, "Number of allocate/free operations")
	cmd.Flags().IntVar(&benchLive, "live", 512, "Maximum payloads held live at once")
	cmd.Flags().IntVar(&benchMaxSize, "max-size", 4096, "Largest allocation size in bytes")
	cmd.Flags().Int64Var(&benchSeed, "seed", 1, "Workload RNG seed")
	cmd.Flags().BoolVar(&benchDump, "dump", false, "Dump bucket state before the final drain")
	rootCmd.AddCommand(cmd)
}

func newBenchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bench",
		Short: "Run a synthetic allocation workload and report counters",
		Long: `The bench command drives a randomized allocate/free workload against
a fresh arena and reports throughput, byte accounting, and the
allocator's internal counters.

Example:
  heapctl bench
  heapctl bench --config Compact --ops 1000000 --max-size 65536
  heapctl bench --seed 42 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench()
		},
	}
}

type BenchResult struct {
	Config     string
	Ops        int
	DurationMs float64
	OpsPerSec  float64

	Info  heapkit.Info
	Stats heapkit.Stats
}

func runBench() error {
	cfg, err := configByName(benchConfig)
	if err != nil {
		return err
	}
	if benchMaxSize <= 0 || benchMaxSize > heapkit.MaxAlloc {
		return fmt.Errorf("max-size must be in 1..%d", heapkit.MaxAlloc)
	}

	printVerbose("Creating %s arena\n", cfg.Name)
	h, err := heapkit.New(&cfg)
	if err != nil {
		return fmt.Errorf("failed to create arena: %w", err)
	}
	defer h.Close()

	start := time.Now()
	failed := driveWorkload(h, benchOps, benchLive, benchMaxSize, benchSeed)
	elapsed := time.Since(start)

	if benchDump {
		h.Dump(os.Stdout, false)
	}
	if failed > 0 {
		printVerbose("Warning: %d allocations failed\n", failed)
	}

	result := BenchResult{
		Config:     cfg.Name,
		Ops:        benchOps,
		DurationMs: float64(elapsed.Microseconds()) / 1000.0,
		OpsPerSec:  float64(benchOps) / elapsed.Seconds(),
		Info:       h.Info(),
		Stats:      h.Stats(),
	}
	if jsonOut {
		return printJSON(result)
	}

	st := result.Stats
	printInfo("\nWorkload: %s ops, config %s\n", formatNumber(int64(result.Ops)), result.Config)
	printInfo("%s\n\n", strings.Repeat("=", 40))
	printInfo("Throughput:\n")
	printInfo("  Duration: %.1f ms\n", result.DurationMs)
	printInfo("  Rate: %s ops/sec\n\n", formatNumber(int64(result.OpsPerSec)))
	printInfo("Allocator:\n")
	printInfo("  Allocs: %s (%s fast, %s slow)\n",
		formatNumber(int64(st.AllocCalls)),
		formatNumber(int64(st.AllocFastPath)),
		formatNumber(int64(st.AllocSlowPath)))
	printInfo("  Frees: %s\n", formatNumber(int64(st.FreeCalls)))
	printInfo("  Splits: %s, merges: %s left / %s right\n",
		formatNumber(int64(st.SplitCount)),
		formatNumber(int64(st.CoalesceLeft)),
		formatNumber(int64(st.CoalesceRight)))
	printInfo("  Growth: %s calls, %s\n",
		formatNumber(int64(st.GrowCalls)), formatBytes(st.GrowBytes))
	printInfo("  Slabs: %d created, %d released, cache %d hits / %d stores\n\n",
		st.SlabsCreated, st.SlabsReleased, st.CacheHits, st.CacheStores)
	printInfo("Residency after drain:\n")
	printInfo("  Used: %s\n", formatBytes(int64(result.Info.UsedBytes)))
	printInfo("  Free: %s\n", formatBytes(int64(result.Info.FreeBytes)))
	printInfo("  Cached: %s\n", formatBytes(int64(result.Info.CachedBytes)))
	return nil
}

// driveWorkload runs a randomized allocate/free mix against h: each step
// either frees a random held payload or allocates a random size, capped
// at live simultaneous payloads. Everything is drained at the end.
// Returns the number of failed allocations.
func driveWorkload(h *heapkit.Heap, ops, live, maxSize int, seed int64) int {
	rng := rand.New(rand.NewSource(seed))
	held := make([][]byte, 0, live)
	failed := 0

	for i := 0; i < ops; i++ {
		if len(held) > 0 && (len(held) >= live || rng.Intn(3) == 0) {
			j := rng.Intn(len(held))
			h.Free(held[j])
			held[j] = held[len(held)-1]
			held = held[:len(held)-1]
			continue
		}
		p := h.Alloc(1 + rng.Intn(maxSize))
		if p == nil {
			failed++
			continue
		}
		held = append(held, p)
	}
	for _, p := range held {
		h.Free(p)
	}
	return failed
}

func configByName(name string) (heapkit.Config, error) {
	switch strings.ToLower(name) {
	case "compact":
		return heapkit.ConfigCompact, nil
	case "balanced":
		return heapkit.ConfigBalanced, nil
	case "throughput":
		return heapkit.ConfigThroughput, nil
	}
	return heapkit.Config{}, fmt.Errorf("unknown config %q (want Compact, Balanced, or Throughput)", name)
}

func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

func formatNumber(n int64) string {
	str := fmt.Sprintf("%d", n)
	if len(str) <= 3 {
		return str
	}

	var result strings.Builder
	for i, c := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			result.WriteRune(',')
		}
		result.WriteRune(c)
	}
	return result.String()
}
