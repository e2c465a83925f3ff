package heapkit

// Config defines the tunable allocator parameters.
// The defaults favor OS-call amortization and low fragmentation over
// squeezing out the last bytes; different configurations can be
// benchmarked to find the right tradeoff for a workload.
type Config struct {
	// Name for this configuration (for benchmarking)
	Name string

	// GrowQuantum is the preferred number of usable bytes added per
	// growth, before page rounding. Growth requests use
	// max(heapSize/8, GrowQuantum, request).
	GrowQuantum int

	// SplitShift controls the anti-fragmentation split threshold: the
	// remainder of a split must be at least rounded>>SplitShift (and at
	// least one free-list node) or the whole region is consumed.
	// Shift 6 keeps remainders above ~1.6% of the allocation.
	SplitShift uint
}

// Predefined configurations.
var (
	// Compact: small growth steps, aggressive splitting. Good for
	// short-lived heaps where resident size matters more than mmap count.
	ConfigCompact = Config{
		Name:        "Compact",
		GrowQuantum: 64 * 1024,
		SplitShift:  4,
	}

	// Balanced: 256 KiB growth steps with the classic ~1.6% split floor.
	ConfigBalanced = Config{
		Name:        "Balanced",
		GrowQuantum: 256 * 1024,
		SplitShift:  6,
	}

	// Throughput: large growth steps, reluctant splitting. Fewest OS
	// calls at the cost of more internal fragmentation.
	ConfigThroughput = Config{
		Name:        "Throughput",
		GrowQuantum: 1 << 20,
		SplitShift:  8,
	}

	// DefaultConfig is used when New is given a nil config.
	DefaultConfig = ConfigBalanced
)

// normalize clamps nonsensical values back to the defaults.
func (c *Config) normalize() {
	if c.GrowQuantum <= 0 {
		c.GrowQuantum = DefaultConfig.GrowQuantum
	}
	if c.GrowQuantum > maxGrowBytes {
		c.GrowQuantum = maxGrowBytes
	}
	if c.SplitShift == 0 || c.SplitShift > 16 {
		c.SplitShift = DefaultConfig.SplitShift
	}
}
