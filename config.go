package heapcore

import "github.com/rs/zerolog"

// DefaultAlignment is the platform payload alignment assumed unless a
// Config overrides it. It must be a power of two and at least 8 so
// that a free-block's link-node fields (two offsets, 8 bytes each) fit
// the minimum free-block size.
const DefaultAlignment = 8

// DefaultMaxRequestSize bounds a single Allocate/Reallocate request.
// Callers wanting a different ceiling set Config.MaxRequestSize.
const DefaultMaxRequestSize = 1 << 30

// headerSize is H, the fixed width of a block header word.
const headerSize = 8

// ViolationReport describes an invariant failure detected by Validate.
type ViolationReport struct {
	Invariant string
	Offset    int
	Message   string
}

// BreakHook is invoked by Validate when an invariant fails. It stands
// in for the external debugger breakpoint hook named in the spec; the
// default is a no-op.
type BreakHook func(ViolationReport)

// Config carries the tunables and collaborators an Allocator needs
// beyond the region bytes themselves. The zero Config is valid: it
// resolves to DefaultAlignment, DefaultMaxRequestSize, a disabled
// logger and a no-op BreakHook.
type Config struct {
	// Alignment is the required power-of-two payload alignment. Zero
	// means DefaultAlignment.
	Alignment int

	// MaxRequestSize bounds a single allocation request. Zero means
	// DefaultMaxRequestSize.
	MaxRequestSize int

	// Logger receives structured diagnostic events from Dump and from
	// Validate's failure path. Nil means zerolog.Nop().
	Logger *zerolog.Logger

	// Break is called with a ViolationReport whenever Validate detects
	// an invariant violation. Nil means no-op.
	Break BreakHook
}

// Option mutates a Config. Constructors taking ...Option follow the
// functional-options convention used across the retrieved corpus.
type Option func(*Config)

// WithAlignment overrides the payload alignment.
func WithAlignment(a int) Option { return func(c *Config) { c.Alignment = a } }

// WithMaxRequestSize overrides the per-request ceiling.
func WithMaxRequestSize(n int) Option { return func(c *Config) { c.MaxRequestSize = n } }

// WithLogger overrides the diagnostic logger.
func WithLogger(l zerolog.Logger) Option { return func(c *Config) { c.Logger = &l } }

// WithBreakHook overrides the invariant-violation callback.
func WithBreakHook(h BreakHook) Option { return func(c *Config) { c.Break = h } }

func newConfig(opts ...Option) Config {
	var c Config
	for _, opt := range opts {
		opt(&c)
	}
	c.normalize()
	return c
}

func (c *Config) normalize() {
	if c.Alignment <= 0 {
		c.Alignment = DefaultAlignment
	}
	if c.MaxRequestSize <= 0 {
		c.MaxRequestSize = DefaultMaxRequestSize
	}
	if c.Logger == nil {
		nop := zerolog.Nop()
		c.Logger = &nop
	}
	if c.Break == nil {
		c.Break = func(ViolationReport) {}
	}
}

// roundUp rounds n up to the next multiple of m, m a power of two.
// Grounded on cznic/memory's roundup helper (memory.go:67).
func roundUp(n, m int) int { return (n + m - 1) &^ (m - 1) }

// linkNodeSize is sizeof(link_node) for the configured alignment: two
// offset fields of 8 bytes each, per spec "2 * A (16 bytes on the
// reference platform)".
func (c Config) linkNodeSize() int {
	if c.Alignment < 8 {
		return 16
	}
	return 2 * c.Alignment
}
