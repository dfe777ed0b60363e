package protocol

const (
	// DefaultMaxString is the default maximum decoded string size (1MB).
	DefaultMaxString = 1 << 20

	// DefaultMaxMutations is the default maximum number of mutations in
	// one batch.
	DefaultMaxMutations = 1_000_000

	// DefaultMaxPayload is the default maximum frame payload (64MB).
	DefaultMaxPayload = 64 << 20
)

// Limits bounds what a decoder will allocate for untrusted input.
type Limits struct {
	MaxString    int
	MaxMutations int
	MaxPayload   int
}

// DefaultLimits returns the default limits.
func DefaultLimits() Limits {
	return Limits{
		MaxString:    DefaultMaxString,
		MaxMutations: DefaultMaxMutations,
		MaxPayload:   DefaultMaxPayload,
	}
}

// normalized fills zero fields with defaults.
func (l Limits) normalized() Limits {
	d := DefaultLimits()
	if l.MaxString <= 0 {
		l.MaxString = d.MaxString
	}
	if l.MaxMutations <= 0 {
		l.MaxMutations = d.MaxMutations
	}
	if l.MaxPayload <= 0 {
		l.MaxPayload = d.MaxPayload
	}
	return l
}
