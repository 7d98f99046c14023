package dedupe

// Option applies a configuration option to the in-memory key set.
type Option func(*keySet)

// WithMaxSize sets the maximum number of keys to remember.
// If maxSize > 0 the oldest key is forgotten first once full.
// If maxSize <= 0 the set is unbounded.
func WithMaxSize(maxSize int) Option {
	return func(d *keySet) {
		d.maxSize = maxSize
	}
}
