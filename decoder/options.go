package decoder

// config holds the tunables Open resolves from a chain of Options before a
// parse starts.
type config struct {
	// filterSet is true once WithMessageFilter has been applied, so a nil
	// filter (subscribe to everything) can be distinguished from an
	// explicitly empty one (suppress every data subscription).
	filterSet bool
	filter    map[string]bool

	lossyStrings bool
}

// Option configures a call to Open or New. Unlike the teacher's
// type-parameterised options package, this one is specific to decoder's own
// config: there is exactly one option consumer in this module, so a generic
// Option[T] would buy nothing but indirection.
type Option interface {
	apply(*config)
}

// optionFunc adapts a plain func(*config) to Option.
type optionFunc func(*config)

func (f optionFunc) apply(c *config) { f(c) }

// WithMessageFilter restricts data subscriptions to the named messages.
// Passing an empty, non-nil slice suppresses every data subscription,
// yielding a definitions-only parse. Passing nil, like not applying this
// option at all, subscribes to every declared message.
func WithMessageFilter(names []string) Option {
	return optionFunc(func(c *config) {
		c.filterSet = true
		c.filter = nil

		if names == nil {
			return
		}

		c.filter = make(map[string]bool, len(names))

		for _, name := range names {
			c.filter[name] = true
		}
	})
}

// WithLossyStrings makes string decoding drop invalid UTF-8 bytes instead of
// failing the record that contains them.
func WithLossyStrings() Option {
	return optionFunc(func(c *config) {
		c.lossyStrings = true
	})
}

func newConfig(opts ...Option) *config {
	cfg := &config{}
	for _, opt := range opts {
		opt.apply(cfg)
	}

	return cfg
}

// included reports whether message name should be subscribed to given the
// resolved filter configuration.
func (c *config) included(name string) bool {
	if !c.filterSet || c.filter == nil {
		return true
	}

	return c.filter[name]
}
