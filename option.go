package dissect

// DecoderOption is implemented by anything that can be configured with an Option:
// the HCI decoder and the analysis session.
type DecoderOption interface {
	SetLogger(Logger) error
	SetTrace(bool) error
}

// An Option is a configuration function, which configures a decoder or a session.
type Option func(DecoderOption) error

// OptLogger overrides the package logger for one decoder or session.
func OptLogger(l Logger) Option {
	return func(opt DecoderOption) error {
		return opt.SetLogger(l)
	}
}

// OptTrace logs session transitions and the error fields of decoded packets
// at debug level.
func OptTrace(enable bool) Option {
	return func(opt DecoderOption) error {
		return opt.SetTrace(enable)
	}
}

// Apply runs opts against o, stopping at the first error.
func Apply(o DecoderOption, opts ...Option) error {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return err
		}
	}
	return nil
}
