package cyrfix

// Option configures behavior when opening audio files.
//
// Options use the functional options pattern for clean, extensible APIs.
//
// Example:
//
//	file, err := cyrfix.Open("song.mp3",
//	    cyrfix.WithStrictParsing(),
//	)
type Option func(*openOptions)

// openOptions holds configuration for opening files.
type openOptions struct {
	strictParsing  bool // Fail on any warning
	ignoreWarnings bool // Suppress all warnings
}

// defaultOptions returns the default configuration.
func defaultOptions() *openOptions {
	return &openOptions{
		strictParsing:  false,
		ignoreWarnings: false,
	}
}

// WithStrictParsing treats any warning as a fatal error.
//
// By default, Open continues when it encounters issues like an undecodable
// frame or a malformed comment, returning warnings alongside the parsed
// data. With strict parsing enabled, any warning makes Open fail with an
// *UnreadableFileError.
//
// Example:
//
//	file, err := cyrfix.Open("song.mp3", cyrfix.WithStrictParsing())
//	// err != nil if ANY issue is encountered
func WithStrictParsing() Option {
	return func(o *openOptions) {
		o.strictParsing = true
	}
}

// WithIgnoreWarnings suppresses all warnings.
//
// By default, warnings about non-fatal issues are collected in
// File.Warnings. This option discards them.
func WithIgnoreWarnings() Option {
	return func(o *openOptions) {
		o.ignoreWarnings = true
	}
}
