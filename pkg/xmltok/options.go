package xmltok

// DefaultBufferSize is the window capacity used when BufferSize is not set.
const DefaultBufferSize = 4 * 1024

// Options holds tokenizer configuration values.
// The zero value means no overrides.
type Options struct {
	bufferSize   int
	maxTokenSize int

	bufferSizeSet   bool
	maxTokenSizeSet bool
}

// JoinOptions combines multiple option sets into one in declaration order.
// Later options override earlier ones when set.
func JoinOptions(srcs ...Options) Options {
	var merged Options
	for _, src := range srcs {
		merged.merge(src)
	}
	return merged
}

func (opts *Options) merge(src Options) {
	if src.bufferSizeSet {
		opts.bufferSize = src.bufferSize
		opts.bufferSizeSet = true
	}
	if src.maxTokenSizeSet {
		opts.maxTokenSize = src.maxTokenSize
		opts.maxTokenSizeSet = true
	}
}

// BufferSize sets the capacity of the read window in bytes.
// Values below one fall back to DefaultBufferSize.
func BufferSize(value int) Options {
	return Options{bufferSize: value, bufferSizeSet: true}
}

// MaxTokenSize limits the bytes accumulated for a single name or text run.
// Tokens exactly MaxTokenSize bytes long are allowed. Zero means no limit.
func MaxTokenSize(value int) Options {
	return Options{maxTokenSize: value, maxTokenSizeSet: true}
}

type tokenizerOptions struct {
	bufferSize   int
	maxTokenSize int
}

func resolveOptions(opts Options) tokenizerOptions {
	resolved := tokenizerOptions{
		bufferSize:   DefaultBufferSize,
		maxTokenSize: 0,
	}
	if opts.bufferSizeSet && opts.bufferSize > 0 {
		resolved.bufferSize = opts.bufferSize
	}
	if opts.maxTokenSizeSet && opts.maxTokenSize > 0 {
		resolved.maxTokenSize = opts.maxTokenSize
	}
	return resolved
}
