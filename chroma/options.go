package chroma

const (
	DefaultBatchSize = 32
	DefaultTopK      = 5
)

type callOptions struct {
	namespace *string
	ids       []string
	metadatas []map[string]any
	batchSize int
}

// Option adjusts a single AddTexts or GetMatchingText call.
type Option func(*callOptions)

// WithNamespace overrides the store's default namespace for one call.
func WithNamespace(namespace string) Option {
	return func(o *callOptions) {
		o.namespace = &namespace
	}
}

// WithIDs supplies explicit record ids. There must be at least one per text.
func WithIDs(ids ...string) Option {
	return func(o *callOptions) {
		o.ids = ids
	}
}

// WithMetadatas supplies per-text metadata, matched to texts by position.
// Texts beyond the end of the slice get empty metadata. The maps are copied, not modified.
func WithMetadatas(metadatas []map[string]any) Option {
	return func(o *callOptions) {
		o.metadatas = metadatas
	}
}

// WithBatchSize sets how many texts go into one request to a batch-capable embedder.
func WithBatchSize(n int) Option {
	return func(o *callOptions) {
		o.batchSize = n
	}
}

func resolveOptions(opts []Option) callOptions {
	o := callOptions{batchSize: DefaultBatchSize}
	for _, opt := range opts {
		opt(&o)
	}
	if o.batchSize <= 0 {
		o.batchSize = DefaultBatchSize
	}
	return o
}
