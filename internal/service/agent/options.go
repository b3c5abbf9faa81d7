package agent

type AskOption func(*askOptions)

type askOptions struct {
	topK int
}

// WithTopK overrides how many articles the semantic search returns.
func WithTopK(topK int) AskOption {
	return func(o *askOptions) {
		if topK > 0 {
			o.topK = topK
		}
	}
}

func newAskOptions(topK int, opts ...AskOption) askOptions {
	options := askOptions{
		topK: topK,
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
