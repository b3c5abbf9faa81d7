package fetcher

import "context"

// Fetcher never fails the caller. A failed fetch yields a Result with
// empty Text and Err set.
type Fetcher interface {
	Fetch(ctx context.Context, url string) Result
}

type Result struct {
	Text string
	Err  error
}

func (r Result) OK() bool {
	return r.Err == nil
}

func Failed(err error) Result {
	return Result{Err: err}
}
