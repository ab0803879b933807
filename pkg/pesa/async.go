package pesa

import "context"

// Outcome is the result of an operation run asynchronously. Exactly one of
// Value and Err is set.
type Outcome[T any] struct {
	Value *T
	Err   error
}

// Async runs op in its own goroutine and delivers the outcome on the
// returned channel, which receives exactly one value and is then closed.
//
//	ch := pesa.Async(ctx, client.StkPush, req)
//	out := <-ch
func Async[Req, Res any](ctx context.Context, op func(context.Context, *Req) (*Res, error), req *Req) <-chan Outcome[Res] {
	ch := make(chan Outcome[Res], 1)

	go func() {
		defer close(ch)

		res, err := op(ctx, req)
		ch <- Outcome[Res]{Value: res, Err: err}
	}()

	return ch
}

// WithCallback runs op in its own goroutine and invokes done once with the
// result.
func WithCallback[Req, Res any](ctx context.Context, op func(context.Context, *Req) (*Res, error), req *Req, done func(*Res, error)) {
	go func() {
		done(op(ctx, req))
	}()
}
