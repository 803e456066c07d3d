package vessel

import (
	"context"

	"github.com/google/uuid"
)

// HandlerFunc is the shape of any intercepted handler
type HandlerFunc func(ctx context.Context, args ...any) (any, error)

// HandlerInterceptor wraps handler invocations.
//
// Before hooks run in declaration order and may rewrite inv.Args. A Before
// error aborts the call without running the handler or any OnError hook.
// After hooks run in reverse order and may replace the result. When the
// handler or an After hook fails, OnError hooks run in reverse order; each
// receives the current error and returns the one to propagate. Returning nil
// recovers the call, which then yields a nil result.
type HandlerInterceptor interface {
	Before(ctx context.Context, inv *Invocation) error
	After(ctx context.Context, inv *Invocation, result any) (any, error)
	OnError(ctx context.Context, inv *Invocation, err error) error
}

// BaseInterceptor provides pass-through hooks for embedding
type BaseInterceptor struct{}

func (BaseInterceptor) Before(context.Context, *Invocation) error { return nil }

func (BaseInterceptor) After(_ context.Context, _ *Invocation, result any) (any, error) {
	return result, nil
}

func (BaseInterceptor) OnError(_ context.Context, _ *Invocation, err error) error { return err }

// Invocation describes one call travelling through a chain
type Invocation struct {
	ID      string // unique per call
	Handler string // handler id
	Args    []any

	values map[string]any
}

// Set stores a value for later hooks of the same invocation
func (inv *Invocation) Set(key string, value any) {
	if inv.values == nil {
		inv.values = make(map[string]any)
	}
	inv.values[key] = value
}

// Get returns a value stored with Set
func (inv *Invocation) Get(key string) (any, bool) {
	v, ok := inv.values[key]
	return v, ok
}

// Chain is the resolved, ordered interceptor list of one handler
type Chain struct {
	handler      string
	interceptors []HandlerInterceptor
}

// NewChain creates a chain for handler
func NewChain(handler string, interceptors ...HandlerInterceptor) *Chain {
	return &Chain{handler: handler, interceptors: interceptors}
}

// Handler returns the handler id the chain belongs to
func (c *Chain) Handler() string {
	return c.handler
}

// Interceptors returns the interceptors in declaration order
func (c *Chain) Interceptors() []HandlerInterceptor {
	result := make([]HandlerInterceptor, len(c.interceptors))
	copy(result, c.interceptors)
	return result
}

// Len returns the number of interceptors
func (c *Chain) Len() int {
	return len(c.interceptors)
}

// Wrap returns fn surrounded by the chain's interceptors
func (c *Chain) Wrap(fn HandlerFunc) HandlerFunc {
	return func(ctx context.Context, args ...any) (any, error) {
		inv := &Invocation{
			ID:      uuid.NewString(),
			Handler: c.handler,
			Args:    args,
		}

		for _, ic := range c.interceptors {
			if err := ic.Before(ctx, inv); err != nil {
				return nil, err
			}
		}

		result, err := fn(ctx, inv.Args...)
		if err != nil {
			return nil, c.fail(ctx, inv, err)
		}

		for i := len(c.interceptors) - 1; i >= 0; i-- {
			result, err = c.interceptors[i].After(ctx, inv, result)
			if err != nil {
				return nil, c.fail(ctx, inv, err)
			}
		}
		return result, nil
	}
}

func (c *Chain) fail(ctx context.Context, inv *Invocation, err error) error {
	for i := len(c.interceptors) - 1; i >= 0 && err != nil; i-- {
		err = c.interceptors[i].OnError(ctx, inv, err)
	}
	return err
}
