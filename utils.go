package ioc

import (
	"context"
	"fmt"
)

// As resolves token and asserts the instance to T.
func As[T any](ctx context.Context, c *Container, token *Token, scopeID ...string) (T, error) {
	var zero T
	v, err := c.Resolve(ctx, token, scopeID...)
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("token %s resolved to %T, want %T", token.Name(), v, zero)
	}
	return typed, nil
}

// MustAs is As, panicking on error.
func MustAs[T any](ctx context.Context, c *Container, token *Token, scopeID ...string) T {
	v, err := As[T](ctx, c, token, scopeID...)
	if err != nil {
		panic(err)
	}
	return v
}
