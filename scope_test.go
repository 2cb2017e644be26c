package ioc

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func registerScopedProbe(t *testing.T, c *Container, name string) *Token {
	t.Helper()
	tok := NewToken(name)
	require.NoError(t, c.RegisterScoped(tok, Factory(func(context.Context) (any, error) {
		return &lifecycleProbe{}, nil
	})))
	return tok
}

func TestScopedLifetime(t *testing.T) {
	ctx := context.Background()

	t.Run("one instance per scope", func(t *testing.T) {
		c := newTestContainer(t)
		conn := registerScopedProbe(t, c, "conn")

		disposeReq1, err := c.CreateScope("req-1")
		require.NoError(t, err)
		disposeReq2, err := c.CreateScope("req-2")
		require.NoError(t, err)

		first, err := c.Resolve(ctx, conn, "req-1")
		require.NoError(t, err)
		again, err := c.Resolve(ctx, conn, "req-1")
		require.NoError(t, err)
		assert.Same(t, first, again)

		other, err := c.Resolve(ctx, conn, "req-2")
		require.NoError(t, err)
		assert.NotSame(t, first, other)

		require.NoError(t, disposeReq1())
		assert.True(t, first.(*lifecycleProbe).disposed)
		assert.False(t, other.(*lifecycleProbe).disposed)

		require.NoError(t, disposeReq2())
	})

	t.Run("scope id required", func(t *testing.T) {
		c := newTestContainer(t)
		conn := registerScopedProbe(t, c, "conn")

		_, err := c.Resolve(ctx, conn)
		assert.ErrorIs(t, err, ErrScopeRequired)
	})

	t.Run("unknown scope id", func(t *testing.T) {
		c := newTestContainer(t)
		conn := registerScopedProbe(t, c, "conn")

		_, err := c.Resolve(ctx, conn, "never-created")
		assert.ErrorIs(t, err, ErrScopeNotFound)
	})

	t.Run("disposed scope id is unknown", func(t *testing.T) {
		c := newTestContainer(t)
		conn := registerScopedProbe(t, c, "conn")

		dispose, err := c.CreateScope("req")
		require.NoError(t, err)
		require.NoError(t, dispose())

		_, err = c.Resolve(ctx, conn, "req")
		assert.ErrorIs(t, err, ErrScopeNotFound)
	})

	t.Run("scoped dependency shares the dependent's scope", func(t *testing.T) {
		c := newTestContainer(t)
		conn := registerScopedProbe(t, c, "conn")
		handler := NewToken("handler")
		require.NoError(t, c.RegisterScoped(handler, Constructor(func(deps ...any) (any, error) {
			return deps[0], nil
		}), WithDependencies(conn)))

		dispose, err := c.CreateScope("req")
		require.NoError(t, err)
		defer func() { _ = dispose() }()

		h, err := c.Resolve(ctx, handler, "req")
		require.NoError(t, err)
		direct, err := c.Resolve(ctx, conn, "req")
		require.NoError(t, err)
		assert.Same(t, direct, h)
	})
}

func TestScopeLifecycle(t *testing.T) {
	ctx := context.Background()

	t.Run("duplicate active name is rejected", func(t *testing.T) {
		c := newTestContainer(t)
		dispose, err := c.CreateScope("req")
		require.NoError(t, err)

		_, err = c.CreateScope("req")
		assert.ErrorIs(t, err, ErrDuplicateScope)

		require.NoError(t, dispose())
		redo, err := c.CreateScope("req")
		require.NoError(t, err)
		require.NoError(t, redo())
	})

	t.Run("empty name is rejected", func(t *testing.T) {
		c := newTestContainer(t)
		_, err := c.CreateScope("")
		assert.Error(t, err)
	})

	t.Run("disposer is idempotent", func(t *testing.T) {
		c := newTestContainer(t)
		tok := NewToken("conn")
		calls := 0
		require.NoError(t, c.RegisterScoped(tok, Factory(func(context.Context) (any, error) {
			return &testLogger{}, nil
		}), WithDisposeHook(func(any) error {
			calls++
			return nil
		})))

		dispose, err := c.CreateScope("req")
		require.NoError(t, err)
		_, err = c.Resolve(ctx, tok, "req")
		require.NoError(t, err)

		require.NoError(t, dispose())
		require.NoError(t, dispose())
		assert.Equal(t, 1, calls)
	})

	t.Run("disposal runs in reverse creation order", func(t *testing.T) {
		c := newTestContainer(t)
		var order []string
		tokens := make([]*Token, 0, 3)
		for _, name := range []string{"x", "y", "z"} {
			name := name
			tok := NewToken(name)
			tokens = append(tokens, tok)
			require.NoError(t, c.RegisterScoped(tok, Factory(func(context.Context) (any, error) {
				return &testLogger{}, nil
			}), WithDisposeHook(func(any) error {
				order = append(order, name)
				return nil
			})))
		}

		dispose, err := c.CreateScope("req")
		require.NoError(t, err)
		for _, tok := range tokens {
			_, err := c.Resolve(ctx, tok, "req")
			require.NoError(t, err)
		}

		require.NoError(t, dispose())
		assert.Equal(t, []string{"z", "y", "x"}, order)
	})

	t.Run("disposal errors are collected over the full pass", func(t *testing.T) {
		c := newTestContainer(t)
		var swept []string
		var tokens []*Token
		for _, tc := range []struct {
			name string
			fail bool
		}{{"a", true}, {"b", false}, {"c", true}} {
			tc := tc
			tok := NewToken(tc.name)
			tokens = append(tokens, tok)
			require.NoError(t, c.RegisterScoped(tok, Factory(func(context.Context) (any, error) {
				return &testLogger{}, nil
			}), WithDisposeHook(func(any) error {
				swept = append(swept, tc.name)
				if tc.fail {
					return errors.New(tc.name + " failed to close")
				}
				return nil
			})))
		}

		dispose, err := c.CreateScope("req")
		require.NoError(t, err)
		for _, tok := range tokens {
			_, err := c.Resolve(ctx, tok, "req")
			require.NoError(t, err)
		}

		err = dispose()
		require.Error(t, err)
		assert.Equal(t, []string{"c", "b", "a"}, swept)
		assert.Len(t, multierr.Errors(err), 2)
		assert.ErrorContains(t, err, "a failed to close")
		assert.ErrorContains(t, err, "c failed to close")
	})

	t.Run("singletons never enter a scope disposal list", func(t *testing.T) {
		c := newTestContainer(t)
		single := NewToken("single")
		require.NoError(t, c.RegisterSingleton(single, Factory(func(context.Context) (any, error) {
			return &lifecycleProbe{}, nil
		})))

		dispose, err := c.CreateScope("req")
		require.NoError(t, err)

		v, err := As[*lifecycleProbe](ctx, c, single, "req")
		require.NoError(t, err)

		require.NoError(t, dispose())
		assert.False(t, v.disposed)
	})
}
