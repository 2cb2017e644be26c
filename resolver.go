package ioc

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// resolution is the per-top-level-call bookkeeping used for cycle
// detection: an ordered set of tokens currently being constructed. It is
// never shared between Resolve calls, so a failed branch cannot poison
// later unrelated resolutions.
type resolution struct {
	stack   []*Token
	onStack map[*Token]int
}

func newResolution() *resolution {
	return &resolution{onStack: make(map[*Token]int)}
}

// enter pushes token onto the stack, or reports the cycle chain from the
// first occurrence of token to the repeat, inclusive.
func (r *resolution) enter(token *Token) *CycleError {
	if first, ok := r.onStack[token]; ok {
		chain := make([]*Token, 0, len(r.stack)-first+1)
		chain = append(chain, r.stack[first:]...)
		chain = append(chain, token)
		return &CycleError{Chain: chain}
	}
	r.onStack[token] = len(r.stack)
	r.stack = append(r.stack, token)
	return nil
}

func (r *resolution) exit() {
	last := r.stack[len(r.stack)-1]
	r.stack = r.stack[:len(r.stack)-1]
	delete(r.onStack, last)
}

// resolveToken implements one node of the resolution algorithm:
// registration check, cycle check, lifetime cache consultation,
// depth-first dependency resolution, strategy invocation and storage.
func (c *Container) resolveToken(ctx context.Context, r *resolution, token *Token, scopeID string) (any, error) {
	c.mu.RLock()
	if c.disposed {
		c.mu.RUnlock()
		return nil, ErrContainerDisposed
	}
	if override, ok := c.overrides[token]; ok {
		c.mu.RUnlock()
		return override, nil
	}
	desc, registered := c.registry.get(token)
	c.mu.RUnlock()

	if !registered {
		return nil, errors.Join(fmt.Errorf("token %s has no registration", token.Name()), ErrNotRegistered)
	}

	if cerr := r.enter(token); cerr != nil {
		return nil, cerr
	}
	defer r.exit()

	switch desc.lifetime {
	case Singleton:
		return c.singletons.get(desc, func() (any, error) {
			return c.construct(ctx, r, desc, scopeID)
		})

	case Scoped:
		if scopeID == "" {
			return nil, errors.Join(fmt.Errorf("token %s has a scoped lifetime", token.Name()), ErrScopeRequired)
		}
		c.mu.RLock()
		sc := c.scopes[scopeID]
		c.mu.RUnlock()
		if sc == nil {
			return nil, errors.Join(fmt.Errorf("scope %q is not active", scopeID), ErrScopeNotFound)
		}
		if instance, cached := sc.get(token); cached {
			return instance, nil
		}
		instance, err := c.construct(ctx, r, desc, scopeID)
		if err != nil {
			return nil, err
		}
		winner, created := sc.put(desc, instance)
		if !created {
			// lost the publish race, discard our copy
			if derr := runDispose(desc, instance); derr != nil {
				c.log.Warn("failed to dispose duplicate scoped instance",
					zap.String("token", token.Name()), zap.String("scope", scopeID), zap.Error(derr))
			}
		}
		return winner, nil

	default: // Transient
		return c.construct(ctx, r, desc, scopeID)
	}
}

// construct resolves the declared dependencies depth-first in declared
// order, invokes the strategy, and runs init hooks before the instance is
// published anywhere.
func (c *Container) construct(ctx context.Context, r *resolution, desc *Descriptor, scopeID string) (any, error) {
	deps := make([]any, len(desc.dependencies))
	for i, dep := range desc.dependencies {
		v, err := c.resolveToken(ctx, r, dep, scopeID)
		if err != nil {
			return nil, err
		}
		deps[i] = v
	}

	var instance any
	var err error
	switch s := desc.strategy.(type) {
	case *constructorStrategy:
		instance, err = s.fn(deps...)
	case *factoryStrategy:
		instance, err = s.fn(ctx)
	case *instanceStrategy:
		instance = s.value
	default:
		return nil, ErrInvalidStrategy
	}
	if err != nil {
		return nil, errors.Join(fmt.Errorf("constructing %s", desc.token.Name()), ErrConstructionFailed, err)
	}

	if herr := runInit(desc, instance); herr != nil {
		return nil, errors.Join(fmt.Errorf("init hook for %s", desc.token.Name()), ErrConstructionFailed, herr)
	}
	return instance, nil
}
