package ioc

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Container is the process-local inversion-of-control runtime: it maps
// tokens to construction strategies, resolves dependency graphs on
// demand, and owns every instance cache and disposal scope it creates.
//
// Register descriptors during a distinct setup phase, before the first
// Resolve. Registration while resolutions are in flight is not part of
// the contract.
type Container struct {
	mu         sync.RWMutex
	id         string
	log        *zap.Logger
	registry   *registry
	singletons *singletonCache
	scopes     map[string]*scope
	scopeOrder []*scope
	metrics    *metrics
	overrides  map[*Token]any
	disposed   bool

	promReg prometheus.Registerer
}

// Register inserts or replaces the descriptor for token. Re-registration
// is a last-write-wins overwrite, not an error. Instance strategies are
// always stored as singletons.
func (c *Container) Register(token *Token, strategy Strategy, lifetime Lifetime, opts ...Option) error {
	if token == nil {
		return errors.New("cannot register a nil token")
	}
	if strategy == nil {
		return errors.Join(errors.New("cannot register a nil strategy"), ErrInvalidStrategy)
	}

	d := &Descriptor{
		token:        token,
		strategy:     strategy,
		lifetime:     lifetime,
		tags:         make(map[string]bool),
		registeredAt: time.Now(),
	}
	for _, opt := range opts {
		opt(d)
	}
	if strategy.Kind() == KindInstance {
		d.lifetime = Singleton
	}

	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return ErrContainerDisposed
	}
	c.registry.put(d)
	c.mu.Unlock()

	c.metrics.recordRegistration()
	c.log.Debug("registered component",
		zap.String("token", token.Name()),
		zap.Stringer("lifetime", d.lifetime),
		zap.Stringer("strategy", strategy.Kind()))
	return nil
}

// RegisterSingleton registers a strategy whose instance is created at
// most once for the container's lifetime.
func (c *Container) RegisterSingleton(token *Token, strategy Strategy, opts ...Option) error {
	return c.Register(token, strategy, Singleton, opts...)
}

// RegisterTransient registers a strategy invoked fresh on every resolve.
func (c *Container) RegisterTransient(token *Token, strategy Strategy, opts ...Option) error {
	return c.Register(token, strategy, Transient, opts...)
}

// RegisterScoped registers a strategy whose instance is created at most
// once per named scope. Resolving the token requires a scope id.
func (c *Container) RegisterScoped(token *Token, strategy Strategy, opts ...Option) error {
	return c.Register(token, strategy, Scoped, opts...)
}

// RegisterFactory registers a no-argument factory as a singleton.
func (c *Container) RegisterFactory(token *Token, factory func(ctx context.Context) (any, error), opts ...Option) error {
	return c.Register(token, Factory(factory), Singleton, opts...)
}

// RegisterInstance registers a pre-built value.
func (c *Container) RegisterInstance(token *Token, value any, opts ...Option) error {
	return c.Register(token, Instance(value), Singleton, opts...)
}

// Resolve returns an instance for token, recursively resolving its
// declared dependencies. The optional scopeID selects the active scope
// for tokens with the Scoped lifetime; at most one id is consulted.
func (c *Container) Resolve(ctx context.Context, token *Token, scopeID ...string) (any, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if token == nil {
		c.metrics.recordError()
		return nil, errors.Join(errors.New("cannot resolve a nil token"), ErrNotRegistered)
	}

	sid := ""
	if len(scopeID) > 0 {
		sid = scopeID[0]
	}

	start := time.Now()
	instance, err := c.resolveToken(ctx, newResolution(), token, sid)
	if err != nil {
		c.metrics.recordError()
		c.log.Debug("resolution failed", zap.String("token", token.Name()), zap.Error(err))
		return nil, err
	}
	c.metrics.recordResolution(time.Since(start))
	return instance, nil
}

// CreateScope opens a named disposal scope and returns its disposer.
// Creating a scope under an already-active name fails with
// ErrDuplicateScope; dispose the old scope first. The disposer is
// idempotent.
func (c *Container) CreateScope(name string) (Disposer, error) {
	if name == "" {
		return nil, errors.New("scope name must not be empty")
	}

	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return nil, ErrContainerDisposed
	}
	if _, active := c.scopes[name]; active {
		c.mu.Unlock()
		return nil, errors.Join(fmt.Errorf("scope %q", name), ErrDuplicateScope)
	}
	sc := newScope(name)
	c.scopes[name] = sc
	c.scopeOrder = append(c.scopeOrder, sc)
	c.mu.Unlock()

	c.metrics.scopeOpened()
	c.log.Debug("scope created", zap.String("scope", name), zap.String("scope_uid", sc.id))

	var once sync.Once
	return func() error {
		var err error
		once.Do(func() {
			err = c.destroyScope(sc)
		})
		return err
	}, nil
}

func (c *Container) destroyScope(sc *scope) error {
	removed := false
	c.mu.Lock()
	if current, active := c.scopes[sc.name]; active && current == sc {
		delete(c.scopes, sc.name)
		for i, s := range c.scopeOrder {
			if s == sc {
				c.scopeOrder = append(c.scopeOrder[:i], c.scopeOrder[i+1:]...)
				break
			}
		}
		removed = true
	}
	c.mu.Unlock()

	err := sc.dispose()
	if removed {
		c.metrics.scopeClosed()
	}
	c.log.Debug("scope disposed", zap.String("scope", sc.name), zap.Error(err))
	return err
}

// IsRegistered reports whether token has a descriptor. It never errors,
// even on a disposed container.
func (c *Container) IsRegistered(token *Token) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.registry.contains(token)
}

// Metadata returns the introspection snapshot for token, or ok=false if
// the token has no descriptor.
func (c *Container) Metadata(token *Token) (Metadata, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.registry.get(token)
	if !ok {
		return Metadata{}, false
	}
	return d.metadata(), true
}

// Metrics returns a snapshot of the container counters.
func (c *Container) Metrics() Metrics {
	return c.metrics.snapshot()
}

// Dispose tears the container down: active scopes are disposed in
// creation order, then singletons with teardown behavior in reverse
// construction order. Afterwards every operation except introspection of
// the counters fails with ErrContainerDisposed. Disposal failures are
// collected over the full sweep and returned together.
func (c *Container) Dispose() error {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return ErrContainerDisposed
	}
	c.disposed = true
	scopes := c.scopeOrder
	c.scopeOrder = nil
	c.scopes = make(map[string]*scope)
	c.mu.Unlock()

	var err error
	for _, sc := range scopes {
		if serr := sc.dispose(); serr != nil {
			err = multierr.Append(err, serr)
		}
		c.metrics.scopeClosed()
	}

	for _, entry := range c.singletons.drain() {
		if !disposable(entry.desc, entry.instance) {
			continue
		}
		if derr := runDispose(entry.desc, entry.instance); derr != nil {
			err = multierr.Append(err, fmt.Errorf("disposing singleton %s: %w", entry.desc.token.Name(), derr))
		}
	}

	c.mu.Lock()
	c.registry.clear()
	c.overrides = make(map[*Token]any)
	c.mu.Unlock()

	c.log.Info("container disposed", zap.String("container_id", c.id), zap.Error(err))
	return err
}
