// Package ioc is a token-keyed inversion-of-control runtime container.
//
// A Token is an opaque identity for a capability; a Descriptor maps a
// token to a construction strategy (Constructor, Factory or Instance), a
// lifetime policy (Singleton, Transient or Scoped) and declared
// dependency tokens. Resolve walks the dependency graph depth-first,
// detects cycles, applies the lifetime caches and runs lifecycle hooks.
// Named scopes own their scoped instances and dispose them in reverse
// creation order.
//
//	logger := ioc.NewToken("logger")
//	repo := ioc.NewToken("repo")
//
//	c := ioc.New()
//	c.RegisterInstance(logger, log)
//	c.RegisterSingleton(repo, ioc.Constructor(func(deps ...any) (any, error) {
//		return &Repo{Log: deps[0].(*Logger)}, nil
//	}), ioc.WithDependencies(logger))
//
//	r, err := c.Resolve(ctx, repo)
//
// There is no process-wide default container: callers construct one,
// pass it explicitly, and tear it down with Dispose.
package ioc

import (
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// ContainerOption configures a Container at construction time.
type ContainerOption func(*Container)

// WithLogger sets the structured logger. The default is a no-op logger.
func WithLogger(log *zap.Logger) ContainerOption {
	return func(c *Container) {
		if log != nil {
			c.log = log
		}
	}
}

// WithMetricsRegisterer mirrors the container counters into Prometheus
// collectors registered on reg, labeled with the container id. Without
// this option only the in-process Metrics snapshot is maintained.
func WithMetricsRegisterer(reg prometheus.Registerer) ContainerOption {
	return func(c *Container) {
		c.promReg = reg
	}
}

// New constructs an empty container.
func New(opts ...ContainerOption) *Container {
	c := &Container{
		id:         uuid.NewString(),
		log:        zap.NewNop(),
		registry:   newRegistry(),
		singletons: newSingletonCache(),
		scopes:     make(map[string]*scope),
		overrides:  make(map[*Token]any),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.metrics = newMetrics(c.promReg, c.id)
	return c
}
