package ioc

import (
	"sort"
	"time"
)

// Lifetime governs how the container reuses instances of a token.
type Lifetime int

const (
	// Singleton components are created at most once for the container's lifetime.
	Singleton Lifetime = iota
	// Transient components are created fresh on every resolve call.
	Transient
	// Scoped components are created at most once per named scope.
	Scoped
)

func (l Lifetime) String() string {
	switch l {
	case Singleton:
		return "singleton"
	case Transient:
		return "transient"
	case Scoped:
		return "scoped"
	default:
		return "unknown"
	}
}

// HookFunc is invoked on a constructed instance, after creation (init
// hook) or before teardown (dispose hook).
type HookFunc func(instance any) error

// Descriptor is the registered construction recipe and metadata for a token.
type Descriptor struct {
	token        *Token
	strategy     Strategy
	lifetime     Lifetime
	dependencies []*Token
	initHook     HookFunc
	disposeHook  HookFunc
	tags         map[string]bool
	description  string
	registeredAt time.Time
}

// Option is the type to configure a Descriptor. The Register family
// accepts any number of options (functional option pattern).
type Option func(*Descriptor)

// WithDependencies declares the tokens that must be resolved, in order,
// before this component's strategy runs. Duplicate tokens are collapsed
// to their first occurrence.
func WithDependencies(tokens ...*Token) Option {
	return func(d *Descriptor) {
		seen := make(map[*Token]bool, len(tokens))
		deps := make([]*Token, 0, len(tokens))
		for _, t := range tokens {
			if t == nil || seen[t] {
				continue
			}
			seen[t] = true
			deps = append(deps, t)
		}
		d.dependencies = deps
	}
}

// WithInitHook registers a callback invoked on the newly constructed
// instance before it is published to any cache. An error fails the
// resolution as a construction failure.
func WithInitHook(hook HookFunc) Option {
	return func(d *Descriptor) {
		d.initHook = hook
	}
}

// WithDisposeHook registers a callback invoked on the instance during
// scope or container teardown.
func WithDisposeHook(hook HookFunc) Option {
	return func(d *Descriptor) {
		d.disposeHook = hook
	}
}

// WithTags attaches labels used for introspective grouping, see
// Container.ServicesByTag.
func WithTags(tags ...string) Option {
	return func(d *Descriptor) {
		for _, tag := range tags {
			if tag != "" {
				d.tags[tag] = true
			}
		}
	}
}

// WithDescription attaches free-text metadata. It has no runtime effect.
func WithDescription(text string) Option {
	return func(d *Descriptor) {
		d.description = text
	}
}

// Stereotype encapsulates any combination of options under one name.
//
// Example:
//
//	var Repository = ioc.Stereotype(ioc.WithTags("repository"), ioc.WithDependencies(Logger))
func Stereotype(options ...Option) Option {
	return func(d *Descriptor) {
		for _, option := range options {
			option(d)
		}
	}
}

// Token returns the token this descriptor is registered under.
func (d *Descriptor) Token() *Token { return d.token }

// Lifetime returns the descriptor's lifetime policy.
func (d *Descriptor) Lifetime() Lifetime { return d.lifetime }

// StrategyKind returns the kind of the registered construction strategy.
func (d *Descriptor) StrategyKind() StrategyKind { return d.strategy.Kind() }

// Dependencies returns a copy of the declared dependency tokens.
func (d *Descriptor) Dependencies() []*Token {
	return append([]*Token(nil), d.dependencies...)
}

// HasTag reports whether the descriptor carries the given tag.
func (d *Descriptor) HasTag(tag string) bool { return d.tags[tag] }

// Description returns the free-text metadata of the descriptor.
func (d *Descriptor) Description() string { return d.description }

// HasDisposeHook reports whether a dispose hook is configured.
func (d *Descriptor) HasDisposeHook() bool { return d.disposeHook != nil }

// Metadata is the introspection snapshot of a descriptor.
type Metadata struct {
	Token        *Token
	Lifetime     Lifetime
	StrategyKind StrategyKind
	Dependencies []*Token
	Tags         []string
	Description  string
	RegisteredAt time.Time
}

func (d *Descriptor) metadata() Metadata {
	tags := make([]string, 0, len(d.tags))
	for tag := range d.tags {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return Metadata{
		Token:        d.token,
		Lifetime:     d.lifetime,
		StrategyKind: d.strategy.Kind(),
		Dependencies: d.Dependencies(),
		Tags:         tags,
		Description:  d.description,
		RegisteredAt: d.registeredAt,
	}
}
