package ioc

import "context"

// StrategyKind discriminates the closed set of construction strategies.
type StrategyKind int

const (
	KindConstructor StrategyKind = iota
	KindFactory
	KindInstance
)

func (k StrategyKind) String() string {
	switch k {
	case KindConstructor:
		return "constructor"
	case KindFactory:
		return "factory"
	case KindInstance:
		return "instance"
	default:
		return "unknown"
	}
}

// Strategy describes how the container builds an instance for a token.
// The set of implementations is closed: Constructor, Factory and Instance
// are the only ways to obtain one.
type Strategy interface {
	Kind() StrategyKind
}

type constructorStrategy struct {
	fn func(deps ...any) (any, error)
}

func (*constructorStrategy) Kind() StrategyKind { return KindConstructor }

type factoryStrategy struct {
	fn func(ctx context.Context) (any, error)
}

func (*factoryStrategy) Kind() StrategyKind { return KindFactory }

type instanceStrategy struct {
	value any
}

func (*instanceStrategy) Kind() StrategyKind { return KindInstance }

// Constructor builds a strategy that receives the resolved dependency
// instances as positional arguments, in the order they were declared
// with WithDependencies.
func Constructor(fn func(deps ...any) (any, error)) Strategy {
	return &constructorStrategy{fn: fn}
}

// Factory builds a strategy invoked with no dependency arguments; the
// function closes over whatever it needs. The context is the one passed
// to Resolve, so factories may perform cancellable or asynchronous work.
func Factory(fn func(ctx context.Context) (any, error)) Strategy {
	return &factoryStrategy{fn: fn}
}

// Instance wraps a pre-built value. Resolution returns it unchanged.
func Instance(value any) Strategy {
	return &instanceStrategy{value: value}
}
