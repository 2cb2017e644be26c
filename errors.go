package ioc

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotRegistered      = errors.New("no descriptor registered for token")
	ErrCycleDetected      = errors.New("this component introduces a cycle")
	ErrScopeRequired      = errors.New("scoped token requires a scope id")
	ErrScopeNotFound      = errors.New("no active scope with the given id")
	ErrDuplicateScope     = errors.New("a scope with the given name is already active")
	ErrContainerDisposed  = errors.New("container has been disposed")
	ErrConstructionFailed = errors.New("component construction failed")
	ErrInvalidStrategy    = errors.New("invalid construction strategy")
)

// CycleError reports a circular dependency found during resolution. Chain
// holds the ordered tokens from the first repeated token to the repeat,
// inclusive, so the full loop is visible in the message.
type CycleError struct {
	Chain []*Token
}

func (e *CycleError) Error() string {
	names := make([]string, len(e.Chain))
	for i, t := range e.Chain {
		names[i] = t.Name()
	}
	return fmt.Sprintf("circular dependency: %s", strings.Join(names, " -> "))
}

func (e *CycleError) Unwrap() error {
	return ErrCycleDetected
}
