package ioc

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/multierr"
)

// Disposer tears down a scope. It is idempotent: the second and later
// calls are no-ops returning nil.
type Disposer func() error

// disposalEntry records one scoped instance in creation order. Teardown
// walks the list in reverse, mirroring nested-resource cleanup.
type disposalEntry struct {
	desc     *Descriptor
	instance any
}

// scope is a named ownership boundary with its own scoped-instance cache
// and disposal list. Singletons and transients are never recorded here.
type scope struct {
	name      string
	id        string
	mu        sync.Mutex
	instances map[*Token]any
	disposal  []disposalEntry
	disposed  bool
}

func newScope(name string) *scope {
	return &scope{
		name:      name,
		id:        uuid.NewString(),
		instances: make(map[*Token]any),
	}
}

func (s *scope) get(token *Token) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.instances[token]
	return v, ok
}

// put publishes a scoped instance. If a concurrent resolution already
// published one for the same token, the existing instance wins and the
// caller must discard its copy; created reports which happened.
func (s *scope) put(desc *Descriptor, instance any) (winner any, created bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.instances[desc.token]; ok {
		return existing, false
	}
	s.instances[desc.token] = instance
	s.disposal = append(s.disposal, disposalEntry{desc: desc, instance: instance})
	return instance, true
}

// dispose runs dispose hooks in reverse creation order. A failing hook
// does not stop the sweep; failures are collected and returned together
// after the full pass.
func (s *scope) dispose() error {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return nil
	}
	s.disposed = true
	entries := s.disposal
	s.disposal = nil
	s.instances = make(map[*Token]any)
	s.mu.Unlock()

	var err error
	for i := len(entries) - 1; i >= 0; i-- {
		entry := entries[i]
		if !disposable(entry.desc, entry.instance) {
			continue
		}
		if derr := runDispose(entry.desc, entry.instance); derr != nil {
			err = multierr.Append(err, fmt.Errorf("disposing %s in scope %q: %w", entry.desc.token.Name(), s.name, derr))
		}
	}
	return err
}
