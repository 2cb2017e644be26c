package ioc

import "sync"

// singletonEntry pairs a constructed singleton with its descriptor so
// container teardown can run dispose hooks in LIFO construction order.
type singletonEntry struct {
	desc     *Descriptor
	instance any
}

// inflightCall marks a singleton construction in progress. Concurrent
// resolutions of the same token wait for the first caller's result
// instead of re-invoking the strategy.
type inflightCall struct {
	done  chan struct{}
	value any
	err   error
}

// singletonCache is the container-wide instance cache for tokens with
// the Singleton lifetime.
type singletonCache struct {
	mu      sync.Mutex
	objects map[*Token]any
	entries []singletonEntry
	calls   map[*Token]*inflightCall
}

func newSingletonCache() *singletonCache {
	return &singletonCache{
		objects: make(map[*Token]any),
		calls:   make(map[*Token]*inflightCall),
	}
}

// get returns the cached singleton for token, building it with build on
// first use. Construction is serialized per token.
func (s *singletonCache) get(desc *Descriptor, build func() (any, error)) (any, error) {
	token := desc.token

	s.mu.Lock()
	if v, exists := s.objects[token]; exists {
		s.mu.Unlock()
		return v, nil
	}
	if call, inFlight := s.calls[token]; inFlight {
		s.mu.Unlock()
		<-call.done
		return call.value, call.err
	}
	call := &inflightCall{done: make(chan struct{})}
	s.calls[token] = call
	s.mu.Unlock()

	value, err := build()

	s.mu.Lock()
	delete(s.calls, token)
	if err == nil {
		s.objects[token] = value
		s.entries = append(s.entries, singletonEntry{desc: desc, instance: value})
	}
	s.mu.Unlock()

	call.value, call.err = value, err
	close(call.done)
	return value, err
}

// drain empties the cache and returns the entries in reverse construction
// order, ready for LIFO disposal.
func (s *singletonCache) drain() []singletonEntry {
	s.mu.Lock()
	entries := s.entries
	s.entries = nil
	s.objects = make(map[*Token]any)
	s.mu.Unlock()

	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries
}
