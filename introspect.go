package ioc

import (
	"fmt"
	"iter"
	"sort"
	"strings"
)

// Services returns the registered services in registration order. The
// sequence is a snapshot: it is finite, restartable, and unaffected by
// registrations made after the call.
func (c *Container) Services() iter.Seq2[*Token, Metadata] {
	c.mu.RLock()
	snapshot := make([]Metadata, 0, c.registry.len())
	c.registry.all(func(d *Descriptor) bool {
		snapshot = append(snapshot, d.metadata())
		return true
	})
	c.mu.RUnlock()

	return func(yield func(*Token, Metadata) bool) {
		for _, md := range snapshot {
			if !yield(md.Token, md) {
				return
			}
		}
	}
}

// ServicesByTag returns, in registration order, the tokens whose
// descriptor carries the given tag.
func (c *Container) ServicesByTag(tag string) []*Token {
	return c.Filter(ByTag(tag)).Tokens()
}

// ValidationResult is the outcome of a static pass over the descriptor
// store.
type ValidationResult struct {
	Valid  bool
	Errors []string
}

// Validate checks every descriptor's declared dependencies for missing
// registrations and the graph as a whole for cycles. It never constructs
// an instance and never mutates container state; it is the one diagnostic
// path that reports structurally instead of failing.
func (c *Container) Validate() ValidationResult {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var errs []string
	c.registry.all(func(d *Descriptor) bool {
		for _, dep := range d.dependencies {
			if !c.registry.contains(dep) {
				errs = append(errs, fmt.Sprintf("service %q depends on unregistered token %q", d.token.Name(), dep.Name()))
			}
		}
		return true
	})

	if cycle := findCycle(c.registry); len(cycle) > 0 {
		names := make([]string, len(cycle))
		for i, t := range cycle {
			names[i] = t.Name()
		}
		errs = append(errs, fmt.Sprintf("dependency cycle: %s", strings.Join(names, " -> ")))
	}

	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

// Predicate selects descriptors for filtered introspection.
type Predicate func(*Descriptor) bool

// ByTag matches descriptors carrying the tag.
func ByTag(tag string) Predicate {
	return func(d *Descriptor) bool { return d.HasTag(tag) }
}

// ByLifetime matches descriptors with the given lifetime policy.
func ByLifetime(l Lifetime) Predicate {
	return func(d *Descriptor) bool { return d.lifetime == l }
}

// ByKind matches descriptors with the given strategy kind.
func ByKind(k StrategyKind) Predicate {
	return func(d *Descriptor) bool { return d.strategy.Kind() == k }
}

// FilteredServices is a filtered view over the descriptor store.
type FilteredServices struct {
	descriptors []*Descriptor
}

// Filter returns the descriptors matching all predicates, in
// registration order.
func (c *Container) Filter(preds ...Predicate) *FilteredServices {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var matched []*Descriptor
	c.registry.all(func(d *Descriptor) bool {
		for _, pred := range preds {
			if !pred(d) {
				return true
			}
		}
		matched = append(matched, d)
		return true
	})
	return &FilteredServices{descriptors: matched}
}

// Sort orders the view in place and returns it for chaining.
func (f *FilteredServices) Sort(less func(a, b Metadata) bool) *FilteredServices {
	sort.SliceStable(f.descriptors, func(i, j int) bool {
		return less(f.descriptors[i].metadata(), f.descriptors[j].metadata())
	})
	return f
}

// Foreach visits the view until the visitor stops or errors.
func (f *FilteredServices) Foreach(visit func(*Token, Metadata) (stop bool, err error)) error {
	for _, d := range f.descriptors {
		stop, err := visit(d.token, d.metadata())
		if err != nil {
			return err
		}
		if stop {
			return nil
		}
	}
	return nil
}

// Tokens returns the tokens of the view.
func (f *FilteredServices) Tokens() []*Token {
	tokens := make([]*Token, len(f.descriptors))
	for i, d := range f.descriptors {
		tokens[i] = d.token
	}
	return tokens
}
