package ioc

// registry is the descriptor store: one descriptor per token, preserving
// registration order for introspection. Re-registration is a
// last-write-wins overwrite that keeps the token's original position.
//
// The registry itself is not synchronized; the container guards it.
type registry struct {
	descriptors map[*Token]*Descriptor
	order       []*Token
}

func newRegistry() *registry {
	return &registry{
		descriptors: make(map[*Token]*Descriptor),
	}
}

func (r *registry) put(d *Descriptor) {
	if _, exists := r.descriptors[d.token]; !exists {
		r.order = append(r.order, d.token)
	}
	r.descriptors[d.token] = d
}

func (r *registry) get(token *Token) (*Descriptor, bool) {
	d, ok := r.descriptors[token]
	return d, ok
}

func (r *registry) contains(token *Token) bool {
	_, ok := r.descriptors[token]
	return ok
}

// all visits descriptors in registration order.
func (r *registry) all(visit func(*Descriptor) bool) {
	for _, token := range r.order {
		if !visit(r.descriptors[token]) {
			return
		}
	}
}

func (r *registry) len() int {
	return len(r.order)
}

func (r *registry) clear() {
	r.descriptors = make(map[*Token]*Descriptor)
	r.order = nil
}
