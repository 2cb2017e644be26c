package ioc

// Initializable interface to be implemented by components that want to
// initialize resources on creation. The container invokes Initialize
// before any explicit init hook and before the instance is published to
// a cache.
//
// See WithInitHook
type Initializable interface {
	Initialize()
}

// Disposable interface to be implemented by components that want to
// release resources on destruction. The container invokes Dispose after
// any explicit dispose hook.
//
// See WithDisposeHook
type Disposable interface {
	Dispose()
}

// runInit applies the implicit Initializable contract and then the
// descriptor's explicit init hook, if any.
func runInit(d *Descriptor, instance any) error {
	if in, ok := instance.(Initializable); ok {
		in.Initialize()
	}
	if d.initHook != nil {
		return d.initHook(instance)
	}
	return nil
}

// runDispose applies the descriptor's explicit dispose hook, if any, and
// then the implicit Disposable contract. Absence of both is not an error.
func runDispose(d *Descriptor, instance any) error {
	var err error
	if d.disposeHook != nil {
		err = d.disposeHook(instance)
	}
	if di, ok := instance.(Disposable); ok {
		di.Dispose()
	}
	return err
}

// disposable reports whether teardown has anything to do for instances
// of this descriptor.
func disposable(d *Descriptor, instance any) bool {
	if d.disposeHook != nil {
		return true
	}
	_, ok := instance.(Disposable)
	return ok
}
