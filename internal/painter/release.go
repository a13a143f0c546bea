package painter

// Releaser collects cleanup actions registered while a component acquires
// resources (listener subscriptions, drag sessions) and runs them once when
// the component is destroyed.
type Releaser struct {
	actions  []func()
	released bool
}

// Register adds fn to the registry. If the registry was already released, fn
// runs immediately.
func (r *Releaser) Register(fn func()) {
	if r.released {
		fn()
		return
	}
	r.actions = append(r.actions, fn)
}

// Release runs every registered action in registration order. Later calls
// do nothing.
func (r *Releaser) Release() {
	if r.released {
		return
	}
	r.released = true
	actions := r.actions
	r.actions = nil
	for _, fn := range actions {
		fn()
	}
}

// Released reports whether Release has run.
func (r *Releaser) Released() bool {
	return r.released
}
