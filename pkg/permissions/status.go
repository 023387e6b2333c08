package permissions

// Status is a live view of one (path, mode) permission, shaped after the
// browser's PermissionStatus: it always reads the current value and can
// notify on changes.
type Status struct {
	path       string
	mode       Mode
	permission *Permission
}

// Path returns the path this status observes.
func (s *Status) Path() string {
	return s.path
}

// Mode returns the mode this status observes.
func (s *Status) Mode() Mode {
	return s.mode
}

// State returns the current permission state.
func (s *Status) State() State {
	state, _ := s.permission.Get(s.mode)
	return state
}

// OnChange registers a change callback and returns a function that
// removes it.
func (s *Status) OnChange(callback ChangeFunc) (unsubscribe func()) {
	id := s.permission.Subscribe(s.mode, callback)
	return func() {
		s.permission.Unsubscribe(s.mode, id)
	}
}
