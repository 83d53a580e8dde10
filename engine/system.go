package engine

// System is a per-frame behavior run by the Scheduler. Systems keep whatever
// state they need between frames in their own fields. An error returned from
// Execute is fatal to the loop.
type System interface {
	Execute(frame *UpdateFrame) error
}

// SystemFunc adapts a plain function to the System interface.
type SystemFunc func(frame *UpdateFrame) error

func (f SystemFunc) Execute(frame *UpdateFrame) error {
	return f(frame)
}

// Named lets a system choose the name reported in scheduler stats.
type Named interface {
	Name() string
}
