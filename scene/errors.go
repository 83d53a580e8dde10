package scene

import "fmt"

// CycleReason explains why an attachment was rejected.
type CycleReason string

const (
	ReasonSelf     CycleReason = "node cannot be its own parent"
	ReasonAncestor CycleReason = "child is an ancestor of the parent"
	ReasonParented CycleReason = "child already has a parent; detach it first"
)

// CycleError reports an attachment that would break the tree invariant.
type CycleError struct {
	Parent string
	Child  string
	Reason CycleReason
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("scene: cannot attach %q under %q: %s", e.Child, e.Parent, e.Reason)
}
