package ast

// VisitDirection indicates whether a Visitor is being called when entering a
// node (before its children) or exiting it (after its children).
type VisitDirection bool

const (
	Enter VisitDirection = true
	Exit  VisitDirection = false
)

// Visitor visits a Node, once on Enter (before descending into its
// children) and once on Exit (after). Returning false on Enter skips the
// node's children (Exit is still called).
type Visitor interface {
	Visit(n Node, dir VisitDirection) bool
}

// VisitorFunc adapts a plain function to the Visitor interface; it is
// called on both Enter and Exit.
type VisitorFunc func(n Node, dir VisitDirection) bool

func (f VisitorFunc) Visit(n Node, dir VisitDirection) bool { return f(n, dir) }

// Walk visits n and its descendants in depth-first order.
func Walk(v Visitor, n Node) {
	if n == nil {
		return
	}
	if !v.Visit(n, Enter) {
		v.Visit(n, Exit)
		return
	}
	n.Walk(v)
	v.Visit(n, Exit)
}
