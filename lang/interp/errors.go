package interp

import (
	"fmt"

	"github.com/mna/zero/lang/vm"
)

// Error is a tree-walking-interpreter runtime failure. It reuses the VM's
// ErrorKind taxonomy rather than declaring its own: --old and the default
// VM path are both "runtime", and internal/diag's registry already maps
// every vm.ErrorKind onto an R-series code, so an interp.Error renders
// through the exact same diagnostics without a parallel code table.
type Error struct {
	Kind vm.ErrorKind
	Line uint32
	Msg  string
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %s (line %d)", e.Kind, e.Msg, e.Line) }
