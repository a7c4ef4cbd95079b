package lower

import (
	"sable/semir"

	"github.com/llir/llvm/ir/value"
)

// localValue is a lowered value recorded in the local environment.  NeedsLoad
// marks values that are addresses (allocas, computed element pointers) rather
// than materialized values; it is decided once, when the value is produced,
// and consulted on every access.
type localValue struct {
	Val value.Value

	NeedsLoad bool
}

// locals is the per-function environment mapping semantic storage nodes to
// their lowered values.  It belongs exclusively to the function definition
// currently being lowered and is cleared before the next one begins.
type locals map[semir.NodeID]localValue

// bind records the lowered value for a node.  A node may be bound at most
// once per function: a duplicate binding means the checker produced a
// malformed IR.
func (lo locals) bind(id semir.NodeID, v localValue) {
	if _, ok := lo[id]; ok {
		fatalf("duplicate local binding for %s", id)
	}

	lo[id] = v
}

// get returns the lowered value recorded for a node.
func (lo locals) get(id semir.NodeID) localValue {
	v, ok := lo[id]
	if !ok {
		fatalf("no local binding for %s", id)
	}

	return v
}

// clear removes every binding.
func (lo locals) clear() {
	for id := range lo {
		delete(lo, id)
	}
}
