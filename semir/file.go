// Package semir defines the semantic IR: the fully-checked intermediate
// representation produced by Sable's front end and consumed by the lowering
// stage.  All entities are identified by dense integer ids scoped to the
// owning File, and all collections are append-only once the File is built.
package semir

// Function is a function descriptor.
type Function struct {
	// Name is the function's interned name.
	Name StringID

	// ParamRefs is the block of the function's parameter references, in
	// declaration order.  Each reference is a BindName node bound to the
	// parameter's storage node.
	ParamRefs BlockID

	// ReturnType is the declared return type, or NoNode if the function has
	// no declared return type (in which case it returns the empty tuple).
	ReturnType NodeID

	// Body is the function's body block, or NoBlock for a declaration-only
	// function that is defined in another translation unit.
	Body BlockID
}

// File is one checked semantic IR.  It is read-only from the lowering
// stage's point of view: every accessor returns by value or returns a slice
// the caller must not mutate.
type File struct {
	strings   []string
	nodes     []Node
	blocks    [][]NodeID
	functions []Function
	typeTable []NodeID
	ints      []int64
	reals     []float64
	hasErrors bool
}

// HasErrors reports whether the checker recorded any error in this file.
// Lowering a file with errors is unsupported.
func (f *File) HasErrors() bool {
	return f.hasErrors
}

// String returns the interned string with the given id.
func (f *File) String(id StringID) string {
	return f.strings[id]
}

// Node returns the node with the given id.
func (f *File) Node(id NodeID) Node {
	return f.nodes[id]
}

// NumNodes returns the number of nodes in the file, including the seeded
// built-in nodes.
func (f *File) NumNodes() int {
	return len(f.nodes)
}

// Block returns the node block with the given id.
func (f *File) Block(id BlockID) []NodeID {
	return f.blocks[id]
}

// Function returns the function descriptor with the given id.
func (f *File) Function(id FunctionID) Function {
	return f.functions[id]
}

// NumFunctions returns the number of functions in the file.
func (f *File) NumFunctions() int {
	return len(f.functions)
}

// Types returns the type table: the node ids of every type in the file, in
// id order.  The table always begins with the built-in type ids.
func (f *File) Types() []NodeID {
	return f.typeTable
}

// IntLiteral returns the integer literal with the given table index.
func (f *File) IntLiteral(idx int32) int64 {
	return f.ints[idx]
}

// RealLiteral returns the real literal with the given table index.
func (f *File) RealLiteral(idx int32) float64 {
	return f.reals[idx]
}

// EmptyTupleType returns the type reference of the built-in empty tuple
// type, the default return type of functions with no declared return type.
func (f *File) EmptyTupleType() NodeID {
	return BuiltinEmptyTupleType.NodeID()
}
