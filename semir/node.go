package semir

import "fmt"

// NodeID is the dense id of a node within its owning File.  The reserved low
// range `0..NumBuiltins-1` denotes built-in kinds (see BuiltinKind).
type NodeID int32

// StringID is the dense id of an interned string.
type StringID int32

// BlockID is the dense id of a node block: an ordered sequence of node
// references whose order is semantically significant.
type BlockID int32

// FunctionID is the dense id of a function.
type FunctionID int32

// Sentinel values for optional references.
const (
	NoNode     NodeID     = -1
	NoString   StringID   = -1
	NoBlock    BlockID    = -1
	NoFunction FunctionID = -1
)

// Valid returns whether the id refers to an actual node.
func (id NodeID) Valid() bool {
	return id >= 0
}

// Valid returns whether the id refers to an actual block.
func (id BlockID) Valid() bool {
	return id >= 0
}

func (id NodeID) String() string {
	return fmt.Sprintf("node%d", int32(id))
}

// -----------------------------------------------------------------------------

// Node is a single semantic entity: a kind tag, a type reference, and two
// kind-specific operand words.  Nodes are immutable once produced by the
// checker.  The meaning of Arg0/Arg1 depends on Kind; use the As* decoders.
type Node struct {
	// Kind is the node's kind tag.
	Kind NodeKind

	// Type is the node's type reference, or NoNode for nodes that do not
	// produce a typed value.
	Type NodeID

	// Arg0 and Arg1 are the kind-specific operands.
	Arg0 int32
	Arg1 int32
}

// AsAssign decodes an Assign node into its storage and value operands.
func (n Node) AsAssign() (NodeID, NodeID) {
	return NodeID(n.Arg0), NodeID(n.Arg1)
}

// AsBinaryOperatorAdd decodes a BinaryOperatorAdd node into its left and
// right operands.
func (n Node) AsBinaryOperatorAdd() (NodeID, NodeID) {
	return NodeID(n.Arg0), NodeID(n.Arg1)
}

// AsBindName decodes a BindName node into the bound name and the node the
// name is bound to.
func (n Node) AsBindName() (StringID, NodeID) {
	return StringID(n.Arg0), NodeID(n.Arg1)
}

// AsBuiltin decodes a Builtin node into its built-in kind.
func (n Node) AsBuiltin() BuiltinKind {
	return BuiltinKind(n.Arg0)
}

// AsCall decodes a Call node into the callee function and the block of
// argument references.
func (n Node) AsCall() (FunctionID, BlockID) {
	return FunctionID(n.Arg0), BlockID(n.Arg1)
}

// AsFunctionDeclaration decodes a FunctionDeclaration node into its function.
func (n Node) AsFunctionDeclaration() FunctionID {
	return FunctionID(n.Arg0)
}

// AsIntegerLiteral decodes an IntegerLiteral node into its index in the
// integer literal table.
func (n Node) AsIntegerLiteral() int32 {
	return n.Arg0
}

// AsRealLiteral decodes a RealLiteral node into its index in the real
// literal table.
func (n Node) AsRealLiteral() int32 {
	return n.Arg0
}

// AsReturnExpression decodes a ReturnExpression node into the returned
// value's node.
func (n Node) AsReturnExpression() NodeID {
	return NodeID(n.Arg0)
}

// AsStructMemberAccess decodes a StructMemberAccess node into the accessed
// struct value and the member index.
func (n Node) AsStructMemberAccess() (NodeID, int32) {
	return NodeID(n.Arg0), n.Arg1
}

// AsStructType decodes a StructType node into its block of field references.
func (n Node) AsStructType() BlockID {
	return BlockID(n.Arg0)
}

// AsStructTypeField decodes a StructTypeField node into its field name.  The
// field's declared type is the node's Type reference.
func (n Node) AsStructTypeField() StringID {
	return StringID(n.Arg0)
}

// AsStructValue decodes a StructValue node into its block of member value
// references.
func (n Node) AsStructValue() BlockID {
	return BlockID(n.Arg0)
}

// AsStubReference decodes a StubReference node into the referenced node.
func (n Node) AsStubReference() NodeID {
	return NodeID(n.Arg0)
}

func (n Node) String() string {
	return fmt.Sprintf("{kind: %s, arg0: %d, arg1: %d, type: %d}", n.Kind, n.Arg0, n.Arg1, int32(n.Type))
}
