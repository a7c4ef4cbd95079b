package semir

// NodeKind enumerates every kind of semantic node the checker can produce.
// The set is closed: the lowering stage keys a handler table by this value
// and verifies at startup that every kind has a handler, so a kind added
// here without a corresponding handler is caught before any IR is built.
type NodeKind uint8

const (
	KindInvalid NodeKind = iota
	KindAssign
	KindBinaryOperatorAdd
	KindBindName
	KindBuiltin
	KindCall
	KindFunctionDeclaration
	KindIntegerLiteral
	KindRealLiteral
	KindReturn
	KindReturnExpression
	KindStructMemberAccess
	KindStructType
	KindStructTypeField
	KindStructValue
	KindStubReference
	KindVarStorage
)

// NumNodeKinds is the number of distinct node kinds.
const NumNodeKinds = int(KindVarStorage) + 1

// nodeKindNames maps node kinds to their display names.
var nodeKindNames = [NumNodeKinds]string{
	"Invalid",
	"Assign",
	"BinaryOperatorAdd",
	"BindName",
	"Builtin",
	"Call",
	"FunctionDeclaration",
	"IntegerLiteral",
	"RealLiteral",
	"Return",
	"ReturnExpression",
	"StructMemberAccess",
	"StructType",
	"StructTypeField",
	"StructValue",
	"StubReference",
	"VarStorage",
}

func (nk NodeKind) String() string {
	if int(nk) < len(nodeKindNames) {
		return nodeKindNames[nk]
	}

	return "Unknown"
}

// -----------------------------------------------------------------------------

// BuiltinKind enumerates the built-in type entities of the semantic IR.  The
// node table of every File is seeded with one `KindBuiltin` node per built-in,
// in declaration order, so the node ids `0..NumBuiltins-1` always denote
// built-ins and can be resolved without dereferencing a node.
type BuiltinKind uint8

const (
	BuiltinEmptyTupleType BuiltinKind = iota
	BuiltinIntegerType
	BuiltinFloatingPointType
	BuiltinBoolType
)

// NumBuiltins is the number of built-in kinds and thus the upper bound of the
// reserved built-in node-id range.
const NumBuiltins = int(BuiltinBoolType) + 1

// builtinKindNames maps built-in kinds to their canonical names.  These names
// are also used to tag the lowered forms of "empty-like" built-ins so that
// distinct built-ins remain distinguishable downstream.
var builtinKindNames = [NumBuiltins]string{
	"EmptyTupleType",
	"IntegerType",
	"FloatingPointType",
	"BoolType",
}

// Name returns the canonical name of the built-in kind.
func (bk BuiltinKind) Name() string {
	return builtinKindNames[bk]
}

func (bk BuiltinKind) String() string {
	return bk.Name()
}

// NodeID returns the reserved node id of the built-in kind.
func (bk BuiltinKind) NodeID() NodeID {
	return NodeID(bk)
}

// IsBuiltinID returns whether a node id falls in the reserved built-in range.
func IsBuiltinID(id NodeID) bool {
	return 0 <= id && int(id) < NumBuiltins
}
