package lower

import (
	"sable/semir"

	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// handleFunc translates one node at the current insertion point.  A handler
// may read and extend the local environment and may redirect the insertion
// point before returning.
type handleFunc func(l *Context, id semir.NodeID, node semir.Node)

// nodeHandlers maps every node kind to its handler.  The array is sized by
// the kind count, so adding a kind without a handler leaves a nil slot; the
// init check below turns that into a failure the first time the package is
// linked into anything that runs, which a dedicated test pins down.
var nodeHandlers = [semir.NumNodeKinds]handleFunc{
	semir.KindInvalid:             handleInvalid,
	semir.KindAssign:              handleAssign,
	semir.KindBinaryOperatorAdd:   handleBinaryOperatorAdd,
	semir.KindBindName:            handleBindName,
	semir.KindBuiltin:             handleNoOp,
	semir.KindCall:                handleCall,
	semir.KindFunctionDeclaration: handleNoOp,
	semir.KindIntegerLiteral:      handleIntegerLiteral,
	semir.KindRealLiteral:         handleRealLiteral,
	semir.KindReturn:              handleReturn,
	semir.KindReturnExpression:    handleReturnExpression,
	semir.KindStructMemberAccess:  handleStructMemberAccess,
	semir.KindStructType:          handleNoOp,
	semir.KindStructTypeField:     handleNoOp,
	semir.KindStructValue:         handleStructValue,
	semir.KindStubReference:       handleStubReference,
	semir.KindVarStorage:          handleVarStorage,
}

func init() {
	for kind, handler := range nodeHandlers {
		if handler == nil {
			fatalf("no handler for node kind %s", semir.NodeKind(kind))
		}
	}
}

// -----------------------------------------------------------------------------

// materialize produces a ready-to-use value for a node recorded in the local
// environment.  Address-tagged values are loaded through the node's declared
// type; everything else is used directly.  The decision is re-made on every
// access so that loads always observe the current contents of the address.
func (l *Context) materialize(id semir.NodeID) value.Value {
	local := l.locals.get(id)
	if local.NeedsLoad {
		return l.block.NewLoad(l.getType(l.sem.Node(id).Type), local.Val)
	}

	return local.Val
}

// -----------------------------------------------------------------------------

func handleInvalid(l *Context, id semir.NodeID, node semir.Node) {
	fatalf("cannot lower invalid node %s", id)
}

// handleNoOp covers the node kinds that carry no body-level work: built-ins
// and types are lowered in the type phase, function declarations in the
// declaration phase.
func handleNoOp(l *Context, id semir.NodeID, node semir.Node) {}

func handleAssign(l *Context, id semir.NodeID, node semir.Node) {
	storageID, valueID := node.AsAssign()
	l.block.NewStore(l.materialize(valueID), l.locals.get(storageID).Val)
}

func handleBinaryOperatorAdd(l *Context, id semir.NodeID, node semir.Node) {
	lhsID, rhsID := node.AsBinaryOperatorAdd()
	lhs := l.materialize(lhsID)
	rhs := l.materialize(rhsID)

	var sum value.Value
	if node.Type == semir.BuiltinFloatingPointType.NodeID() {
		sum = l.block.NewFAdd(lhs, rhs)
	} else {
		sum = l.block.NewAdd(lhs, rhs)
	}

	l.locals.bind(id, localValue{Val: sum})
}

func handleBindName(l *Context, id semir.NodeID, node semir.Node) {
	// A name binding introduces no code of its own; the node becomes an
	// alias for whatever the bound node lowered to.
	_, valueID := node.AsBindName()
	l.locals.bind(id, l.locals.get(valueID))
}

func handleCall(l *Context, id semir.NodeID, node semir.Node) {
	calleeID, argsID := node.AsCall()

	var args []value.Value
	for _, argID := range l.sem.Block(argsID) {
		args = append(args, l.materialize(argID))
	}

	call := l.block.NewCall(l.getFunction(calleeID), args...)
	l.locals.bind(id, localValue{Val: call})
}

func handleIntegerLiteral(l *Context, id semir.NodeID, node semir.Node) {
	lit := constant.NewInt(
		l.getType(node.Type).(*types.IntType),
		l.sem.IntLiteral(node.AsIntegerLiteral()),
	)
	l.locals.bind(id, localValue{Val: lit})
}

func handleRealLiteral(l *Context, id semir.NodeID, node semir.Node) {
	lit := constant.NewFloat(
		l.getType(node.Type).(*types.FloatType),
		l.sem.RealLiteral(node.AsRealLiteral()),
	)
	l.locals.bind(id, localValue{Val: lit})
}

func handleReturn(l *Context, id semir.NodeID, node semir.Node) {
	// Functions without a declared return type return the empty tuple.
	empty := l.getType(l.sem.EmptyTupleType()).(*types.StructType)
	l.block.NewRet(constant.NewStruct(empty))
}

func handleReturnExpression(l *Context, id semir.NodeID, node semir.Node) {
	l.block.NewRet(l.materialize(node.AsReturnExpression()))
}

func handleStructMemberAccess(l *Context, id semir.NodeID, node semir.Node) {
	baseID, member := node.AsStructMemberAccess()
	base := l.locals.get(baseID)
	structType := l.getType(l.sem.Node(baseID).Type)

	elemPtr := l.block.NewGetElementPtr(
		structType,
		base.Val,
		constant.NewInt(types.I32, 0),
		constant.NewInt(types.I32, int64(member)),
	)

	// The element pointer is an address: loading it is deferred to the
	// access site.
	l.locals.bind(id, localValue{Val: elemPtr, NeedsLoad: true})
}

func handleStructValue(l *Context, id semir.NodeID, node semir.Node) {
	structType := l.getType(node.Type).(*types.StructType)
	alloca := l.block.NewAlloca(structType)

	for i, refID := range l.sem.Block(node.AsStructValue()) {
		memberPtr := l.block.NewGetElementPtr(
			structType,
			alloca,
			constant.NewInt(types.I32, 0),
			constant.NewInt(types.I32, int64(i)),
		)
		l.block.NewStore(l.materialize(refID), memberPtr)
	}

	l.locals.bind(id, localValue{Val: alloca, NeedsLoad: true})
}

func handleStubReference(l *Context, id semir.NodeID, node semir.Node) {
	l.locals.bind(id, l.locals.get(node.AsStubReference()))
}

func handleVarStorage(l *Context, id semir.NodeID, node semir.Node) {
	alloca := l.block.NewAlloca(l.getType(node.Type))
	l.locals.bind(id, localValue{Val: alloca, NeedsLoad: true})
}
