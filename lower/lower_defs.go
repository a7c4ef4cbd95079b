package lower

import (
	"sable/semir"
	"sable/util"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/enum"
)

// buildFuncDecl lowers a function's signature into the module without
// touching its body.  Parameter and return types come straight out of the
// type cache, which the type phase has already populated.
func (l *Context) buildFuncDecl(id semir.FunctionID) *ir.Func {
	fn := l.sem.Function(id)

	paramRefs := l.sem.Block(fn.ParamRefs)
	params := util.Map(paramRefs, func(refID semir.NodeID) *ir.Param {
		ref := l.sem.Node(refID)
		nameID, _ := ref.AsBindName()
		return ir.NewParam(l.sem.String(nameID), l.getType(ref.Type))
	})

	retTypeID := fn.ReturnType
	if !retTypeID.Valid() {
		retTypeID = l.sem.EmptyTupleType()
	}

	llFunc := l.mod.NewFunc(l.sem.String(fn.Name), l.getType(retTypeID), params...)
	llFunc.Linkage = enum.LinkageExternal

	return llFunc
}

// buildFuncDef lowers a function's body.  A function without a body is a
// declaration for something defined in another translation unit; that is
// not an error.
func (l *Context) buildFuncDef(id semir.FunctionID) {
	fn := l.sem.Function(id)
	if !fn.Body.Valid() {
		return
	}

	llFunc := l.getFunction(id)

	// Open the entry block and make it the insertion point.
	l.block = llFunc.NewBlock("entry")

	if len(l.locals) != 0 {
		fatalf("locals leaked into function %s", l.sem.String(fn.Name))
	}

	// Bind each parameter to its storage node.  bind rejects duplicates: two
	// parameters sharing a storage node means the IR is malformed.
	paramRefs := l.sem.Block(fn.ParamRefs)
	for i, refID := range paramRefs {
		_, storageID := l.sem.Node(refID).AsBindName()
		l.locals.bind(storageID, localValue{Val: llFunc.Params[i]})
	}

	l.tracef("lowering block%d", fn.Body)
	for _, nodeID := range l.sem.Block(fn.Body) {
		node := l.sem.Node(nodeID)
		l.tracef("lowering %s: %s", nodeID, node)
		nodeHandlers[node.Kind](l, nodeID, node)
	}

	l.locals.clear()
}
