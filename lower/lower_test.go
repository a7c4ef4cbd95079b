package lower

import (
	"bytes"
	"strings"
	"testing"

	"sable/semir"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
)

// buildAddFile builds the semantic IR for:
//
//	fn add(a: Int, b: Int) -> Int { return a + b }
func buildAddFile() (*semir.File, semir.FunctionID) {
	b := semir.NewBuilder()
	intType := semir.BuiltinIntegerType.NodeID()

	storageA := b.AddNode(semir.Node{Kind: semir.KindVarStorage, Type: intType})
	paramA := b.AddNode(semir.Node{
		Kind: semir.KindBindName,
		Type: intType,
		Arg0: int32(b.InternString("a")),
		Arg1: int32(storageA),
	})

	storageB := b.AddNode(semir.Node{Kind: semir.KindVarStorage, Type: intType})
	paramB := b.AddNode(semir.Node{
		Kind: semir.KindBindName,
		Type: intType,
		Arg0: int32(b.InternString("b")),
		Arg1: int32(storageB),
	})

	sum := b.AddNode(semir.Node{
		Kind: semir.KindBinaryOperatorAdd,
		Type: intType,
		Arg0: int32(storageA),
		Arg1: int32(storageB),
	})
	ret := b.AddNode(semir.Node{
		Kind: semir.KindReturnExpression,
		Type: semir.NoNode,
		Arg0: int32(sum),
	})

	fnID := b.AddFunction(semir.Function{
		Name:       b.InternString("add"),
		ParamRefs:  b.AddBlock([]semir.NodeID{paramA, paramB}),
		ReturnType: intType,
		Body:       b.AddBlock([]semir.NodeID{sum, ret}),
	})

	return b.File(), fnID
}

func mustPanic(t *testing.T, f func()) {
	t.Helper()

	defer func() {
		if recover() == nil {
			t.Fatalf("expected a lowering panic")
		}
	}()

	f()
}

// -----------------------------------------------------------------------------

func TestLowerAddFunction(t *testing.T) {
	sem, _ := buildAddFile()
	mod := NewContext("main", sem, nil).Run()

	if len(mod.Funcs) != 1 {
		t.Fatalf("expected 1 function, got %d", len(mod.Funcs))
	}

	f := mod.Funcs[0]
	if f.Name() != "add" {
		t.Fatalf("expected function named `add`, got `%s`", f.Name())
	}

	if f.Linkage != enum.LinkageExternal {
		t.Fatalf("expected external linkage, got %v", f.Linkage)
	}

	if len(f.Params) != 2 {
		t.Fatalf("expected 2 parameters, got %d", len(f.Params))
	}

	for i, want := range []string{"a", "b"} {
		if f.Params[i].Name() != want {
			t.Fatalf("expected parameter %d named `%s`, got `%s`", i, want, f.Params[i].Name())
		}

		if !f.Params[i].Type().Equal(types.I32) {
			t.Fatalf("expected parameter %d of type i32, got %v", i, f.Params[i].Type())
		}
	}

	if !f.Sig.RetType.Equal(types.I32) {
		t.Fatalf("expected return type i32, got %v", f.Sig.RetType)
	}

	if len(f.Blocks) != 1 {
		t.Fatalf("expected 1 basic block, got %d", len(f.Blocks))
	}

	entry := f.Blocks[0]
	if len(entry.Insts) != 1 {
		t.Fatalf("expected 1 instruction, got %d", len(entry.Insts))
	}

	sum, ok := entry.Insts[0].(*ir.InstAdd)
	if !ok {
		t.Fatalf("expected an add instruction, got %T", entry.Insts[0])
	}

	if sum.X != f.Params[0] || sum.Y != f.Params[1] {
		t.Fatalf("expected the add to sum the two parameters directly")
	}

	retTerm, ok := entry.Term.(*ir.TermRet)
	if !ok {
		t.Fatalf("expected a ret terminator, got %T", entry.Term)
	}

	if retTerm.X != sum {
		t.Fatalf("expected the sum to be returned")
	}
}

func TestDefaultReturnType(t *testing.T) {
	b := semir.NewBuilder()
	ret := b.AddNode(semir.Node{Kind: semir.KindReturn, Type: semir.NoNode})
	b.AddFunction(semir.Function{
		Name:       b.InternString("noop"),
		ParamRefs:  b.AddBlock(nil),
		ReturnType: semir.NoNode,
		Body:       b.AddBlock([]semir.NodeID{ret}),
	})

	l := NewContext("main", b.File(), nil)
	mod := l.Run()

	retType, ok := mod.Funcs[0].Sig.RetType.(*types.StructType)
	if !ok {
		t.Fatalf("expected an aggregate return type, got %v", mod.Funcs[0].Sig.RetType)
	}

	if retType != l.getType(semir.BuiltinEmptyTupleType.NodeID()) {
		t.Fatalf("expected the lowered empty tuple type as the return type")
	}

	if retType.Name() != semir.BuiltinEmptyTupleType.Name() {
		t.Fatalf("expected the empty tuple type to carry its canonical name, got `%s`", retType.Name())
	}

	if len(retType.Fields) != 0 {
		t.Fatalf("expected a zero-member aggregate, got %d members", len(retType.Fields))
	}
}

func TestBuiltinTypeStability(t *testing.T) {
	l := NewContext("main", semir.NewBuilder().File(), nil)
	l.Run()

	if l.getType(semir.BuiltinIntegerType.NodeID()) != types.I32 {
		t.Fatalf("expected the integer type to lower to i32")
	}

	if l.getType(semir.BuiltinFloatingPointType.NodeID()) != types.Double {
		t.Fatalf("expected the floating point type to lower to double")
	}

	if l.getType(semir.BuiltinBoolType.NodeID()) != types.I1 {
		t.Fatalf("expected the bool type to lower to i1")
	}
}

func TestTypeCacheIdempotent(t *testing.T) {
	sem, _ := buildAddFile()
	l := NewContext("main", sem, nil)
	l.Run()

	for _, typeID := range sem.Types() {
		first := l.getType(typeID)
		second := l.getType(typeID)
		if first != second {
			t.Fatalf("expected identical cached type objects for %s", typeID)
		}
	}
}

func TestDeclarationBeforeDefinition(t *testing.T) {
	// main() -> Int { return add(1, 2) } with add defined after main, so the
	// call must go through the declaration produced in the earlier phase.
	b := semir.NewBuilder()
	intType := semir.BuiltinIntegerType.NodeID()

	lit1 := b.AddNode(semir.Node{Kind: semir.KindIntegerLiteral, Type: intType, Arg0: b.AddIntLiteral(1)})
	lit2 := b.AddNode(semir.Node{Kind: semir.KindIntegerLiteral, Type: intType, Arg0: b.AddIntLiteral(2)})

	// function ids are assigned in AddFunction order: main=0, add=1
	call := b.AddNode(semir.Node{Kind: semir.KindCall, Type: intType, Arg0: 1, Arg1: int32(b.AddBlock([]semir.NodeID{lit1, lit2}))})
	mainRet := b.AddNode(semir.Node{Kind: semir.KindReturnExpression, Type: semir.NoNode, Arg0: int32(call)})

	b.AddFunction(semir.Function{
		Name:       b.InternString("main"),
		ParamRefs:  b.AddBlock(nil),
		ReturnType: intType,
		Body:       b.AddBlock([]semir.NodeID{lit1, lit2, call, mainRet}),
	})

	storageA := b.AddNode(semir.Node{Kind: semir.KindVarStorage, Type: intType})
	paramA := b.AddNode(semir.Node{Kind: semir.KindBindName, Type: intType, Arg0: int32(b.InternString("a")), Arg1: int32(storageA)})
	storageB := b.AddNode(semir.Node{Kind: semir.KindVarStorage, Type: intType})
	paramB := b.AddNode(semir.Node{Kind: semir.KindBindName, Type: intType, Arg0: int32(b.InternString("b")), Arg1: int32(storageB)})
	sum := b.AddNode(semir.Node{Kind: semir.KindBinaryOperatorAdd, Type: intType, Arg0: int32(storageA), Arg1: int32(storageB)})
	addRet := b.AddNode(semir.Node{Kind: semir.KindReturnExpression, Type: semir.NoNode, Arg0: int32(sum)})

	b.AddFunction(semir.Function{
		Name:       b.InternString("add"),
		ParamRefs:  b.AddBlock([]semir.NodeID{paramA, paramB}),
		ReturnType: intType,
		Body:       b.AddBlock([]semir.NodeID{sum, addRet}),
	})

	l := NewContext("main", b.File(), nil)
	mod := l.Run()

	if len(mod.Funcs) != 2 {
		t.Fatalf("expected 2 functions, got %d", len(mod.Funcs))
	}

	entry := mod.Funcs[0].Blocks[0]
	callInst, ok := entry.Insts[0].(*ir.InstCall)
	if !ok {
		t.Fatalf("expected a call instruction, got %T", entry.Insts[0])
	}

	if callInst.Callee != l.getFunction(1) {
		t.Fatalf("expected the call to target the declared `add` handle")
	}

	if l.getFunction(1) != mod.Funcs[1] {
		t.Fatalf("expected the declared handle to be the module's `add` function")
	}
}

func TestVarStorageAssignAndLoad(t *testing.T) {
	// fn five() -> Int { var x: Int; x = 5; return x }
	b := semir.NewBuilder()
	intType := semir.BuiltinIntegerType.NodeID()

	storage := b.AddNode(semir.Node{Kind: semir.KindVarStorage, Type: intType})
	lit := b.AddNode(semir.Node{Kind: semir.KindIntegerLiteral, Type: intType, Arg0: b.AddIntLiteral(5)})
	assign := b.AddNode(semir.Node{Kind: semir.KindAssign, Type: semir.NoNode, Arg0: int32(storage), Arg1: int32(lit)})
	ret := b.AddNode(semir.Node{Kind: semir.KindReturnExpression, Type: semir.NoNode, Arg0: int32(storage)})

	b.AddFunction(semir.Function{
		Name:       b.InternString("five"),
		ParamRefs:  b.AddBlock(nil),
		ReturnType: intType,
		Body:       b.AddBlock([]semir.NodeID{storage, lit, assign, ret}),
	})

	mod := NewContext("main", b.File(), nil).Run()
	entry := mod.Funcs[0].Blocks[0]

	// alloca, store, load
	if len(entry.Insts) != 3 {
		t.Fatalf("expected 3 instructions, got %d", len(entry.Insts))
	}

	alloca, ok := entry.Insts[0].(*ir.InstAlloca)
	if !ok {
		t.Fatalf("expected an alloca, got %T", entry.Insts[0])
	}

	store, ok := entry.Insts[1].(*ir.InstStore)
	if !ok {
		t.Fatalf("expected a store, got %T", entry.Insts[1])
	}

	if store.Dst != alloca {
		t.Fatalf("expected the store to target the alloca")
	}

	load, ok := entry.Insts[2].(*ir.InstLoad)
	if !ok {
		t.Fatalf("expected a load for the returned storage, got %T", entry.Insts[2])
	}

	if load.Src != alloca {
		t.Fatalf("expected the load to read from the alloca")
	}

	if entry.Term.(*ir.TermRet).X != load {
		t.Fatalf("expected the loaded value to be returned")
	}
}

func TestStructValueAndMemberAccess(t *testing.T) {
	// fn second() -> Int { return {1, 2}.1 }
	b := semir.NewBuilder()
	intType := semir.BuiltinIntegerType.NodeID()

	field1 := b.AddNode(semir.Node{Kind: semir.KindStructTypeField, Type: intType, Arg0: int32(b.InternString("x"))})
	field2 := b.AddNode(semir.Node{Kind: semir.KindStructTypeField, Type: intType, Arg0: int32(b.InternString("y"))})
	structType := b.AddNode(semir.Node{Kind: semir.KindStructType, Type: semir.NoNode, Arg0: int32(b.AddBlock([]semir.NodeID{field1, field2}))})
	b.AddType(structType)

	lit1 := b.AddNode(semir.Node{Kind: semir.KindIntegerLiteral, Type: intType, Arg0: b.AddIntLiteral(1)})
	lit2 := b.AddNode(semir.Node{Kind: semir.KindIntegerLiteral, Type: intType, Arg0: b.AddIntLiteral(2)})
	sv := b.AddNode(semir.Node{Kind: semir.KindStructValue, Type: structType, Arg0: int32(b.AddBlock([]semir.NodeID{lit1, lit2}))})
	access := b.AddNode(semir.Node{Kind: semir.KindStructMemberAccess, Type: intType, Arg0: int32(sv), Arg1: 1})
	ret := b.AddNode(semir.Node{Kind: semir.KindReturnExpression, Type: semir.NoNode, Arg0: int32(access)})

	b.AddFunction(semir.Function{
		Name:       b.InternString("second"),
		ParamRefs:  b.AddBlock(nil),
		ReturnType: intType,
		Body:       b.AddBlock([]semir.NodeID{lit1, lit2, sv, access, ret}),
	})

	l := NewContext("main", b.File(), nil)
	mod := l.Run()

	lowered, ok := l.getType(structType).(*types.StructType)
	if !ok {
		t.Fatalf("expected the struct type to lower to an aggregate")
	}

	if len(lowered.Fields) != 2 || !lowered.Fields[0].Equal(types.I32) || !lowered.Fields[1].Equal(types.I32) {
		t.Fatalf("expected an aggregate over two i32 members, got %v", lowered.Fields)
	}

	// alloca, gep+store per member, gep for the access, load
	entry := mod.Funcs[0].Blocks[0]
	if len(entry.Insts) != 7 {
		t.Fatalf("expected 7 instructions, got %d", len(entry.Insts))
	}

	if _, ok := entry.Insts[0].(*ir.InstAlloca); !ok {
		t.Fatalf("expected the struct value to be stack allocated, got %T", entry.Insts[0])
	}

	load, ok := entry.Insts[6].(*ir.InstLoad)
	if !ok {
		t.Fatalf("expected the member access to end in a load, got %T", entry.Insts[6])
	}

	if entry.Term.(*ir.TermRet).X != load {
		t.Fatalf("expected the loaded member to be returned")
	}
}

func TestStructTypeLowering(t *testing.T) {
	b := semir.NewBuilder()

	field1 := b.AddNode(semir.Node{
		Kind: semir.KindStructTypeField,
		Type: semir.BuiltinIntegerType.NodeID(),
		Arg0: int32(b.InternString("n")),
	})
	field2 := b.AddNode(semir.Node{
		Kind: semir.KindStructTypeField,
		Type: semir.BuiltinFloatingPointType.NodeID(),
		Arg0: int32(b.InternString("f")),
	})
	structType := b.AddNode(semir.Node{
		Kind: semir.KindStructType,
		Type: semir.NoNode,
		Arg0: int32(b.AddBlock([]semir.NodeID{field1, field2})),
	})
	b.AddType(structType)

	l := NewContext("main", b.File(), nil)
	l.Run()

	lowered := l.getType(structType).(*types.StructType)
	if len(lowered.Fields) != 2 {
		t.Fatalf("expected 2 members, got %d", len(lowered.Fields))
	}

	if !lowered.Fields[0].Equal(types.I32) || !lowered.Fields[1].Equal(types.Double) {
		t.Fatalf("expected members (i32, double), got %v", lowered.Fields)
	}
}

func TestNestedStructTypeRejected(t *testing.T) {
	b := semir.NewBuilder()

	innerField := b.AddNode(semir.Node{
		Kind: semir.KindStructTypeField,
		Type: semir.BuiltinIntegerType.NodeID(),
		Arg0: int32(b.InternString("n")),
	})
	inner := b.AddNode(semir.Node{
		Kind: semir.KindStructType,
		Type: semir.NoNode,
		Arg0: int32(b.AddBlock([]semir.NodeID{innerField})),
	})
	b.AddType(inner)

	outerField := b.AddNode(semir.Node{
		Kind: semir.KindStructTypeField,
		Type: inner,
		Arg0: int32(b.InternString("s")),
	})
	outer := b.AddNode(semir.Node{
		Kind: semir.KindStructType,
		Type: semir.NoNode,
		Arg0: int32(b.AddBlock([]semir.NodeID{outerField})),
	})
	b.AddType(outer)

	mustPanic(t, func() {
		NewContext("main", b.File(), nil).Run()
	})
}

func TestNonTypeNodeUsedAsType(t *testing.T) {
	b := semir.NewBuilder()
	lit := b.AddNode(semir.Node{
		Kind: semir.KindIntegerLiteral,
		Type: semir.BuiltinIntegerType.NodeID(),
		Arg0: b.AddIntLiteral(0),
	})
	b.AddType(lit)

	mustPanic(t, func() {
		NewContext("main", b.File(), nil).Run()
	})
}

func TestNoBodyFunction(t *testing.T) {
	b := semir.NewBuilder()
	b.AddFunction(semir.Function{
		Name:       b.InternString("external"),
		ParamRefs:  b.AddBlock(nil),
		ReturnType: semir.BuiltinIntegerType.NodeID(),
		Body:       semir.NoBlock,
	})

	l := NewContext("main", b.File(), nil)
	mod := l.Run()

	if l.getFunction(0) == nil {
		t.Fatalf("expected a populated function cache entry")
	}

	if len(mod.Funcs[0].Blocks) != 0 {
		t.Fatalf("expected no basic blocks for a declaration-only function")
	}

	if len(l.locals) != 0 {
		t.Fatalf("expected the local environment to be untouched")
	}
}

func TestEmptyEnvironmentInvariant(t *testing.T) {
	sem, _ := buildAddFile()
	l := NewContext("main", sem, nil)

	if len(l.locals) != 0 {
		t.Fatalf("expected an empty local environment before lowering")
	}

	l.Run()

	if len(l.locals) != 0 {
		t.Fatalf("expected an empty local environment after lowering")
	}
}

func TestDuplicateParameterRejected(t *testing.T) {
	b := semir.NewBuilder()
	intType := semir.BuiltinIntegerType.NodeID()

	// two parameters bound to the same storage node
	storage := b.AddNode(semir.Node{Kind: semir.KindVarStorage, Type: intType})
	paramA := b.AddNode(semir.Node{Kind: semir.KindBindName, Type: intType, Arg0: int32(b.InternString("a")), Arg1: int32(storage)})
	paramB := b.AddNode(semir.Node{Kind: semir.KindBindName, Type: intType, Arg0: int32(b.InternString("b")), Arg1: int32(storage)})

	ret := b.AddNode(semir.Node{Kind: semir.KindReturn, Type: semir.NoNode})
	b.AddFunction(semir.Function{
		Name:       b.InternString("dup"),
		ParamRefs:  b.AddBlock([]semir.NodeID{paramA, paramB}),
		ReturnType: semir.NoNode,
		Body:       b.AddBlock([]semir.NodeID{ret}),
	})

	mustPanic(t, func() {
		NewContext("main", b.File(), nil).Run()
	})
}

func TestRunTwicePanics(t *testing.T) {
	sem, _ := buildAddFile()
	l := NewContext("main", sem, nil)
	l.Run()

	mustPanic(t, func() {
		l.Run()
	})
}

func TestErrorfulIRRejected(t *testing.T) {
	b := semir.NewBuilder()
	b.MarkErrors()

	mustPanic(t, func() {
		NewContext("main", b.File(), nil)
	})
}

func TestFloatingPointAdd(t *testing.T) {
	b := semir.NewBuilder()
	floatType := semir.BuiltinFloatingPointType.NodeID()

	lit1 := b.AddNode(semir.Node{Kind: semir.KindRealLiteral, Type: floatType, Arg0: b.AddRealLiteral(1.5)})
	lit2 := b.AddNode(semir.Node{Kind: semir.KindRealLiteral, Type: floatType, Arg0: b.AddRealLiteral(2.5)})
	sum := b.AddNode(semir.Node{Kind: semir.KindBinaryOperatorAdd, Type: floatType, Arg0: int32(lit1), Arg1: int32(lit2)})
	ret := b.AddNode(semir.Node{Kind: semir.KindReturnExpression, Type: semir.NoNode, Arg0: int32(sum)})

	b.AddFunction(semir.Function{
		Name:       b.InternString("fsum"),
		ParamRefs:  b.AddBlock(nil),
		ReturnType: floatType,
		Body:       b.AddBlock([]semir.NodeID{lit1, lit2, sum, ret}),
	})

	mod := NewContext("main", b.File(), nil).Run()
	entry := mod.Funcs[0].Blocks[0]

	if _, ok := entry.Insts[0].(*ir.InstFAdd); !ok {
		t.Fatalf("expected an fadd for floating point operands, got %T", entry.Insts[0])
	}
}

func TestDispatchTotality(t *testing.T) {
	for kind := 0; kind < semir.NumNodeKinds; kind++ {
		if nodeHandlers[kind] == nil {
			t.Fatalf("no handler for node kind %s", semir.NodeKind(kind))
		}
	}
}

func TestTraceOutput(t *testing.T) {
	sem, _ := buildAddFile()

	var buf bytes.Buffer
	NewContext("main", sem, &buf).Run()

	if buf.Len() == 0 {
		t.Fatalf("expected trace output")
	}

	if !strings.Contains(buf.String(), "BinaryOperatorAdd") {
		t.Fatalf("expected the trace to describe the lowered nodes, got:\n%s", buf.String())
	}
}
