package lower

import (
	"fmt"

	"sable/semir"

	"github.com/llir/llvm/ir/types"
)

// buildType lowers one type reference to an LLVM type.  The caller (the type
// phase of Run) is responsible for caching: buildType is queried once per
// distinct id, in type-table order.
func (l *Context) buildType(id semir.NodeID) types.Type {
	// Built-ins are resolved from the id alone, without touching the node
	// table.
	if semir.IsBuiltinID(id) {
		switch bk := semir.BuiltinKind(id); bk {
		case semir.BuiltinEmptyTupleType:
			// Empty types lower to named empty structs rather than void so
			// that distinct empty built-ins stay distinguishable and so the
			// result can still type a value.
			// TODO: special-case empty tuples around function returns so
			// they can collapse to LLVM's void.
			return l.namedStruct(bk.Name())
		case semir.BuiltinIntegerType:
			// TODO: handle different sizes.
			return types.I32
		case semir.BuiltinFloatingPointType:
			// TODO: handle different sizes.
			return types.Double
		case semir.BuiltinBoolType:
			return types.I1
		}
	}

	node := l.sem.Node(id)
	switch node.Kind {
	case semir.KindStructType:
		refs := l.sem.Block(node.AsStructType())
		fields := make([]types.Type, 0, len(refs))
		for _, refID := range refs {
			fieldType := l.sem.Node(refID).Type
			// Restricting members to built-in types prevents recursion while
			// still letting struct types cache.
			// TODO: handle struct members with aggregate types.
			if !semir.IsBuiltinID(fieldType) {
				fatalf("unsupported non-builtin member type %s in struct type %s", fieldType, id)
			}

			fields = append(fields, l.getType(fieldType))
		}

		return l.namedStruct(fmt.Sprintf("StructLiteralType%d", id), fields...)
	default:
		fatalf("cannot use %s as a type: %s", id, node)
		return nil
	}
}

// namedStruct creates a named structural aggregate type in the module.
func (l *Context) namedStruct(name string, fields ...types.Type) *types.StructType {
	st := types.NewStruct(fields...)
	l.mod.NewTypeDef(name, st)
	return st
}
