// Package lower translates a checked semantic IR into an LLVM module.  It
// runs three strictly ordered phases: all types, then all function
// declarations, then all function definitions.  The phase barrier is what
// makes forward references work: by the time any definition is lowered,
// every type and every function signature already exists.
package lower

import (
	"fmt"
	"io"

	"sable/semir"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
)

// Context drives one lowering run and owns the LLVM module under
// construction.  A context is single-use: Run consumes it and hands the
// finished module to the caller.
type Context struct {
	// sem is the semantic IR being lowered.
	sem *semir.File

	// mod is the LLVM module under construction.  It is set to nil when Run
	// completes, which is also the "already consumed" marker.
	mod *ir.Module

	// types is the type cache: lowered LLVM type per semantic node id.  It
	// is populated once by the type phase and never invalidated.
	types []types.Type

	// funcs is the function cache: declared LLVM function per semantic
	// function id.  Populated by the declaration phase, read by the
	// definition phase.
	funcs []*ir.Func

	// locals maps semantic storage nodes to their lowered values for the
	// function definition currently being lowered.  It is empty between
	// functions.
	locals locals

	// block is the current insertion point.  Handlers that introduce new
	// basic blocks must leave it pointing at the block subsequent
	// instructions should be appended to.
	block *ir.Block

	// trace, if non-nil, receives a line for each node as it is lowered.
	trace io.Writer
}

// NewContext creates a lowering context for the given semantic IR.  The IR
// must be error-free: lowering exists to translate valid programs, and
// handing it an errorful IR is a bug in the caller.  trace may be nil.
func NewContext(moduleName string, sem *semir.File, trace io.Writer) *Context {
	if sem.HasErrors() {
		fatalf("cannot lower a semantic IR that contains errors")
	}

	mod := ir.NewModule()
	mod.SourceFilename = moduleName

	return &Context{
		sem:    sem,
		mod:    mod,
		types:  make([]types.Type, sem.NumNodes()),
		funcs:  make([]*ir.Func, sem.NumFunctions()),
		locals: make(locals),
		trace:  trace,
	}
}

// Run lowers the whole semantic IR and returns the finished module,
// transferring ownership to the caller.  It may be called exactly once.
func (l *Context) Run() *ir.Module {
	if l.mod == nil {
		fatalf("Run can only be called once")
	}

	// Lower types.
	for _, typeID := range l.sem.Types() {
		l.types[typeID] = l.buildType(typeID)
	}

	// Lower function declarations.
	for i := 0; i < l.sem.NumFunctions(); i++ {
		l.funcs[i] = l.buildFuncDecl(semir.FunctionID(i))
	}

	// TODO: lower global variable declarations.

	// Lower function definitions.
	for i := 0; i < l.sem.NumFunctions(); i++ {
		l.buildFuncDef(semir.FunctionID(i))
	}

	// TODO: lower global variable initializers.

	mod := l.mod
	l.mod = nil
	return mod
}

// -----------------------------------------------------------------------------

// getType returns the cached lowered form of a type reference.  The type
// phase runs before anything consumes types, so a miss is an internal
// consistency failure, not a recoverable condition.
func (l *Context) getType(id semir.NodeID) types.Type {
	if !id.Valid() || int(id) >= len(l.types) || l.types[id] == nil {
		fatalf("no lowered type for %s", id)
	}

	return l.types[id]
}

// getFunction returns the cached declaration of a function.
func (l *Context) getFunction(id semir.FunctionID) *ir.Func {
	if fn := l.funcs[id]; fn != nil {
		return fn
	}

	fatalf("no declared function for function id %d", id)
	return nil
}

// tracef writes one line to the trace sink if one is attached.  The sink is
// purely observational: nothing reads it back.
func (l *Context) tracef(format string, args ...interface{}) {
	if l.trace != nil {
		fmt.Fprintf(l.trace, format+"\n", args...)
	}
}

// fatalf aborts lowering.  Every failure mode in this package is an
// internal consistency violation (a broken upstream precondition or a gap
// in this stage's coverage), so there is no recovery and no partial output;
// the panic carries the message to whatever driver boundary wants to report
// it before exiting.
func fatalf(format string, args ...interface{}) {
	panic("lower: " + fmt.Sprintf(format, args...))
}
