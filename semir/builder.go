package semir

// Builder incrementally constructs a File.  It is the write-side counterpart
// of File and is used by the checker and by tests; once File is called, the
// produced IR must not be extended further.
type Builder struct {
	file   *File
	strMap map[string]StringID
}

// NewBuilder creates a builder whose node table is seeded with the built-in
// nodes and whose type table is seeded with the built-in type ids.
func NewBuilder() *Builder {
	b := &Builder{
		file:   &File{},
		strMap: make(map[string]StringID),
	}

	for bk := 0; bk < NumBuiltins; bk++ {
		id := b.AddNode(Node{Kind: KindBuiltin, Type: NoNode, Arg0: int32(bk)})
		b.AddType(id)
	}

	return b
}

// InternString interns a string and returns its id.  Interning the same
// string twice yields the same id.
func (b *Builder) InternString(s string) StringID {
	if id, ok := b.strMap[s]; ok {
		return id
	}

	id := StringID(len(b.file.strings))
	b.file.strings = append(b.file.strings, s)
	b.strMap[s] = id
	return id
}

// AddNode appends a node and returns its id.
func (b *Builder) AddNode(n Node) NodeID {
	id := NodeID(len(b.file.nodes))
	b.file.nodes = append(b.file.nodes, n)
	return id
}

// AddBlock appends a node block and returns its id.
func (b *Builder) AddBlock(nodes []NodeID) BlockID {
	id := BlockID(len(b.file.blocks))
	b.file.blocks = append(b.file.blocks, nodes)
	return id
}

// AddFunction appends a function descriptor and returns its id.
func (b *Builder) AddFunction(fn Function) FunctionID {
	id := FunctionID(len(b.file.functions))
	b.file.functions = append(b.file.functions, fn)
	return id
}

// AddType registers a node id in the type table.  Types are lowered in
// registration order, so a type must be registered before any node that
// references it is lowered.
func (b *Builder) AddType(id NodeID) {
	b.file.typeTable = append(b.file.typeTable, id)
}

// AddIntLiteral appends an integer literal and returns its table index.
func (b *Builder) AddIntLiteral(v int64) int32 {
	idx := int32(len(b.file.ints))
	b.file.ints = append(b.file.ints, v)
	return idx
}

// AddRealLiteral appends a real literal and returns its table index.
func (b *Builder) AddRealLiteral(v float64) int32 {
	idx := int32(len(b.file.reals))
	b.file.reals = append(b.file.reals, v)
	return idx
}

// MarkErrors flags the file as containing checker errors.
func (b *Builder) MarkErrors() {
	b.file.hasErrors = true
}

// File finalizes and returns the built file.
func (b *Builder) File() *File {
	return b.file
}
