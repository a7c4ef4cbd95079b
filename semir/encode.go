package semir

import (
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// Current schema version - increment when filePayload format changes.
const sirSchemaVersion uint16 = 1

// filePayload is the serialized form of a File.  The front end writes it to
// a `.sir` file; the lowering tool reads it back.
type filePayload struct {
	// Schema version for safe invalidation when the format changes.
	Schema uint16

	Strings   []string
	Nodes     []Node
	Blocks    [][]NodeID
	Functions []Function
	TypeTable []NodeID
	Ints      []int64
	Reals     []float64
	HasErrors bool
}

// Encode serializes the file to w.
func (f *File) Encode(w io.Writer) error {
	payload := filePayload{
		Schema:    sirSchemaVersion,
		Strings:   f.strings,
		Nodes:     f.nodes,
		Blocks:    f.blocks,
		Functions: f.functions,
		TypeTable: f.typeTable,
		Ints:      f.ints,
		Reals:     f.reals,
		HasErrors: f.hasErrors,
	}

	return msgpack.NewEncoder(w).Encode(&payload)
}

// Decode deserializes a file from r.
func Decode(r io.Reader) (*File, error) {
	var payload filePayload
	if err := msgpack.NewDecoder(r).Decode(&payload); err != nil {
		return nil, fmt.Errorf("malformed semantic IR: %w", err)
	}

	if payload.Schema != sirSchemaVersion {
		return nil, fmt.Errorf("unsupported semantic IR schema version: %d", payload.Schema)
	}

	return &File{
		strings:   payload.Strings,
		nodes:     payload.Nodes,
		blocks:    payload.Blocks,
		functions: payload.Functions,
		typeTable: payload.TypeTable,
		ints:      payload.Ints,
		reals:     payload.Reals,
		hasErrors: payload.HasErrors,
	}, nil
}
