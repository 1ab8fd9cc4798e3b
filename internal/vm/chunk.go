package vm

import (
	"github.com/ruvylang/ruvy/internal/ast"
	"github.com/ruvylang/ruvy/internal/evaluator"
)

// HybridRef is one entry of the node pool backing the hybrid
// For/MethodCall/Match instructions. Locals snapshots the frame slot
// names live at the instruction, so the VM can materialize them into an
// environment for the evaluator and write mutations back.
type HybridRef struct {
	Node   ast.Node
	Locals []string
}

// Chunk is a compiled unit: bytecode, its constant pool, a node pool for
// the hybrid instructions and per-byte source positions for errors.
type Chunk struct {
	Code      []byte
	Constants []evaluator.Object

	// Nodes backs the hybrid For/MethodCall/Match instructions, which
	// delegate whole subtrees to the evaluator.
	Nodes []HybridRef

	Lines   []int
	Columns []int

	File string
}

func NewChunk() *Chunk {
	return &Chunk{
		Code:      make([]byte, 0, 256),
		Constants: make([]evaluator.Object, 0, 64),
		Lines:     make([]int, 0, 256),
		Columns:   make([]int, 0, 256),
	}
}

func (c *Chunk) Write(b byte, line, col int) {
	c.Code = append(c.Code, b)
	c.Lines = append(c.Lines, line)
	c.Columns = append(c.Columns, col)
}

func (c *Chunk) WriteOp(op Opcode, line, col int) {
	c.Write(byte(op), line, col)
}

// WriteU16 writes a big-endian 16-bit operand.
func (c *Chunk) WriteU16(v int, line, col int) {
	c.Write(byte(v>>8), line, col)
	c.Write(byte(v), line, col)
}

// ReadU16 reads a big-endian 16-bit operand at offset.
func (c *Chunk) ReadU16(offset int) int {
	return int(c.Code[offset])<<8 | int(c.Code[offset+1])
}

// PatchU16 overwrites a previously written 16-bit operand, used to
// backfill forward jump targets.
func (c *Chunk) PatchU16(offset, v int) {
	c.Code[offset] = byte(v >> 8)
	c.Code[offset+1] = byte(v)
}

// AddConstant appends to the constant pool and returns the index.
func (c *Chunk) AddConstant(value evaluator.Object) int {
	c.Constants = append(c.Constants, value)
	return len(c.Constants) - 1
}

// AddNode appends to the hybrid node pool and returns the index.
func (c *Chunk) AddNode(node ast.Node, locals []string) int {
	c.Nodes = append(c.Nodes, HybridRef{Node: node, Locals: locals})
	return len(c.Nodes) - 1
}

func (c *Chunk) Len() int {
	return len(c.Code)
}
