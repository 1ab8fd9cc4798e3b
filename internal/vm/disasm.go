package vm

import (
	"fmt"
	"strings"
)

// Disassemble renders a chunk as one instruction per line, for debugging
// and for the REPL's bytecode view.
func Disassemble(chunk *Chunk, name string) string {
	var out strings.Builder
	fmt.Fprintf(&out, "== %s ==\n", name)
	for offset := 0; offset < len(chunk.Code); {
		offset = disassembleInstruction(&out, chunk, offset)
	}
	for _, c := range chunk.Constants {
		if proto, ok := c.(*FunctionProto); ok {
			out.WriteString(Disassemble(proto.Chunk, proto.Inspect()))
		}
	}
	return out.String()
}

func disassembleInstruction(out *strings.Builder, chunk *Chunk, offset int) int {
	fmt.Fprintf(out, "%04d ", offset)
	if offset < len(chunk.Lines) {
		fmt.Fprintf(out, "%4d ", chunk.Lines[offset])
	}

	op, ok := FromByte(chunk.Code[offset])
	if !ok {
		fmt.Fprintf(out, "??? 0x%02x\n", chunk.Code[offset])
		return offset + 1
	}
	fmt.Fprintf(out, "%-14s", op.String())

	pos := offset + 1
	for _, width := range OperandWidths(op) {
		var v int
		if width == 2 {
			v = chunk.ReadU16(pos)
		} else {
			v = int(chunk.Code[pos])
		}
		fmt.Fprintf(out, " %d", v)
		pos += width
	}

	switch op {
	case OP_CONST, OP_LOAD_GLOBAL, OP_STORE_GLOBAL, OP_LOAD_FIELD, OP_STORE_FIELD:
		idx := chunk.ReadU16(offset + 1)
		fmt.Fprintf(out, " (%s)", chunk.Constants[idx].Inspect())
	case OP_NEW_CLOSURE:
		idx := chunk.ReadU16(offset + 1)
		count := int(chunk.Code[offset+3])
		fmt.Fprintf(out, " (%s)", chunk.Constants[idx].Inspect())
		for i := 0; i < count; i++ {
			b := chunk.Code[pos+i]
			if b&0x80 != 0 {
				fmt.Fprintf(out, " up:%d", b&0x7F)
			} else {
				fmt.Fprintf(out, " local:%d", b)
			}
		}
		pos += count
	case OP_FOR, OP_METHOD_CALL, OP_MATCH:
		idx := chunk.ReadU16(offset + 1)
		fmt.Fprintf(out, " (%T)", chunk.Nodes[idx].Node)
	}

	out.WriteByte('\n')
	return pos
}
