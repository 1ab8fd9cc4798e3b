package vm

import (
	"testing"
)

func inFamily(b byte) bool {
	switch {
	case b <= 0x0F:
		return true
	case b >= 0x10 && b <= 0x1F:
		return true
	case b >= 0x20 && b <= 0x2D:
		return true
	case b >= 0x30 && b <= 0x3B:
		return true
	}
	return false
}

func TestFromByteIsTotal(t *testing.T) {
	for i := 0; i < 256; i++ {
		b := byte(i)
		op, ok := FromByte(b)
		if ok != inFamily(b) {
			t.Errorf("byte 0x%02x: decoded=%v, want %v", b, ok, inFamily(b))
		}
		if ok && op.String() == "Unknown" {
			t.Errorf("byte 0x%02x decodes but has no name", b)
		}
		if !ok && op.String() != "Unknown" {
			t.Errorf("byte 0x%02x must not name an opcode", b)
		}
	}
}

func TestFamilyAnchors(t *testing.T) {
	anchors := []struct {
		op   Opcode
		want byte
	}{
		{OP_NOP, 0x00},
		{OP_SWAP, 0x0F},
		{OP_ADD, 0x10},
		{OP_GET_TYPE, 0x1F},
		{OP_EQUAL, 0x20},
		{OP_NEW_TUPLE, 0x2D},
		{OP_JUMP, 0x30},
		{OP_MATCH, 0x3B},
	}
	for _, a := range anchors {
		if byte(a.op) != a.want {
			t.Errorf("%s = 0x%02x, want 0x%02x", a.op, byte(a.op), a.want)
		}
	}
}

func TestOpcodesFitSixBits(t *testing.T) {
	for op := range opcodeNames {
		if byte(op) > 0x3F {
			t.Errorf("%s = 0x%02x exceeds 6 bits", op, byte(op))
		}
	}
}

// Every compiled stream must be walkable instruction by instruction with
// no trailing or overlapping bytes.
func TestStreamIsSelfDelimiting(t *testing.T) {
	chunk := compileSource(t, `
		fun classify(n) {
			let doubled = n * 2
			if doubled > 10 {
				return classify(n - 1)
			}
			match doubled {
				0 => "zero",
				_ => "small",
			}
		}
		let mut acc = 0
		while acc < 3 {
			acc = acc + 1
		}
		try {
			throw [1, 2, classify(2)]
		} catch e {
			e
		}
	`)

	var walk func(c *Chunk)
	walk = func(c *Chunk) {
		offset := 0
		for offset < len(c.Code) {
			if _, ok := FromByte(c.Code[offset]); !ok {
				t.Fatalf("offset %d: not an opcode: 0x%02x", offset, c.Code[offset])
			}
			offset += InstructionSize(c.Code, offset)
		}
		if offset != len(c.Code) {
			t.Fatalf("walk overran the stream: %d != %d", offset, len(c.Code))
		}
		for _, konst := range c.Constants {
			if proto, ok := konst.(*FunctionProto); ok {
				walk(proto.Chunk)
			}
		}
	}
	walk(chunk)
}

func TestDisassembleCoversStream(t *testing.T) {
	chunk := compileSource(t, `
		let xs = [1, 2, 3]
		xs[0] + xs[2]
	`)
	out := Disassemble(chunk, "script")
	for _, want := range []string{"NewArray", "LoadIndex", "Add", "Return"} {
		if !containsLine(out, want) {
			t.Errorf("disassembly missing %s:\n%s", want, out)
		}
	}
}

func containsLine(out, mnemonic string) bool {
	return len(out) > 0 && (stringContains(out, mnemonic))
}

func stringContains(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}
