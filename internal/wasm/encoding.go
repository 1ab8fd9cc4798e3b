package wasm

import (
	"encoding/binary"
	"math"
)

// Value types.
const (
	typeI32 byte = 0x7F
	typeI64 byte = 0x7E
	typeF32 byte = 0x7D
	typeF64 byte = 0x7C

	// typeVoid is internal shorthand for "no result"; it never appears in
	// the binary.
	typeVoid byte = 0

	blockVoid byte = 0x40
)

// Section IDs, in the order the binary format requires.
const (
	sectionType     byte = 1
	sectionImport   byte = 2
	sectionFunction byte = 3
	sectionTable    byte = 4
	sectionMemory   byte = 5
	sectionGlobal   byte = 6
	sectionExport   byte = 7
	sectionStart    byte = 8
	sectionElement  byte = 9
	sectionCode     byte = 10
	sectionData     byte = 11
)

// Instruction opcodes used by the lowering.
const (
	opBlock    byte = 0x02
	opLoop     byte = 0x03
	opIf       byte = 0x04
	opElse     byte = 0x05
	opEnd      byte = 0x0B
	opBr       byte = 0x0C
	opBrIf     byte = 0x0D
	opReturn   byte = 0x0F
	opCall     byte = 0x10
	opDrop     byte = 0x1A
	opLocalGet byte = 0x20
	opLocalSet byte = 0x21
	opI32Load  byte = 0x28
	opI32Store byte = 0x36
	opI32Const byte = 0x41
	opF64Const byte = 0x44

	opI32Eqz byte = 0x45
	opI32Eq  byte = 0x46
	opI32Ne  byte = 0x47
	opI32LtS byte = 0x48
	opI32GtS byte = 0x4A
	opI32LeS byte = 0x4C
	opI32GeS byte = 0x4E

	opF64Eq byte = 0x61
	opF64Ne byte = 0x62
	opF64Lt byte = 0x63
	opF64Gt byte = 0x64
	opF64Le byte = 0x65
	opF64Ge byte = 0x66

	opI32Add  byte = 0x6A
	opI32Sub  byte = 0x6B
	opI32Mul  byte = 0x6C
	opI32DivS byte = 0x6D
	opI32RemS byte = 0x6F
	opI32And  byte = 0x71
	opI32Or   byte = 0x72

	opF64Neg byte = 0x9A
	opF64Add byte = 0xA0
	opF64Sub byte = 0xA1
	opF64Mul byte = 0xA2
	opF64Div byte = 0xA3
)

var header = []byte{0x00, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00}

// appendU32 appends an unsigned LEB128 value.
func appendU32(buf []byte, v uint32) []byte {
	for {
		b := byte(v & 0x7F)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		buf = append(buf, b)
		if v == 0 {
			return buf
		}
	}
}

// appendS64 appends a signed LEB128 value.
func appendS64(buf []byte, v int64) []byte {
	for {
		b := byte(v & 0x7F)
		v >>= 7
		if (v == 0 && b&0x40 == 0) || (v == -1 && b&0x40 != 0) {
			return append(buf, b)
		}
		buf = append(buf, b|0x80)
	}
}

// appendF64 appends the 8-byte little-endian IEEE 754 payload of an
// f64.const.
func appendF64(buf []byte, v float64) []byte {
	var raw [8]byte
	binary.LittleEndian.PutUint64(raw[:], math.Float64bits(v))
	return append(buf, raw[:]...)
}

// readU32 decodes an unsigned LEB128 value, returning it and the number of
// bytes consumed; n is 0 on malformed input.
func readU32(buf []byte) (v uint32, n int) {
	var shift uint
	for i := 0; i < len(buf) && i < 5; i++ {
		b := buf[i]
		v |= uint32(b&0x7F) << shift
		if b&0x80 == 0 {
			return v, i + 1
		}
		shift += 7
	}
	return 0, 0
}

// section wraps a payload with its ID and size prefix.
func section(id byte, payload []byte) []byte {
	out := []byte{id}
	out = appendU32(out, uint32(len(payload)))
	return append(out, payload...)
}
