package wasm

import (
	"bytes"
	"fmt"
)

// Validate structurally checks a WebAssembly binary: header, section
// ordering and sizing, type shapes, index bounds and code body framing.
// It is not an instruction verifier; it backs the emitter's validity
// tests and catches framing mistakes early.
func Validate(module []byte) error {
	if len(module) < len(header) || !bytes.Equal(module[:len(header)], header) {
		return fmt.Errorf("wasm: bad header")
	}

	v := &validator{}
	rest := module[len(header):]
	lastID := byte(0)
	for len(rest) > 0 {
		id := rest[0]
		size, n := readU32(rest[1:])
		if n == 0 {
			return fmt.Errorf("wasm: malformed size for section %d", id)
		}
		body := rest[1+n:]
		if uint32(len(body)) < size {
			return fmt.Errorf("wasm: section %d overruns the module", id)
		}
		body = body[:size]
		rest = rest[1+n+int(size):]

		if id == 0 { // custom sections may appear anywhere
			continue
		}
		if id > sectionData {
			return fmt.Errorf("wasm: unknown section id %d", id)
		}
		if id <= lastID {
			return fmt.Errorf("wasm: section %d out of order", id)
		}
		lastID = id

		if err := v.section(id, body); err != nil {
			return err
		}
	}

	if v.funcCount != v.codeCount {
		return fmt.Errorf("wasm: %d functions but %d code bodies", v.funcCount, v.codeCount)
	}
	return nil
}

type validator struct {
	typeCount int
	funcCount int
	codeCount int
	hasMemory bool
}

func (v *validator) section(id byte, body []byte) error {
	switch id {
	case sectionType:
		return v.typeSection(body)
	case sectionFunction:
		return v.functionSection(body)
	case sectionMemory:
		return v.memorySection(body)
	case sectionExport:
		return v.exportSection(body)
	case sectionCode:
		return v.codeSection(body)
	}
	return nil
}

func validValType(b byte) bool {
	switch b {
	case typeI32, typeI64, typeF32, typeF64:
		return true
	}
	return false
}

func (v *validator) typeSection(body []byte) error {
	count, body, err := vec(body)
	if err != nil {
		return fmt.Errorf("wasm: type section: %w", err)
	}
	for i := 0; i < count; i++ {
		if len(body) == 0 || body[0] != 0x60 {
			return fmt.Errorf("wasm: type %d is not a function type", i)
		}
		body = body[1:]
		for _, role := range []string{"params", "results"} {
			n, restVec, err := vec(body)
			if err != nil {
				return fmt.Errorf("wasm: type %d %s: %w", i, role, err)
			}
			body = restVec
			for j := 0; j < n; j++ {
				if len(body) == 0 || !validValType(body[0]) {
					return fmt.Errorf("wasm: type %d has an invalid value type", i)
				}
				body = body[1:]
			}
		}
	}
	v.typeCount = count
	return nil
}

func (v *validator) functionSection(body []byte) error {
	count, body, err := vec(body)
	if err != nil {
		return fmt.Errorf("wasm: function section: %w", err)
	}
	for i := 0; i < count; i++ {
		idx, n := readU32(body)
		if n == 0 {
			return fmt.Errorf("wasm: function %d has a malformed type index", i)
		}
		if int(idx) >= v.typeCount {
			return fmt.Errorf("wasm: function %d references type %d of %d", i, idx, v.typeCount)
		}
		body = body[n:]
	}
	v.funcCount = count
	return nil
}

func (v *validator) memorySection(body []byte) error {
	count, body, err := vec(body)
	if err != nil {
		return fmt.Errorf("wasm: memory section: %w", err)
	}
	if count > 1 {
		return fmt.Errorf("wasm: at most one memory, got %d", count)
	}
	if count == 1 {
		if len(body) == 0 || body[0] > 1 {
			return fmt.Errorf("wasm: malformed memory limits")
		}
		hasMax := body[0] == 1
		body = body[1:]
		min, n := readU32(body)
		if n == 0 {
			return fmt.Errorf("wasm: malformed memory minimum")
		}
		body = body[n:]
		if hasMax {
			max, n := readU32(body)
			if n == 0 {
				return fmt.Errorf("wasm: malformed memory maximum")
			}
			if max < min {
				return fmt.Errorf("wasm: memory maximum %d below minimum %d", max, min)
			}
		}
		v.hasMemory = true
	}
	return nil
}

func (v *validator) exportSection(body []byte) error {
	count, body, err := vec(body)
	if err != nil {
		return fmt.Errorf("wasm: export section: %w", err)
	}
	for i := 0; i < count; i++ {
		nameLen, n := readU32(body)
		if n == 0 || len(body) < n+int(nameLen)+1 {
			return fmt.Errorf("wasm: export %d has a malformed name", i)
		}
		body = body[n+int(nameLen):]
		kind := body[0]
		body = body[1:]
		idx, n := readU32(body)
		if n == 0 {
			return fmt.Errorf("wasm: export %d has a malformed index", i)
		}
		body = body[n:]
		switch kind {
		case 0x00:
			if int(idx) >= v.funcCount {
				return fmt.Errorf("wasm: export %d references function %d of %d", i, idx, v.funcCount)
			}
		case 0x02:
			if !v.hasMemory {
				return fmt.Errorf("wasm: export %d references a missing memory", i)
			}
		}
	}
	return nil
}

func (v *validator) codeSection(body []byte) error {
	count, body, err := vec(body)
	if err != nil {
		return fmt.Errorf("wasm: code section: %w", err)
	}
	for i := 0; i < count; i++ {
		size, n := readU32(body)
		if n == 0 || len(body) < n+int(size) {
			return fmt.Errorf("wasm: code body %d overruns the section", i)
		}
		fn := body[n : n+int(size)]
		body = body[n+int(size):]

		runs, fn, err := vec(fn)
		if err != nil {
			return fmt.Errorf("wasm: code body %d locals: %w", i, err)
		}
		for j := 0; j < runs; j++ {
			_, n := readU32(fn)
			if n == 0 || len(fn) < n+1 {
				return fmt.Errorf("wasm: code body %d has a malformed locals run", i)
			}
			if !validValType(fn[n]) {
				return fmt.Errorf("wasm: code body %d declares an invalid local type", i)
			}
			fn = fn[n+1:]
		}
		if len(fn) == 0 || fn[len(fn)-1] != opEnd {
			return fmt.Errorf("wasm: code body %d does not end with end", i)
		}
	}
	v.codeCount = count
	return nil
}

// vec reads a vector length prefix.
func vec(body []byte) (int, []byte, error) {
	count, n := readU32(body)
	if n == 0 {
		return 0, nil, fmt.Errorf("malformed vector length")
	}
	return int(count), body[n:], nil
}
