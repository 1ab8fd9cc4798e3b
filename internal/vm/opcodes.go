// Package vm implements a bytecode virtual machine for Ruvy.
//
// Opcodes are 6-bit, encoded one per byte, in four families anchored at
// 0x00 (stack and locals), 0x10 (arithmetic and construction), 0x20
// (logical and speculation) and 0x30 (control). For, MethodCall and Match
// are hybrid instructions: their iteration, dispatch and binding shapes
// vary too much to fix in a single opcode profile, so they carry an AST
// node and delegate to the tree-walk evaluator.
package vm

// Opcode is a single VM instruction.
type Opcode byte

// Stack/Locals family (0x00-0x0F).
const (
	OP_NOP Opcode = 0x00 + iota
	OP_CONST
	OP_LOAD_LOCAL
	OP_STORE_LOCAL
	OP_LOAD_GLOBAL
	OP_STORE_GLOBAL
	OP_LOAD_FIELD
	OP_STORE_FIELD
	OP_LOAD_INDEX
	OP_STORE_INDEX
	OP_LOAD_UPVALUE
	OP_STORE_UPVALUE
	OP_MOVE
	OP_POP
	OP_DUP
	OP_SWAP
)

// Arithmetic & Construction family (0x10-0x1F).
const (
	OP_ADD Opcode = 0x10 + iota
	OP_SUB
	OP_MUL
	OP_DIV
	OP_MOD
	OP_NEG
	OP_BIT_AND
	OP_BIT_OR
	OP_BIT_XOR
	OP_BIT_NOT
	OP_SHIFT_LEFT
	OP_SHIFT_RIGHT
	OP_NEW_OBJECT
	OP_NEW_ARRAY
	OP_NEW_CLOSURE
	OP_GET_TYPE
)

// Logical & Speculation family (0x20-0x2D). InlineCache, Specialize and
// Deoptimize reserve encoding room for a tiered execution strategy; today
// they decode, carry their operand and do nothing.
const (
	OP_EQUAL Opcode = 0x20 + iota
	OP_NOT_EQUAL
	OP_GREATER
	OP_GREATER_EQUAL
	OP_LESS
	OP_LESS_EQUAL
	OP_NOT
	OP_AND
	OP_OR
	OP_INSTANCE_OF
	OP_INLINE_CACHE
	OP_SPECIALIZE
	OP_DEOPTIMIZE
	OP_NEW_TUPLE
)

// Control family (0x30-0x3B).
const (
	OP_JUMP Opcode = 0x30 + iota
	OP_JUMP_IF_TRUE
	OP_JUMP_IF_FALSE
	OP_CALL
	OP_TAIL_CALL
	OP_RETURN
	OP_THROW
	OP_ENTER_TRY
	OP_EXIT_TRY
	OP_FOR
	OP_METHOD_CALL
	OP_MATCH
)

var opcodeNames = map[Opcode]string{
	OP_NOP:           "Nop",
	OP_CONST:         "Const",
	OP_LOAD_LOCAL:    "LoadLocal",
	OP_STORE_LOCAL:   "StoreLocal",
	OP_LOAD_GLOBAL:   "LoadGlobal",
	OP_STORE_GLOBAL:  "StoreGlobal",
	OP_LOAD_FIELD:    "LoadField",
	OP_STORE_FIELD:   "StoreField",
	OP_LOAD_INDEX:    "LoadIndex",
	OP_STORE_INDEX:   "StoreIndex",
	OP_LOAD_UPVALUE:  "LoadUpvalue",
	OP_STORE_UPVALUE: "StoreUpvalue",
	OP_MOVE:          "Move",
	OP_POP:           "Pop",
	OP_DUP:           "Dup",
	OP_SWAP:          "Swap",

	OP_ADD:         "Add",
	OP_SUB:         "Sub",
	OP_MUL:         "Mul",
	OP_DIV:         "Div",
	OP_MOD:         "Mod",
	OP_NEG:         "Neg",
	OP_BIT_AND:     "BitAnd",
	OP_BIT_OR:      "BitOr",
	OP_BIT_XOR:     "BitXor",
	OP_BIT_NOT:     "BitNot",
	OP_SHIFT_LEFT:  "ShiftLeft",
	OP_SHIFT_RIGHT: "ShiftRight",
	OP_NEW_OBJECT:  "NewObject",
	OP_NEW_ARRAY:   "NewArray",
	OP_NEW_CLOSURE: "NewClosure",
	OP_GET_TYPE:    "GetType",

	OP_EQUAL:         "Equal",
	OP_NOT_EQUAL:     "NotEqual",
	OP_GREATER:       "Greater",
	OP_GREATER_EQUAL: "GreaterEqual",
	OP_LESS:          "Less",
	OP_LESS_EQUAL:    "LessEqual",
	OP_NOT:           "Not",
	OP_AND:           "And",
	OP_OR:            "Or",
	OP_INSTANCE_OF:   "InstanceOf",
	OP_INLINE_CACHE:  "InlineCache",
	OP_SPECIALIZE:    "Specialize",
	OP_DEOPTIMIZE:    "Deoptimize",
	OP_NEW_TUPLE:     "NewTuple",

	OP_JUMP:          "Jump",
	OP_JUMP_IF_TRUE:  "JumpIfTrue",
	OP_JUMP_IF_FALSE: "JumpIfFalse",
	OP_CALL:          "Call",
	OP_TAIL_CALL:     "TailCall",
	OP_RETURN:        "Return",
	OP_THROW:         "Throw",
	OP_ENTER_TRY:     "EnterTry",
	OP_EXIT_TRY:      "ExitTry",
	OP_FOR:           "For",
	OP_METHOD_CALL:   "MethodCall",
	OP_MATCH:         "Match",
}

func (op Opcode) String() string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return "Unknown"
}

// FromByte decodes a byte into an opcode. It is total: every byte either
// maps to a known opcode or reports no-such-opcode via ok=false.
func FromByte(b byte) (Opcode, bool) {
	op := Opcode(b)
	_, ok := opcodeNames[op]
	return op, ok
}

// operandWidths gives the byte widths of each operand an opcode carries.
// Constant-pool and jump operands are u16 big-endian; local slots, arities
// and upvalue indices are u8. NewClosure is the one variable-length
// instruction: its trailing u8 upvalue count is followed by that many u8
// slot indices.
var operandWidths = map[Opcode][]int{
	OP_CONST:         {2},
	OP_LOAD_LOCAL:    {1},
	OP_STORE_LOCAL:   {1},
	OP_LOAD_GLOBAL:   {2},
	OP_STORE_GLOBAL:  {2},
	OP_LOAD_FIELD:    {2},
	OP_STORE_FIELD:   {2},
	OP_LOAD_UPVALUE:  {1},
	OP_STORE_UPVALUE: {1},
	OP_MOVE:          {1, 1},

	OP_NEW_OBJECT:  {2},
	OP_NEW_ARRAY:   {2},
	OP_NEW_CLOSURE: {2, 1},

	OP_INLINE_CACHE: {2},
	OP_SPECIALIZE:   {2},
	OP_DEOPTIMIZE:   {2},
	OP_NEW_TUPLE:    {2},

	OP_JUMP:          {2},
	OP_JUMP_IF_TRUE:  {2},
	OP_JUMP_IF_FALSE: {2},
	OP_CALL:          {1},
	OP_TAIL_CALL:     {1},
	OP_ENTER_TRY:     {2},
	OP_FOR:           {2},
	OP_METHOD_CALL:   {2},
	OP_MATCH:         {2},
}

// OperandWidths returns the fixed operand layout of an opcode. For
// NewClosure the variable upvalue list is not included; callers must read
// the count operand to skip it.
func OperandWidths(op Opcode) []int {
	return operandWidths[op]
}

// InstructionSize returns the full encoded size of the instruction at
// offset, including the variable tail of NewClosure. This is what makes a
// bytecode stream self-delimiting.
func InstructionSize(code []byte, offset int) int {
	op := Opcode(code[offset])
	size := 1
	for _, w := range operandWidths[op] {
		size += w
	}
	if op == OP_NEW_CLOSURE {
		upvalues := int(code[offset+3])
		size += upvalues
	}
	return size
}
