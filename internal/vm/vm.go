package vm

import (
	"github.com/ruvylang/ruvy/internal/evaluator"
	"github.com/ruvylang/ruvy/internal/token"
)

type frame struct {
	closure *Closure
	ip      int
	base    int
}

type tryHandler struct {
	frameIdx int
	target   int
	sp       int
}

// VM executes chunks on an operand stack with per-frame locals. It shares
// an Evaluator with the tree-walk backend: builtins, operator semantics
// and the hybrid instructions all route through it, so both backends
// observe the same values and the same globals.
type VM struct {
	eval   *evaluator.Evaluator
	stack  []evaluator.Object
	frames []frame
	tries  []tryHandler
}

func New(e *evaluator.Evaluator) *VM {
	return &VM{eval: e}
}

func NewVM() *VM {
	return New(evaluator.New())
}

// Evaluator exposes the shared evaluator, mainly so callers can inspect
// globals after a run.
func (vm *VM) Evaluator() *evaluator.Evaluator { return vm.eval }

// Run executes a compiled chunk and returns the program result, which is
// an *evaluator.Error on failure.
func (vm *VM) Run(chunk *Chunk) evaluator.Object {
	root := &Closure{Proto: &FunctionProto{Name: "<script>", Chunk: chunk}}
	vm.stack = vm.stack[:0]
	vm.frames = append(vm.frames[:0], frame{closure: root})
	vm.tries = vm.tries[:0]
	return vm.run()
}

func (vm *VM) run() evaluator.Object {
	for {
		f := &vm.frames[len(vm.frames)-1]
		chunk := f.closure.Proto.Chunk
		if f.ip >= len(chunk.Code) {
			return vm.runtimeError(token.Token{}, "chunk ended without Return")
		}
		opIP := f.ip
		op, ok := FromByte(chunk.Code[f.ip])
		if !ok {
			return vm.runtimeError(vm.tokenAt(chunk, opIP), "no such opcode 0x%02x", chunk.Code[f.ip])
		}
		f.ip++
		tok := vm.tokenAt(chunk, opIP)

		switch op {
		case OP_NOP:

		case OP_CONST:
			vm.push(chunk.Constants[vm.readU16(f)])

		case OP_LOAD_LOCAL:
			vm.push(vm.stack[f.base+int(vm.readU8(f))])

		case OP_STORE_LOCAL:
			slot := f.base + int(vm.readU8(f))
			vm.stack[slot] = vm.pop()

		case OP_LOAD_GLOBAL:
			name := vm.constName(chunk, vm.readU16(f))
			if val, ok := vm.eval.GlobalEnv.Get(name); ok {
				vm.push(val)
				break
			}
			if b, ok := evaluator.Builtins()[name]; ok {
				vm.push(b)
				break
			}
			if done, result := vm.raise(errorObject(evaluator.UnboundVariable, tok,
				"undefined variable '%s'", name)); done {
				return result
			}

		case OP_STORE_GLOBAL:
			name := vm.constName(chunk, vm.readU16(f))
			val := vm.pop()
			if _, exists := vm.eval.GlobalEnv.Get(name); exists {
				if vm.eval.GlobalEnv.Assign(name, val) == evaluator.AssignImmutable {
					if done, result := vm.raise(errorObject(evaluator.AssignToImmutable, tok,
						"cannot assign to immutable binding '%s'", name)); done {
						return result
					}
				}
				break
			}
			vm.eval.GlobalEnv.Define(name, val, true)

		case OP_LOAD_FIELD:
			name := vm.constName(chunk, vm.readU16(f))
			recv := vm.pop()
			if done, result := vm.pushChecked(vm.eval.FieldGet(recv, name, tok)); done {
				return result
			}

		case OP_STORE_FIELD:
			name := vm.constName(chunk, vm.readU16(f))
			val := vm.pop()
			recv := vm.pop()
			if res := vm.eval.FieldSet(recv, name, val, tok); isError(res) {
				if done, result := vm.raise(res.(*evaluator.Error)); done {
					return result
				}
			}

		case OP_LOAD_INDEX:
			idx := vm.pop()
			recv := vm.pop()
			if done, result := vm.pushChecked(vm.eval.IndexGet(recv, idx, tok)); done {
				return result
			}

		case OP_STORE_INDEX:
			val := vm.pop()
			idx := vm.pop()
			recv := vm.pop()
			if res := vm.eval.IndexSet(recv, idx, val, tok); isError(res) {
				if done, result := vm.raise(res.(*evaluator.Error)); done {
					return result
				}
			}

		case OP_LOAD_UPVALUE:
			vm.push(f.closure.Upvalues[vm.readU8(f)])

		case OP_STORE_UPVALUE:
			f.closure.Upvalues[vm.readU8(f)] = vm.pop()

		case OP_MOVE:
			src := int(vm.readU8(f))
			dst := int(vm.readU8(f))
			vm.stack[f.base+dst] = vm.stack[f.base+src]

		case OP_POP:
			vm.pop()

		case OP_DUP:
			vm.push(vm.peek(0))

		case OP_SWAP:
			n := len(vm.stack)
			vm.stack[n-1], vm.stack[n-2] = vm.stack[n-2], vm.stack[n-1]

		case OP_ADD, OP_SUB, OP_MUL, OP_DIV, OP_MOD,
			OP_BIT_AND, OP_BIT_OR, OP_BIT_XOR, OP_SHIFT_LEFT, OP_SHIFT_RIGHT,
			OP_GREATER, OP_GREATER_EQUAL, OP_LESS, OP_LESS_EQUAL:
			right := vm.pop()
			left := vm.pop()
			if done, result := vm.pushChecked(vm.eval.BinaryOp(binaryOpName[op], left, right, tok)); done {
				return result
			}

		case OP_NEG:
			if done, result := vm.pushChecked(vm.eval.PrefixOp("-", vm.pop(), tok)); done {
				return result
			}

		case OP_BIT_NOT:
			if done, result := vm.pushChecked(vm.eval.PrefixOp("~", vm.pop(), tok)); done {
				return result
			}

		case OP_NOT:
			if done, result := vm.pushChecked(vm.eval.PrefixOp("!", vm.pop(), tok)); done {
				return result
			}

		case OP_EQUAL:
			right := vm.pop()
			left := vm.pop()
			vm.push(boolObject(evaluator.Equal(left, right)))

		case OP_NOT_EQUAL:
			right := vm.pop()
			left := vm.pop()
			vm.push(boolObject(!evaluator.Equal(left, right)))

		case OP_AND, OP_OR:
			right := vm.pop()
			left := vm.pop()
			lv, lok := evaluator.Truthy(left)
			rv, rok := evaluator.Truthy(right)
			if !lok || !rok {
				if done, result := vm.raise(errorObject(evaluator.TypeError, tok,
					"logical operands must be booleans")); done {
					return result
				}
				break
			}
			if op == OP_AND {
				vm.push(boolObject(lv && rv))
			} else {
				vm.push(boolObject(lv || rv))
			}

		case OP_INSTANCE_OF:
			name := vm.pop()
			val := vm.pop()
			want, ok := name.(*evaluator.Str)
			if !ok {
				if done, result := vm.raise(errorObject(evaluator.TypeError, tok,
					"type name must be a string")); done {
					return result
				}
				break
			}
			got := evaluator.Builtins()["type_of"].Fn(vm.eval, val)
			vm.push(boolObject(evaluator.Equal(got, want)))

		case OP_GET_TYPE:
			vm.push(evaluator.Builtins()["type_of"].Fn(vm.eval, vm.pop()))

		case OP_INLINE_CACHE, OP_SPECIALIZE, OP_DEOPTIMIZE:
			vm.readU16(f) // reserved slot

		case OP_NEW_ARRAY:
			n := vm.readU16(f)
			elements := make([]evaluator.Object, n)
			copy(elements, vm.stack[len(vm.stack)-n:])
			vm.stack = vm.stack[:len(vm.stack)-n]
			vm.push(&evaluator.List{Elements: elements})

		case OP_NEW_TUPLE:
			n := vm.readU16(f)
			elements := make([]evaluator.Object, n)
			copy(elements, vm.stack[len(vm.stack)-n:])
			vm.stack = vm.stack[:len(vm.stack)-n]
			vm.push(&evaluator.Tuple{Elements: elements})

		case OP_NEW_OBJECT:
			n := vm.readU16(f)
			rec := evaluator.NewRecord("")
			pairs := vm.stack[len(vm.stack)-2*n:]
			for i := 0; i < n; i++ {
				key := pairs[2*i].(*evaluator.Str)
				rec.Set(key.Value, pairs[2*i+1])
			}
			vm.stack = vm.stack[:len(vm.stack)-2*n]
			vm.push(rec)

		case OP_NEW_CLOSURE:
			proto := chunk.Constants[vm.readU16(f)].(*FunctionProto)
			count := int(vm.readU8(f))
			upvalues := make([]evaluator.Object, count)
			for i := 0; i < count; i++ {
				b := vm.readU8(f)
				if b&0x80 != 0 {
					upvalues[i] = f.closure.Upvalues[b&0x7F]
				} else {
					upvalues[i] = vm.stack[f.base+int(b)]
				}
			}
			vm.push(&Closure{Proto: proto, Upvalues: upvalues})

		case OP_JUMP:
			f.ip = vm.readU16(f)

		case OP_JUMP_IF_TRUE, OP_JUMP_IF_FALSE:
			target := vm.readU16(f)
			cond, ok := evaluator.Truthy(vm.pop())
			if !ok {
				if done, result := vm.raise(errorObject(evaluator.TypeError, tok,
					"condition must be a boolean")); done {
					return result
				}
				break
			}
			if (op == OP_JUMP_IF_TRUE) == cond {
				f.ip = target
			}

		case OP_CALL:
			if done, result := vm.call(int(vm.readU8(f)), tok); done {
				return result
			}

		case OP_TAIL_CALL:
			if done, result := vm.tailCall(int(vm.readU8(f)), tok); done {
				return result
			}

		case OP_RETURN:
			result := vm.pop()
			if len(vm.frames) == 1 {
				return result
			}
			vm.stack = vm.stack[:f.base-1] // drop locals and the callee
			vm.frames = vm.frames[:len(vm.frames)-1]
			vm.push(result)

		case OP_THROW:
			if done, result := vm.raiseThrow(vm.pop(), tok); done {
				return result
			}

		case OP_ENTER_TRY:
			target := vm.readU16(f)
			vm.tries = append(vm.tries, tryHandler{
				frameIdx: len(vm.frames) - 1,
				target:   target,
				sp:       len(vm.stack),
			})

		case OP_EXIT_TRY:
			vm.tries = vm.tries[:len(vm.tries)-1]

		case OP_FOR, OP_METHOD_CALL, OP_MATCH:
			if done, result := vm.runHybrid(chunk.Nodes[vm.readU16(f)], f, tok); done {
				return result
			}
		}
	}
}

var binaryOpName = map[Opcode]string{
	OP_ADD:           "+",
	OP_SUB:           "-",
	OP_MUL:           "*",
	OP_DIV:           "/",
	OP_MOD:           "%",
	OP_BIT_AND:       "&",
	OP_BIT_OR:        "|",
	OP_BIT_XOR:       "^",
	OP_SHIFT_LEFT:    "<<",
	OP_SHIFT_RIGHT:   ">>",
	OP_GREATER:       ">",
	OP_GREATER_EQUAL: ">=",
	OP_LESS:          "<",
	OP_LESS_EQUAL:    "<=",
}

func (vm *VM) push(obj evaluator.Object) {
	vm.stack = append(vm.stack, obj)
}

func (vm *VM) pop() evaluator.Object {
	top := vm.stack[len(vm.stack)-1]
	vm.stack = vm.stack[:len(vm.stack)-1]
	return top
}

func (vm *VM) peek(depth int) evaluator.Object {
	return vm.stack[len(vm.stack)-1-depth]
}

func (vm *VM) readU8(f *frame) byte {
	b := f.closure.Proto.Chunk.Code[f.ip]
	f.ip++
	return b
}

func (vm *VM) readU16(f *frame) int {
	v := f.closure.Proto.Chunk.ReadU16(f.ip)
	f.ip += 2
	return v
}

func (vm *VM) constName(chunk *Chunk, idx int) string {
	return chunk.Constants[idx].(*evaluator.Str).Value
}

func (vm *VM) tokenAt(chunk *Chunk, offset int) token.Token {
	tok := token.Token{}
	if offset < len(chunk.Lines) {
		tok.Line = chunk.Lines[offset]
		tok.Column = chunk.Columns[offset]
	}
	return tok
}

// pushChecked pushes a result unless it is an error, which is raised.
func (vm *VM) pushChecked(result evaluator.Object) (bool, evaluator.Object) {
	if err, ok := result.(*evaluator.Error); ok {
		return vm.raise(err)
	}
	vm.push(result)
	return false, nil
}

func isError(obj evaluator.Object) bool {
	_, ok := obj.(*evaluator.Error)
	return ok
}

func boolObject(v bool) evaluator.Object {
	if v {
		return evaluator.TRUE
	}
	return evaluator.FALSE
}

func errorObject(kind evaluator.ErrorKind, tok token.Token, format string, args ...interface{}) *evaluator.Error {
	return evaluator.NewRuntimeError(kind, tok, format, args...)
}

func (vm *VM) runtimeError(tok token.Token, format string, args ...interface{}) evaluator.Object {
	return errorObject(evaluator.TypeError, tok, format, args...)
}
