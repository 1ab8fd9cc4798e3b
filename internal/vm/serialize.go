package vm

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/ruvylang/ruvy/internal/ast"
	"github.com/ruvylang/ruvy/internal/evaluator"
)

// Chunk constants and hybrid nodes travel through interface fields, so
// every concrete type that can appear there must be known to gob.
func init() {
	gob.Register(&evaluator.Integer{})
	gob.Register(&evaluator.Float{})
	gob.Register(&evaluator.Str{})
	gob.Register(&evaluator.Char{})
	gob.Register(&evaluator.Boolean{})
	gob.Register(&evaluator.Nil{})
	gob.Register(&evaluator.Unit{})
	gob.Register(&FunctionProto{})

	gob.Register(&ast.Program{})
	gob.Register(&ast.Identifier{})
	gob.Register(&ast.BlockStatement{})
	gob.Register(&ast.ExpressionStatement{})
	gob.Register(&ast.IntegerLiteral{})
	gob.Register(&ast.FloatLiteral{})
	gob.Register(&ast.StringLiteral{})
	gob.Register(&ast.InterpolatedString{})
	gob.Register(&ast.CharLiteral{})
	gob.Register(&ast.BooleanLiteral{})
	gob.Register(&ast.NilLiteral{})
	gob.Register(&ast.UnitLiteral{})
	gob.Register(&ast.ListLiteral{})
	gob.Register(&ast.TupleLiteral{})
	gob.Register(&ast.RecordLiteral{})
	gob.Register(&ast.StructLiteral{})
	gob.Register(&ast.PrefixExpression{})
	gob.Register(&ast.InfixExpression{})
	gob.Register(&ast.IfExpression{})
	gob.Register(&ast.BlockExpression{})
	gob.Register(&ast.WhileExpression{})
	gob.Register(&ast.ForExpression{})
	gob.Register(&ast.LoopExpression{})
	gob.Register(&ast.MatchExpression{})
	gob.Register(&ast.TryExpression{})
	gob.Register(&ast.CallExpression{})
	gob.Register(&ast.MethodCallExpression{})
	gob.Register(&ast.FieldAccessExpression{})
	gob.Register(&ast.IndexExpression{})
	gob.Register(&ast.SliceExpression{})
	gob.Register(&ast.RangeExpression{})
	gob.Register(&ast.LambdaExpression{})
	gob.Register(&ast.SpawnExpression{})
	gob.Register(&ast.SendExpression{})
	gob.Register(&ast.AskExpression{})
	gob.Register(&ast.AwaitExpression{})
	gob.Register(&ast.AsyncExpression{})
	gob.Register(&ast.PathExpression{})
	gob.Register(&ast.WildcardPattern{})
	gob.Register(&ast.LiteralPattern{})
	gob.Register(&ast.IdentifierPattern{})
	gob.Register(&ast.TuplePattern{})
	gob.Register(&ast.ListPattern{})
	gob.Register(&ast.StructPattern{})
	gob.Register(&ast.EnumPattern{})
	gob.Register(&ast.RangePattern{})
	gob.Register(&ast.OrPattern{})
	gob.Register(&ast.LetStatement{})
	gob.Register(&ast.LetPatternStatement{})
	gob.Register(&ast.ConstStatement{})
	gob.Register(&ast.AssignStatement{})
	gob.Register(&ast.CompoundAssignStatement{})
	gob.Register(&ast.IncDecStatement{})
	gob.Register(&ast.FunctionStatement{})
	gob.Register(&ast.ReturnStatement{})
	gob.Register(&ast.BreakStatement{})
	gob.Register(&ast.ContinueStatement{})
	gob.Register(&ast.ThrowStatement{})
	gob.Register(&ast.ModuleStatement{})
	gob.Register(&ast.ImportStatement{})
	gob.Register(&ast.ExportStatement{})
	gob.Register(&ast.StructStatement{})
	gob.Register(&ast.EnumStatement{})
	gob.Register(&ast.TraitStatement{})
	gob.Register(&ast.ImplStatement{})
	gob.Register(&ast.ActorStatement{})
}

// Bytecode file format: 4-byte magic, 1-byte version, gob-encoded Chunk.
var bytecodeMagic = [4]byte{'R', 'V', 'B', 'C'}

const bytecodeVersion byte = 0x01

// Serialize converts a compiled chunk to its binary file format.
func (c *Chunk) Serialize() ([]byte, error) {
	buf := new(bytes.Buffer)
	buf.Write(bytecodeMagic[:])
	buf.WriteByte(bytecodeVersion)
	if err := gob.NewEncoder(buf).Encode(c); err != nil {
		return nil, fmt.Errorf("chunk encoding failed: %w", err)
	}
	return buf.Bytes(), nil
}

// Deserialize reads a serialized chunk back. Singleton constants are
// re-interned so identity checks against TRUE/FALSE/NIL/UNIT hold.
func Deserialize(data []byte) (*Chunk, error) {
	if len(data) < 5 {
		return nil, fmt.Errorf("bytecode data too short")
	}
	if !bytes.Equal(data[:4], bytecodeMagic[:]) {
		return nil, fmt.Errorf("invalid magic number, expected RVBC")
	}
	if data[4] != bytecodeVersion {
		return nil, fmt.Errorf("unsupported bytecode version: %d", data[4])
	}

	var chunk Chunk
	if err := gob.NewDecoder(bytes.NewReader(data[5:])).Decode(&chunk); err != nil {
		return nil, fmt.Errorf("chunk decoding failed: %w", err)
	}
	internSingletons(&chunk)
	return &chunk, nil
}

func internSingletons(c *Chunk) {
	for i, obj := range c.Constants {
		switch v := obj.(type) {
		case *evaluator.Boolean:
			if v.Value {
				c.Constants[i] = evaluator.TRUE
			} else {
				c.Constants[i] = evaluator.FALSE
			}
		case *evaluator.Nil:
			c.Constants[i] = evaluator.NIL
		case *evaluator.Unit:
			c.Constants[i] = evaluator.UNIT
		case *FunctionProto:
			internSingletons(v.Chunk)
		}
	}
}
