package evaluator

import (
	"fmt"
	"math"
	"strconv"
)

// Integer
type Integer struct {
	Value int64
}

func (i *Integer) Type() ObjectType { return INTEGER_OBJ }
func (i *Integer) Inspect() string  { return strconv.FormatInt(i.Value, 10) }
func (i *Integer) HashKey() uint32 {
	return uint32(i.Value ^ (i.Value >> 32))
}

// Float
type Float struct {
	Value float64
}

func (f *Float) Type() ObjectType { return FLOAT_OBJ }
func (f *Float) Inspect() string {
	s := strconv.FormatFloat(f.Value, 'g', -1, 64)
	// Keep whole floats visibly float.
	if !containsAny(s, ".eE") && !math.IsInf(f.Value, 0) && !math.IsNaN(f.Value) {
		s += ".0"
	}
	return s
}
func (f *Float) HashKey() uint32 {
	bits := math.Float64bits(f.Value)
	return uint32(bits ^ (bits >> 32))
}

func containsAny(s, chars string) bool {
	for _, c := range s {
		for _, m := range chars {
			if c == m {
				return true
			}
		}
	}
	return false
}

// Boolean
type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string  { return fmt.Sprintf("%t", b.Value) }
func (b *Boolean) HashKey() uint32 {
	if b.Value {
		return 1
	}
	return 0
}

// Char
type Char struct {
	Value rune
}

func (c *Char) Type() ObjectType { return CHAR_OBJ }
func (c *Char) Inspect() string  { return "'" + string(c.Value) + "'" }
func (c *Char) HashKey() uint32  { return uint32(c.Value) }

// Str is an immutable string value.
type Str struct {
	Value string
}

func (s *Str) Type() ObjectType { return STRING_OBJ }
func (s *Str) Inspect() string  { return s.Value }
func (s *Str) HashKey() uint32  { return hashString(s.Value) }

// Nil
type Nil struct{}

func (n *Nil) Type() ObjectType { return NIL_OBJ }
func (n *Nil) Inspect() string  { return "nil" }
func (n *Nil) HashKey() uint32  { return 0 }

// Unit is the value of statements and empty blocks.
type Unit struct{}

func (u *Unit) Type() ObjectType { return UNIT_OBJ }
func (u *Unit) Inspect() string  { return "()" }

// Shared singletons. Booleans, nil and unit carry no state, so one
// instance each is enough.
var (
	TRUE  = &Boolean{Value: true}
	FALSE = &Boolean{Value: false}
	NIL   = &Nil{}
	UNIT  = &Unit{}
)

func nativeBool(v bool) *Boolean {
	if v {
		return TRUE
	}
	return FALSE
}
