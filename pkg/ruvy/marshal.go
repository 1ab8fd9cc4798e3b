package ruvy

import (
	"fmt"
	"reflect"

	"github.com/ruvylang/ruvy/internal/evaluator"
)

// ToObject converts a Go value to an interpreter object. Structs become
// records (exported fields only), slices become lists, maps become maps
// with hashable keys.
func ToObject(val interface{}) (evaluator.Object, error) {
	if val == nil {
		return evaluator.NIL, nil
	}
	if obj, ok := val.(evaluator.Object); ok {
		return obj, nil
	}

	v := reflect.ValueOf(val)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return &evaluator.Integer{Value: v.Int()}, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &evaluator.Integer{Value: int64(v.Uint())}, nil
	case reflect.Float32, reflect.Float64:
		return &evaluator.Float{Value: v.Float()}, nil
	case reflect.Bool:
		if v.Bool() {
			return evaluator.TRUE, nil
		}
		return evaluator.FALSE, nil
	case reflect.String:
		return &evaluator.Str{Value: v.String()}, nil
	case reflect.Slice, reflect.Array:
		return sliceToList(v)
	case reflect.Map:
		return mapToMap(v)
	case reflect.Struct:
		return structToRecord(v)
	case reflect.Ptr:
		if v.IsNil() {
			return evaluator.NIL, nil
		}
		return ToObject(v.Elem().Interface())
	default:
		return nil, fmt.Errorf("unsupported Go type %s", v.Type())
	}
}

// FromObject converts an interpreter object to a Go value. Records come
// back as map[string]interface{}, lists and tuples as []interface{}.
func FromObject(obj evaluator.Object) (interface{}, error) {
	switch o := obj.(type) {
	case nil, *evaluator.Nil, *evaluator.Unit:
		return nil, nil
	case *evaluator.Integer:
		return o.Value, nil
	case *evaluator.Float:
		return o.Value, nil
	case *evaluator.Boolean:
		return o.Value, nil
	case *evaluator.Str:
		return o.Value, nil
	case *evaluator.Char:
		return rune(o.Value), nil
	case *evaluator.List:
		return elementsToSlice(o.Elements)
	case *evaluator.Tuple:
		return elementsToSlice(o.Elements)
	case *evaluator.Record:
		out := make(map[string]interface{}, len(o.Keys))
		for _, k := range o.Keys {
			val, err := FromObject(o.Fields[k])
			if err != nil {
				return nil, err
			}
			out[k] = val
		}
		return out, nil
	case *evaluator.Map:
		out := make(map[interface{}]interface{}, o.Size)
		for _, bucket := range o.Pairs {
			for _, pair := range bucket {
				key, err := FromObject(pair.Key)
				if err != nil {
					return nil, err
				}
				val, err := FromObject(pair.Value)
				if err != nil {
					return nil, err
				}
				out[key] = val
			}
		}
		return out, nil
	case *evaluator.Range:
		return o.Inspect(), nil
	case *evaluator.Function, *evaluator.Builtin:
		// Callables cross the boundary opaquely; use Engine.Call.
		return obj, nil
	default:
		return nil, fmt.Errorf("unsupported script type %s", obj.Type())
	}
}

func elementsToSlice(elements []evaluator.Object) ([]interface{}, error) {
	out := make([]interface{}, len(elements))
	for i, el := range elements {
		val, err := FromObject(el)
		if err != nil {
			return nil, err
		}
		out[i] = val
	}
	return out, nil
}

func sliceToList(v reflect.Value) (*evaluator.List, error) {
	elements := make([]evaluator.Object, v.Len())
	for i := 0; i < v.Len(); i++ {
		el, err := ToObject(v.Index(i).Interface())
		if err != nil {
			return nil, err
		}
		elements[i] = el
	}
	return &evaluator.List{Elements: elements}, nil
}

func mapToMap(v reflect.Value) (*evaluator.Map, error) {
	out := evaluator.NewMap()
	iter := v.MapRange()
	for iter.Next() {
		key, err := ToObject(iter.Key().Interface())
		if err != nil {
			return nil, fmt.Errorf("map key: %w", err)
		}
		hashable, ok := key.(evaluator.Hashable)
		if !ok {
			return nil, fmt.Errorf("map key type %s is not hashable", key.Type())
		}
		val, err := ToObject(iter.Value().Interface())
		if err != nil {
			return nil, fmt.Errorf("map value: %w", err)
		}
		out.Set(hashable, val)
	}
	return out, nil
}

func structToRecord(v reflect.Value) (*evaluator.Record, error) {
	record := evaluator.NewRecord("")
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		val, err := ToObject(v.Field(i).Interface())
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", field.Name, err)
		}
		record.Set(field.Name, val)
	}
	return record, nil
}
