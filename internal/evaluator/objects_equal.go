package evaluator

// objectsEqual is structural equality: numbers compare with float
// promotion, containers element-wise, everything else by identity of
// shape and content.
func objectsEqual(a, b Object) bool {
	switch av := a.(type) {
	case *Integer:
		switch bv := b.(type) {
		case *Integer:
			return av.Value == bv.Value
		case *Float:
			return float64(av.Value) == bv.Value
		}
		return false
	case *Float:
		switch bv := b.(type) {
		case *Float:
			return av.Value == bv.Value
		case *Integer:
			return av.Value == float64(bv.Value)
		}
		return false
	case *Boolean:
		bv, ok := b.(*Boolean)
		return ok && av.Value == bv.Value
	case *Char:
		bv, ok := b.(*Char)
		return ok && av.Value == bv.Value
	case *Str:
		bv, ok := b.(*Str)
		return ok && av.Value == bv.Value
	case *Nil:
		_, ok := b.(*Nil)
		return ok
	case *Unit:
		_, ok := b.(*Unit)
		return ok
	case *List:
		bv, ok := b.(*List)
		if !ok || len(av.Elements) != len(bv.Elements) {
			return false
		}
		for i := range av.Elements {
			if !objectsEqual(av.Elements[i], bv.Elements[i]) {
				return false
			}
		}
		return true
	case *Tuple:
		bv, ok := b.(*Tuple)
		if !ok || len(av.Elements) != len(bv.Elements) {
			return false
		}
		for i := range av.Elements {
			if !objectsEqual(av.Elements[i], bv.Elements[i]) {
				return false
			}
		}
		return true
	case *Record:
		bv, ok := b.(*Record)
		if !ok || av.TypeName != bv.TypeName || len(av.Fields) != len(bv.Fields) {
			return false
		}
		for k, v := range av.Fields {
			ov, ok := bv.Fields[k]
			if !ok || !objectsEqual(v, ov) {
				return false
			}
		}
		return true
	case *Range:
		bv, ok := b.(*Range)
		return ok && av.Start == bv.Start && av.End == bv.End && av.Inclusive == bv.Inclusive
	case *EnumVariant:
		bv, ok := b.(*EnumVariant)
		if !ok || av.Variant != bv.Variant || len(av.Values) != len(bv.Values) {
			return false
		}
		if av.EnumName != "" && bv.EnumName != "" && av.EnumName != bv.EnumName {
			return false
		}
		for i := range av.Values {
			if !objectsEqual(av.Values[i], bv.Values[i]) {
				return false
			}
		}
		return true
	case *ActorHandle:
		bv, ok := b.(*ActorHandle)
		return ok && av.ID == bv.ID
	case *Map:
		bv, ok := b.(*Map)
		if !ok || av.Size != bv.Size {
			return false
		}
		for _, chain := range av.Pairs {
			for _, p := range chain {
				key, ok := p.Key.(Hashable)
				if !ok {
					return false
				}
				other, ok := bv.Get(key)
				if !ok || !objectsEqual(p.Value, other) {
					return false
				}
			}
		}
		return true
	case *Set:
		bv, ok := b.(*Set)
		if !ok || av.Size != bv.Size {
			return false
		}
		for _, chain := range av.entries {
			for _, m := range chain {
				hm, ok := m.(Hashable)
				if !ok || !bv.Contains(hm) {
					return false
				}
			}
		}
		return true
	}
	return a == b
}
