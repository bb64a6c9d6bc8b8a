package term

// Canonicalise renumbers variables by first-seen order within the whole
// term, per kind: the first-seen independent variable becomes $1, the next
// $2, etc.; likewise #1, #2... for dependent and ?1, ?2... for query
// variables. This guarantees alpha-equivalent terms produce identical keys
// (spec.md §3, tested by §8's idempotency property).
func Canonicalise(t *Term) *Term {
	next := map[Kind]int{VarIndependent: 1, VarDependent: 1, VarQuery: 1}
	seen := map[string]*Term{}
	return renumber(t, next, seen)
}

func renumber(t *Term, next map[Kind]int, seen map[string]*Term) *Term {
	if t.IsVariable() {
		// Identity within this term is by original VarID+Kind: every
		// occurrence of the same surface variable must map to the same
		// renumbered id.
		origKey := kindNames[t.Kind] + itoa(t.VarID)
		if mapped, ok := seen[origKey]; ok {
			return mapped
		}
		id := next[t.Kind]
		next[t.Kind] = id + 1
		nv := NewVar(t.Kind, id)
		seen[origKey] = nv
		return nv
	}
	if len(t.Children) == 0 {
		return t
	}
	newChildren := make([]*Term, len(t.Children))
	for i, c := range t.Children {
		newChildren[i] = renumber(c, next, seen)
	}
	var out *Term
	var err error
	if t.PlaceholderIndex > 0 {
		out, err = NewImage(t.Kind, t.PlaceholderIndex, newChildren...)
	} else {
		out, err = NewCompound(t.Kind, newChildren...)
	}
	if err != nil {
		// Renumbering must never invalidate an already-valid term;
		// a failure here indicates a construction bug upstream.
		panic(err)
	}
	return out
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
