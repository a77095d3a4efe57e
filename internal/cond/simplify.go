package cond

// orderedSet is a deduplicated, insertion-ordered collection of Raw values.
// It is not a general-purpose container; it exists solely to give the
// simplifier the "set of conjuncts/disjuncts ordered by the total order of
// Cond" representation spec §4.1 calls for.
type orderedSet struct {
	items []Raw
	seen  map[string]bool
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]bool)}
}

func (s *orderedSet) add(r Raw) {
	k := key(r)
	if s.seen[k] {
		return
	}
	s.seen[k] = true
	s.items = append(s.items, r)
}

func (s *orderedSet) contains(r Raw) bool { return s.seen[key(r)] }

func (s *orderedSet) remove(r Raw) {
	k := key(r)
	if !s.seen[k] {
		return
	}
	delete(s.seen, k)
	for i, it := range s.items {
		if key(it) == k {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
}

// sorted returns the set's members in the Raw total order.
func (s *orderedSet) sorted() []Raw {
	out := make([]Raw, len(s.items))
	copy(out, s.items)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && compare(out[j-1], out[j]) > 0; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

func isSubset(small, big *orderedSet) bool {
	for _, it := range small.items {
		if !big.contains(it) {
			return false
		}
	}
	return true
}

// simplify is the recursive canonicalizer spec §4.1 describes. It is the
// single place that establishes the canonical-form invariant: every Cond
// built through the public constructors routes through here.
func simplify(r Raw) Raw {
	switch x := r.(type) {
	case rawConst:
		return x
	case rawAtom:
		return x
	case rawNot:
		sx := simplify(x.X)
		switch inner := sx.(type) {
		case rawConst:
			return rawConst(!bool(inner))
		case rawNot:
			return inner.X
		default:
			return rawNot{X: sx}
		}
	case rawAnd:
		return simplifyAnd(x.A, x.B)
	case rawOr:
		return simplifyOr(x.A, x.B)
	default:
		panic("cond: unknown Raw variant")
	}
}

func simplifyAnd(a, b Raw) Raw {
	terms := newOrderedSet()
	var flatten func(r Raw)
	flatten = func(r Raw) {
		if and, ok := r.(rawAnd); ok {
			flatten(and.A)
			flatten(and.B)
			return
		}
		terms.add(simplify(r))
	}
	flatten(a)
	flatten(b)

	absorbBySubset(terms, orTerms, 4)

	terms.remove(rawConst(true))
	if terms.contains(rawConst(false)) {
		return rawConst(false)
	}
	for _, t := range terms.items {
		if n, ok := t.(rawNot); ok && terms.contains(n.X) {
			return rawConst(false)
		}
	}

	return foldAnd(terms.sorted())
}

func simplifyOr(a, b Raw) Raw {
	terms := newOrderedSet()
	var flatten func(r Raw)
	flatten = func(r Raw) {
		if or, ok := r.(rawOr); ok {
			flatten(or.A)
			flatten(or.B)
			return
		}
		terms.add(simplify(r))
	}
	flatten(a)
	flatten(b)

	absorbBySubset(terms, andTerms, 3)

	terms.remove(rawConst(false))
	if terms.contains(rawConst(true)) {
		return rawConst(true)
	}
	for _, t := range terms.items {
		if n, ok := t.(rawNot); ok && terms.contains(n.X) {
			return rawConst(true)
		}
	}

	return foldOr(terms.sorted())
}

// absorbBySubset implements the absorption-by-subset rule shared by And and
// Or simplification. subTermsOf extracts the opposite-operator's flattened
// subterms (orTerms for And-simplification, andTerms for Or-simplification).
// A conjunct/disjunct t built from the opposite operator is dropped when
// either one of its subterms already appears directly in terms (p & (p|q) ==
// p), or another such compound term's subterms are a subset of t's (
// (p|q) & (p|q|r) == (p|q), so the larger (p|q|r) is redundant).
func absorbBySubset(terms *orderedSet, subTermsOf func(Raw) []Raw, compoundTag int) {
	type group struct {
		term Raw
		sub  *orderedSet
	}
	var groups []group
	for _, t := range terms.items {
		if tag(t) != compoundTag {
			continue
		}
		sub := newOrderedSet()
		for _, d := range subTermsOf(t) {
			sub.add(d)
		}
		groups = append(groups, group{term: t, sub: sub})
	}

	var toRemove []Raw
	for i, g := range groups {
		remove := false
		for _, d := range g.sub.items {
			if terms.contains(d) {
				remove = true
				break
			}
		}
		if !remove {
			for j, g2 := range groups {
				if j == i {
					continue
				}
				if isSubset(g2.sub, g.sub) {
					remove = true
					break
				}
			}
		}
		if remove {
			toRemove = append(toRemove, g.term)
		}
	}
	for _, t := range toRemove {
		terms.remove(t)
	}
}

func foldAnd(items []Raw) Raw {
	if len(items) == 0 {
		return rawConst(true)
	}
	result := items[0]
	for _, it := range items[1:] {
		result = rawAnd{A: result, B: it}
	}
	return result
}

func foldOr(items []Raw) Raw {
	if len(items) == 0 {
		return rawConst(false)
	}
	result := items[0]
	for _, it := range items[1:] {
		result = rawOr{A: result, B: it}
	}
	return result
}
