// Package cond implements the canonicalized boolean condition algebra
// described by the CORE's Cond component: an immutable expression tree over
// Const/Atom/Not/And/Or with a simplifier that keeps every publicly
// constructed value in a normal form (simplify(c) == c always holds).
package cond

import "strings"

// Raw is the unexported inner representation of a condition tree. Only this
// package constructs Raw values; callers interact through Cond.
type Raw interface {
	isRaw()
}

type rawConst bool

type rawAtom string

type rawNot struct{ X Raw }

type rawAnd struct{ A, B Raw }

type rawOr struct{ A, B Raw }

func (rawConst) isRaw() {}
func (rawAtom) isRaw()  {}
func (rawNot) isRaw()   {}
func (rawAnd) isRaw()   {}
func (rawOr) isRaw()    {}

// tag gives each Raw variant a position in the total order: Const < Atom <
// Not < And < Or. The exact order is arbitrary but must be total and
// deterministic, since it drives both set-folding and the public Cond
// ordering.
func tag(r Raw) int {
	switch r.(type) {
	case rawConst:
		return 0
	case rawAtom:
		return 1
	case rawNot:
		return 2
	case rawAnd:
		return 3
	case rawOr:
		return 4
	default:
		panic("cond: unknown Raw variant")
	}
}

// compare implements the structural total order over Raw values.
func compare(a, b Raw) int {
	if ta, tb := tag(a), tag(b); ta != tb {
		return ta - tb
	}
	switch x := a.(type) {
	case rawConst:
		y := b.(rawConst)
		if x == y {
			return 0
		}
		if !bool(x) {
			return -1
		}
		return 1
	case rawAtom:
		y := b.(rawAtom)
		return strings.Compare(string(x), string(y))
	case rawNot:
		y := b.(rawNot)
		return compare(x.X, y.X)
	case rawAnd:
		y := b.(rawAnd)
		if c := compare(x.A, y.A); c != 0 {
			return c
		}
		return compare(x.B, y.B)
	case rawOr:
		y := b.(rawOr)
		if c := compare(x.A, y.A); c != 0 {
			return c
		}
		return compare(x.B, y.B)
	default:
		panic("cond: unknown Raw variant")
	}
}

func equalRaw(a, b Raw) bool { return compare(a, b) == 0 }

// key produces a canonical string suitable as a map key for structural
// equality: two Raw values get the same key exactly when they are the same
// tree, so a plain recursive encoding suffices.
func key(r Raw) string {
	var b strings.Builder
	writeKey(&b, r)
	return b.String()
}

func writeKey(b *strings.Builder, r Raw) {
	switch x := r.(type) {
	case rawConst:
		if x {
			b.WriteString("T")
		} else {
			b.WriteString("F")
		}
	case rawAtom:
		b.WriteString("a:")
		b.WriteString(string(x))
		b.WriteByte(';')
	case rawNot:
		b.WriteString("~(")
		writeKey(b, x.X)
		b.WriteByte(')')
	case rawAnd:
		b.WriteString("&(")
		writeKey(b, x.A)
		b.WriteByte(',')
		writeKey(b, x.B)
		b.WriteByte(')')
	case rawOr:
		b.WriteString("|(")
		writeKey(b, x.A)
		b.WriteByte(',')
		writeKey(b, x.B)
		b.WriteByte(')')
	}
}

// andTerms returns the flat list of conjuncts of an already-canonical And
// chain, or []Raw{r} if r is not an And.
func andTerms(r Raw) []Raw {
	if and, ok := r.(rawAnd); ok {
		return append(andTerms(and.A), andTerms(and.B)...)
	}
	return []Raw{r}
}

// orTerms is the Or dual of andTerms.
func orTerms(r Raw) []Raw {
	if or, ok := r.(rawOr); ok {
		return append(orTerms(or.A), orTerms(or.B)...)
	}
	return []Raw{r}
}

func isAllAlnum(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}

// rawString implements the display grammar: infix & and |, prefix ~,
// parenthesizing a binary child only when its operator differs from the
// parent's (Or inside And, And inside Or).
func rawString(r Raw) string {
	switch x := r.(type) {
	case rawConst:
		if x {
			return "true"
		}
		return "false"
	case rawAtom:
		return string(x)
	case rawAnd:
		return single(x.A, 4) + " & " + single(x.B, 4)
	case rawOr:
		return single(x.A, 3) + " | " + single(x.B, 3)
	case rawNot:
		inner := rawString(x.X)
		if isAllAlnum(inner) {
			return "~" + inner
		}
		return "~(" + inner + ")"
	default:
		panic("cond: unknown Raw variant")
	}
}

// single renders r, parenthesizing it if its variant tag matches
// parenIfTag (the other binary operator from the one calling in).
func single(r Raw, parenIfTag int) string {
	if tag(r) == parenIfTag {
		return "(" + rawString(r) + ")"
	}
	return rawString(r)
}
