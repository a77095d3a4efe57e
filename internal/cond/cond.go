package cond

// Cond is an immutable, canonicalized boolean condition. Every value ever
// returned from this package's constructors satisfies simplify(raw) == raw;
// equality of two Cond values is therefore plain structural equality of
// their Raw trees.
type Cond struct {
	raw Raw
}

// Atom constructs a leaf predicate over opaque text, e.g. "t > 10". s must
// not be "true", "false", or empty - those are reserved for Constant and
// are a caller bug (from ExprXlat) if they slip through.
func Atom(s string) Cond {
	if s == "" || s == "true" || s == "false" {
		panic("cond: invalid atom text " + stringQuote(s))
	}
	return Cond{raw: rawAtom(s)}
}

// Constant builds Const(true) or Const(false).
func Constant(b bool) Cond {
	return Cond{raw: rawConst(b)}
}

func stringQuote(s string) string {
	return "\"" + s + "\""
}

// And returns the simplified conjunction of c and o.
func (c Cond) And(o Cond) Cond {
	return Cond{raw: simplify(rawAnd{A: c.raw, B: o.raw})}
}

// Or returns the simplified disjunction of c and o.
func (c Cond) Or(o Cond) Cond {
	return Cond{raw: simplify(rawOr{A: c.raw, B: o.raw})}
}

// Not returns the simplified negation of c.
func (c Cond) Not() Cond {
	return Cond{raw: simplify(rawNot{X: c.raw})}
}

// Raw exposes the inner tree, e.g. for atom-aggregation in property tests.
func (c Cond) Raw() Raw {
	return c.raw
}

// IsTrue reports whether c is the canonical Const(true).
func (c Cond) IsTrue() bool {
	b, ok := c.raw.(rawConst)
	return ok && bool(b)
}

// IsFalse reports whether c is the canonical Const(false).
func (c Cond) IsFalse() bool {
	b, ok := c.raw.(rawConst)
	return ok && !bool(b)
}

// Equal reports structural equality of the (always-canonical) raw trees.
func (c Cond) Equal(o Cond) bool {
	return equalRaw(c.raw, o.raw)
}

// Compare implements the deterministic total order over Cond values:
// negative if c sorts before o, zero if equal, positive otherwise.
func Compare(c, o Cond) int {
	return compare(c.raw, o.raw)
}

// Less is a convenience wrapper around Compare for use with sort.Slice.
func Less(c, o Cond) bool {
	return Compare(c, o) < 0
}

// String renders c using the package's display grammar (infix &, |, prefix
// ~, minimal parenthesization).
func (c Cond) String() string {
	return rawString(c.raw)
}

// Eval evaluates c under the given atom assignment. Used by property tests;
// not part of the compiler's hot path.
func (c Cond) Eval(assignment map[string]bool) bool {
	return evalRaw(c.raw, assignment)
}

func evalRaw(r Raw, assignment map[string]bool) bool {
	switch x := r.(type) {
	case rawConst:
		return bool(x)
	case rawAtom:
		v, ok := assignment[string(x)]
		if !ok {
			panic("cond: no assignment for atom " + string(x))
		}
		return v
	case rawNot:
		return !evalRaw(x.X, assignment)
	case rawAnd:
		return evalRaw(x.A, assignment) && evalRaw(x.B, assignment)
	case rawOr:
		return evalRaw(x.A, assignment) || evalRaw(x.B, assignment)
	default:
		panic("cond: unknown Raw variant")
	}
}

// Atoms collects the distinct atom names appearing in c, in order of first
// appearance in a left-to-right walk of the tree (used by the Assembler's
// completeness tests).
func Atoms(c Cond) []string {
	seen := make(map[string]bool)
	var out []string
	var walk func(r Raw)
	walk = func(r Raw) {
		switch x := r.(type) {
		case rawAtom:
			if !seen[string(x)] {
				seen[string(x)] = true
				out = append(out, string(x))
			}
		case rawNot:
			walk(x.X)
		case rawAnd:
			walk(x.A)
			walk(x.B)
		case rawOr:
			walk(x.A)
			walk(x.B)
		}
	}
	walk(c.raw)
	return out
}
