package core

import "strings"

// Predicate is an opaque boolean filter expression. The access layer relies
// on exactly one semantic property: IsFalse, the statically-known
// unsatisfiable marker used to short-circuit reads and security lookups.
type Predicate interface {
	// IsFalse reports whether the predicate is statically known to match no
	// rows.
	IsFalse() bool

	// Render produces the SQL text of the predicate using the given
	// formatter.
	Render(f Formatter) string
}

type falsePredicate struct{}

func (falsePredicate) IsFalse() bool           { return true }
func (falsePredicate) Render(Formatter) string { return "1=0" }

type truePredicate struct{}

func (truePredicate) IsFalse() bool           { return false }
func (truePredicate) Render(Formatter) string { return "1=1" }

// False returns the statically unsatisfiable predicate.
func False() Predicate { return falsePredicate{} }

// True returns the predicate that matches every row.
func True() Predicate { return truePredicate{} }

type eqPredicate struct {
	column string
	value  any
}

func (eqPredicate) IsFalse() bool { return false }

func (p eqPredicate) Render(f Formatter) string {
	if p.value == nil {
		return f.Ident(p.column) + " IS NULL"
	}
	return f.Ident(p.column) + " = " + f.Literal(p.value)
}

// Eq returns a column-equals-value predicate. A nil value renders as IS NULL.
func Eq(column string, value any) Predicate {
	return eqPredicate{column: column, value: value}
}

type rawPredicate struct {
	sql string
}

func (rawPredicate) IsFalse() bool             { return false }
func (p rawPredicate) Render(Formatter) string { return p.sql }

// Raw wraps pre-rendered SQL as a predicate. The text is trusted as-is.
func Raw(sql string) Predicate {
	return rawPredicate{sql: sql}
}

type andPredicate struct {
	parts []Predicate
}

func (p andPredicate) IsFalse() bool {
	for _, part := range p.parts {
		if part.IsFalse() {
			return true
		}
	}
	return false
}

func (p andPredicate) Render(f Formatter) string {
	terms := make([]string, 0, len(p.parts))
	for _, part := range p.parts {
		terms = append(terms, "("+part.Render(f)+")")
	}
	return strings.Join(terms, " AND ")
}

// And conjoins predicates, skipping nils. Zero non-nil parts yields True;
// one part is returned unchanged.
func And(parts ...Predicate) Predicate {
	kept := make([]Predicate, 0, len(parts))
	for _, p := range parts {
		if p != nil {
			kept = append(kept, p)
		}
	}
	switch len(kept) {
	case 0:
		return True()
	case 1:
		return kept[0]
	}
	return andPredicate{parts: kept}
}

type orPredicate struct {
	parts []Predicate
}

func (p orPredicate) IsFalse() bool {
	for _, part := range p.parts {
		if !part.IsFalse() {
			return false
		}
	}
	return len(p.parts) > 0
}

func (p orPredicate) Render(f Formatter) string {
	terms := make([]string, 0, len(p.parts))
	for _, part := range p.parts {
		terms = append(terms, "("+part.Render(f)+")")
	}
	return strings.Join(terms, " OR ")
}

// Or disjoins predicates, skipping nils. Zero non-nil parts yields False;
// one part is returned unchanged.
func Or(parts ...Predicate) Predicate {
	kept := make([]Predicate, 0, len(parts))
	for _, p := range parts {
		if p != nil {
			kept = append(kept, p)
		}
	}
	switch len(kept) {
	case 0:
		return False()
	case 1:
		return kept[0]
	}
	return orPredicate{parts: kept}
}
