package core

// Formatter renders identifiers and values as SQL text for one dialect.
// Implementations come from the driver layer; predicates and command
// builders consume it without knowing the dialect.
type Formatter interface {
	// Ident quotes a table or column identifier.
	Ident(name string) string

	// Literal renders a Go value as a SQL literal. Nil renders as NULL.
	Literal(v any) string
}
