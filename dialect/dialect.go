package dialect

// Dialect abstracts the placeholder and quoting conventions of a target
// database. The template compiler emits one placeholder per input bind
// token, numbered in encounter order starting at 1.
type Dialect interface {
	Name() string
	QuoteIdentifier(name string) string
	Placeholder(n int) string
}
