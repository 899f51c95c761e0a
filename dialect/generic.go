package dialect

// Generic is the dialect-neutral convention: unnumbered `?` placeholders
// and unquoted identifiers. It matches drivers that take positional
// question-mark parameters and is the compiler's default.
type Generic struct{}

func NewGenericDialect() Dialect {
	return &Generic{}
}

func (g Generic) Name() string {
	return "generic"
}

func (g Generic) QuoteIdentifier(name string) string {
	return name
}

func (g Generic) Placeholder(n int) string {
	return "?"
}
