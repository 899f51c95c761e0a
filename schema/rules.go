package schema

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

// Column substitution rules. A rule changes how the list builders render a
// column in SELECT/WHERE/VALUES/UPDATE fragments; the compiler itself never
// consults rules.

type RuleType int

const (
	// RuleDate converts between a vendor date column and its textual form.
	RuleDate RuleType = iota
	// RuleSysdate writes the database server's current time on insert and
	// update instead of a bound parameter.
	RuleSysdate
	// RuleSince exposes a date column as seconds elapsed since a fixed
	// base timestamp.
	RuleSince
)

// SinceLayout is the required layout of a SINCE rule's base timestamp.
const SinceLayout = "2006-01-02 15:04:05"

var (
	ErrRuleMalformed = errors.New("malformed column rule")
	ErrUnknownRule   = errors.New("unknown column rule type")

	ruleSyntax = regexp.MustCompile(`^([A-Za-z]+)\((.*)\)$`)
)

// Rule is a parsed column substitution rule.
type Rule struct {
	Type RuleType
	Arg  string
}

// ParseRule parses a registration string of the form TYPE(ARGS), where
// TYPE is DATE, SYSDATE, or SINCE. DATE and SYSDATE take a vendor date
// format; SINCE takes a base timestamp in SinceLayout.
func ParseRule(spec string) (*Rule, error) {
	m := ruleSyntax.FindStringSubmatch(spec)
	if m == nil {
		return nil, fmt.Errorf("%w: %q", ErrRuleMalformed, spec)
	}
	typ, arg := Canon(m[1]), m[2]
	switch typ {
	case "DATE", "SYSDATE":
		if arg == "" {
			return nil, fmt.Errorf("%w: %s requires a date format", ErrRuleMalformed, typ)
		}
	case "SINCE":
		if _, err := time.Parse(SinceLayout, arg); err != nil {
			return nil, fmt.Errorf("%w: SINCE base %q: %v", ErrRuleMalformed, arg, err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownRule, m[1])
	}
	rule := &Rule{Arg: arg}
	switch typ {
	case "DATE":
		rule.Type = RuleDate
	case "SYSDATE":
		rule.Type = RuleSysdate
	case "SINCE":
		rule.Type = RuleSince
	}
	return rule, nil
}

// RegisterRule parses and stores a substitution rule for a column.
func (s *Store) RegisterRule(column, spec string) error {
	rule, err := ParseRule(spec)
	if err != nil {
		return err
	}
	s.rules[Canon(column)] = rule
	s.version.Add(1)
	return nil
}

// Rule returns the substitution rule registered for a column, if any.
func (s *Store) Rule(column string) (*Rule, bool) {
	r, ok := s.rules[Canon(column)]
	return r, ok
}
