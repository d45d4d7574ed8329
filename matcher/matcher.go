// Package matcher implements the closed set of metric-name matchers that the
// index layer uses to decide whether a metric belongs to a subset:
// PrefixSuffix, Regex, and Or. The Regex variant is a direct descendant of
// the teacher's reMatcher (sigs.k8s.io/prometheus-adapter's
// pkg/custom-provider/regex_matcher.go and pkg/naming's ReMatcher),
// generalized from a positive/negative single-regex filter into the plain
// match-or-not predicate this spec requires, with the negation folded away
// (Or gives us disjunction; there is no spec'd matcher negation).
package matcher

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cloudnative-stats/statindex/registry"
)

// Matcher decides whether a metric name belongs to a subset.
type Matcher interface {
	// Matches is the pure string-name predicate.
	Matches(name string) bool
	// MatchesEncoded is the optional fast path operating on an encoded name
	// handle; the default behavior (decode then Matches) is provided by
	// DefaultMatchesEncoded for implementations that don't need to override it.
	MatchesEncoded(h registry.NameHandle, symbols registry.SymbolTable) bool
	// Describe produces a stable, human-readable summary of the matcher.
	Describe() string
}

// DefaultMatchesEncoded decodes h via symbols and delegates to m.Matches. It
// is the fallback every Matcher variant here uses; none of the three
// variants needs a cheaper encoded fast path badly enough to justify one; per
// spec.md §4.1 that is an optional, implementation-specific optimization.
func DefaultMatchesEncoded(m Matcher, h registry.NameHandle, symbols registry.SymbolTable) bool {
	name, ok := symbols.Decode(h)
	if !ok {
		return false
	}
	return m.Matches(name)
}

// PrefixSuffix matches when both affixes are present in a name; an empty
// affix is vacuously satisfied. Prefix and suffix may overlap inside the
// matched name.
type PrefixSuffix struct {
	Prefix string
	Suffix string
}

// NewPrefixSuffix builds a PrefixSuffix matcher. Either affix may be empty.
func NewPrefixSuffix(prefix, suffix string) *PrefixSuffix {
	return &PrefixSuffix{Prefix: prefix, Suffix: suffix}
}

func (m *PrefixSuffix) Matches(name string) bool {
	return (m.Prefix == "" || strings.HasPrefix(name, m.Prefix)) &&
		(m.Suffix == "" || strings.HasSuffix(name, m.Suffix))
}

func (m *PrefixSuffix) MatchesEncoded(h registry.NameHandle, symbols registry.SymbolTable) bool {
	return DefaultMatchesEncoded(m, h, symbols)
}

func (m *PrefixSuffix) Describe() string {
	switch {
	case m.Prefix == "" && m.Suffix == "":
		return "all"
	case m.Prefix != "" && m.Suffix != "":
		return fmt.Sprintf("prefix='%s' AND suffix='%s'", m.Prefix, m.Suffix)
	case m.Prefix != "":
		return fmt.Sprintf("prefix='%s'", m.Prefix)
	default:
		return fmt.Sprintf("suffix='%s'", m.Suffix)
	}
}

// Regex matches when the compiled pattern finds a match anywhere in the
// name. Go's regexp package is RE2-based, matching the semantics spec.md
// requires.
type Regex struct {
	re *regexp.Regexp
}

// NewRegex compiles pattern. A malformed pattern fails with
// InvalidMatcherSpec.
func NewRegex(pattern string) (*Regex, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, InvalidMatcherSpec(fmt.Sprintf("uncompilable regex %q: %v", pattern, err))
	}
	return &Regex{re: re}, nil
}

func (m *Regex) Matches(name string) bool {
	return m.re.MatchString(name)
}

func (m *Regex) MatchesEncoded(h registry.NameHandle, symbols registry.SymbolTable) bool {
	return DefaultMatchesEncoded(m, h, symbols)
}

func (m *Regex) Describe() string {
	return fmt.Sprintf("regex='%s'", m.re.String())
}

// Or matches when any child matcher matches; an empty Or matches nothing.
type Or struct {
	Children []Matcher
}

// NewOr builds an Or matcher from an ordered sequence of children.
func NewOr(children ...Matcher) *Or {
	return &Or{Children: children}
}

func (m *Or) Matches(name string) bool {
	for _, c := range m.Children {
		if c.Matches(name) {
			return true
		}
	}
	return false
}

func (m *Or) MatchesEncoded(h registry.NameHandle, symbols registry.SymbolTable) bool {
	for _, c := range m.Children {
		if c.MatchesEncoded(h, symbols) {
			return true
		}
	}
	return false
}

func (m *Or) Describe() string {
	if len(m.Children) == 0 {
		return "()"
	}
	parts := make([]string, len(m.Children))
	for i, c := range m.Children {
		parts[i] = c.Describe()
	}
	return "(" + strings.Join(parts, " OR ") + ")"
}
