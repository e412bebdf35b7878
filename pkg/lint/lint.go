// Package lint runs diagnostic rules over a parsed module.
//
// Rules see the same tree the formatter lays out. Each reports
// [Diagnostic] values with a stable code so that editors and CI can filter
// them. The registry currently holds one rule:
//
//   - PLE0203 access-member-before-definition
package lint

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/pyfmt/pkg/errors"
	"github.com/matzehuels/pyfmt/pkg/syntax"
)

// Diagnostic is one finding.
type Diagnostic struct {
	Code    string      `json:"code"`
	Rule    string      `json:"rule"`
	Message string      `json:"message"`
	Span    syntax.Span `json:"span"`
	Line    int         `json:"line"`
	Column  int         `json:"column"`
}

// String formats the diagnostic as line:col: code message.
func (d Diagnostic) String() string {
	return fmt.Sprintf("%d:%d: %s %s", d.Line, d.Column, d.Code, d.Message)
}

// Rule is a check over a whole module.
type Rule interface {
	Name() string
	Code() string
	Check(mod *syntax.Module, src string) []Diagnostic
}

var registry = []Rule{
	AccessMemberBeforeDefinition{},
}

// Rules returns every registered rule.
func Rules() []Rule {
	return slices.Clone(registry)
}

// Names returns the names of rules.
func Names(rules []Rule) []string {
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.Name()
	}
	return names
}

// Select resolves rule names or codes. An empty selection means every rule.
func Select(selectors []string) ([]Rule, error) {
	if len(selectors) == 0 {
		return Rules(), nil
	}
	var out []Rule
	for _, s := range selectors {
		i := slices.IndexFunc(registry, func(r Rule) bool {
			return strings.EqualFold(r.Name(), s) || strings.EqualFold(r.Code(), s)
		})
		if i < 0 {
			return nil, errors.New(errors.ErrCodeInvalidOption, "unknown lint rule %q", s)
		}
		if !slices.Contains(out, registry[i]) {
			out = append(out, registry[i])
		}
	}
	return out, nil
}

// Run applies rules to mod and returns diagnostics ordered by position.
func Run(mod *syntax.Module, src string, rules []Rule) []Diagnostic {
	var out []Diagnostic
	for _, r := range rules {
		for _, d := range r.Check(mod, src) {
			d.Code, d.Rule = r.Code(), r.Name()
			d.Line, d.Column = syntax.LineCol(src, d.Span.Start)
			out = append(out, d)
		}
	}
	slices.SortStableFunc(out, func(a, b Diagnostic) int {
		return cmp.Compare(a.Span.Start, b.Span.Start)
	})
	return out
}

// CheckSource parses src and runs rules over it.
func CheckSource(src string, rules []Rule) ([]Diagnostic, error) {
	mod, err := syntax.Parse(src)
	if err != nil {
		return nil, err
	}
	return Run(mod, src, rules), nil
}
