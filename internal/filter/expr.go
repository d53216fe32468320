package filter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/pstuifzand/tui-listadapter/internal/model"
)

// Expr decides whether an item passes the filter
type Expr interface {
	Matches(item model.Item) bool
	String() string // For debug output
}

// TextExpr matches items whose label contains the search term (case-insensitive)
type TextExpr struct {
	term string
}

func NewTextExpr(term string) *TextExpr {
	return &TextExpr{term: strings.ToLower(term)}
}

func (e *TextExpr) Matches(item model.Item) bool {
	return strings.Contains(strings.ToLower(model.LabelOf(item)), e.term)
}

func (e *TextExpr) String() string {
	return fmt.Sprintf("text(%q)", e.term)
}

// FuzzyExpr matches items whose label fuzzy-matches the search term (case-insensitive)
type FuzzyExpr struct {
	term string
}

func NewFuzzyExpr(term string) *FuzzyExpr {
	return &FuzzyExpr{term: strings.ToLower(term)}
}

func (e *FuzzyExpr) Matches(item model.Item) bool {
	return fuzzy.MatchFold(e.term, model.LabelOf(item))
}

func (e *FuzzyExpr) String() string {
	return fmt.Sprintf("fuzzy(%q)", e.term)
}

// RegexExpr matches items whose label matches a regular expression pattern
type RegexExpr struct {
	pattern string
	re      *regexp.Regexp
}

func NewRegexExpr(pattern string) (*RegexExpr, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid regex pattern: %v", err)
	}
	return &RegexExpr{pattern: pattern, re: re}, nil
}

func (e *RegexExpr) Matches(item model.Item) bool {
	return e.re.MatchString(model.LabelOf(item))
}

func (e *RegexExpr) String() string {
	return fmt.Sprintf("regex(/%s/)", e.pattern)
}

// AndExpr matches when every term matches
type AndExpr struct {
	terms []Expr
}

func (e *AndExpr) Matches(item model.Item) bool {
	for _, t := range e.terms {
		if !t.Matches(item) {
			return false
		}
	}
	return true
}

func (e *AndExpr) String() string {
	parts := make([]string, len(e.terms))
	for i, t := range e.terms {
		parts[i] = t.String()
	}
	return "and(" + strings.Join(parts, ", ") + ")"
}

// Parse turns a query into an expression. Words are combined with AND; a
// word between slashes is a regular expression, a word starting with a
// quote is a plain substring and anything else matches fuzzily.
func Parse(query string) (Expr, error) {
	var terms []Expr
	for _, word := range strings.Fields(query) {
		switch {
		case len(word) > 2 && strings.HasPrefix(word, "/") && strings.HasSuffix(word, "/"):
			re, err := NewRegexExpr(word[1 : len(word)-1])
			if err != nil {
				return nil, err
			}
			terms = append(terms, re)
		case strings.HasPrefix(word, "'") && len(word) > 1:
			terms = append(terms, NewTextExpr(word[1:]))
		default:
			terms = append(terms, NewFuzzyExpr(word))
		}
	}
	if len(terms) == 1 {
		return terms[0], nil
	}
	return &AndExpr{terms: terms}, nil
}
