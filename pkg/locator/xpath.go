package locator

import (
	"fmt"
	"strconv"
	"strings"
)

// startStep is the base step for a selector with no adjacency.
const startStep = ".//*"

// expression accumulates predicate groups on a single location step. Each
// group becomes one bracket; the terms inside a group are joined with "and".
type expression struct {
	step   string
	groups [][]string
}

// add appends a group, dropping empty terms. A group left with no terms
// produces no bracket.
func (x *expression) add(terms ...string) {
	var kept []string
	for _, t := range terms {
		if t != "" {
			kept = append(kept, t)
		}
	}
	if len(kept) > 0 {
		x.groups = append(x.groups, kept)
	}
}

func (x *expression) String() string {
	var b strings.Builder
	b.WriteString(x.step)
	for _, g := range x.groups {
		b.WriteByte('[')
		b.WriteString(strings.Join(g, " and "))
		b.WriteByte(']')
	}
	return b.String()
}

// indexPredicate converts a 0-based index (negative counts from the end)
// into an XPath positional predicate.
func indexPredicate(n int) string {
	switch {
	case n >= 0:
		return strconv.Itoa(n + 1)
	case n == -1:
		return "last()"
	default:
		return fmt.Sprintf("last()-%d", -n-1)
	}
}

// xpathLiteral quotes s as an XPath 1.0 string literal. XPath has no escape
// sequences, so values holding an apostrophe are assembled with concat().
func xpathLiteral(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	parts := strings.Split(s, "'")
	for i, p := range parts {
		parts[i] = "'" + p + "'"
	}
	return "concat(" + strings.Join(parts, `, "'", `) + ")"
}

// classContains tests for a whole class token in the class attribute.
func classContains(name string) string {
	return "contains(concat(' ', @class, ' '), " + xpathLiteral(" "+name+" ") + ")"
}

// labelAssociation matches a control by the text of its label, either through
// label/@for or by being wrapped in the label. An empty cond accepts any label.
func labelAssociation(cond string) string {
	if cond == "" {
		return "@id=//label/@for or parent::label"
	}
	return "@id=//label[" + cond + "]/@for or parent::label[" + cond + "]"
}
