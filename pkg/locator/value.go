// File: pkg/locator/value.go
package locator

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Value is a locator value. The set of implementations is closed: String,
// Symbol, Pattern, Bool, Int, Not and List.
type Value interface {
	// TypeName is the name reported in type errors.
	TypeName() string
	// Inspect renders the value for error messages and logs.
	Inspect() string
	isValue()
}

// String is a literal string value.
type String string

// Symbol is an interned name, used for tag names and adjacency directions.
type Symbol string

// Bool is a boolean value, used for presence tests and visibility.
type Bool bool

// Int is an integer value, used for index.
type Int int

// Not is a negated class name.
type Not string

// List is a sequence of values, used for class lists.
type List []Value

// Pattern is a regular expression reduced to the two things the compiler
// needs: its source text and whether it ignores case.
type Pattern struct {
	Source     string
	IgnoreCase bool
}

// Adjacent directions.
const (
	Ancestor  Symbol = "ancestor"
	Following Symbol = "following"
	Preceding Symbol = "preceding"
	Child     Symbol = "child"
)

// Regexp returns a case-sensitive pattern.
func Regexp(source string) Pattern { return Pattern{Source: source} }

// IRegexp returns a case-insensitive pattern.
func IRegexp(source string) Pattern { return Pattern{Source: source, IgnoreCase: true} }

// PatternOf converts a compiled regexp. A leading (?i) flag group is lifted
// into IgnoreCase.
func PatternOf(re *regexp.Regexp) Pattern {
	src := re.String()
	if rest, ok := strings.CutPrefix(src, "(?i)"); ok {
		return Pattern{Source: rest, IgnoreCase: true}
	}
	return Pattern{Source: src}
}

// Compile returns the regexp the evaluator uses for residual checks.
func (p Pattern) Compile() (*regexp.Regexp, error) {
	if p.IgnoreCase {
		return regexp.Compile("(?i)" + p.Source)
	}
	return regexp.Compile(p.Source)
}

func (String) TypeName() string  { return "String" }
func (Symbol) TypeName() string  { return "Symbol" }
func (Bool) TypeName() string    { return "Boolean" }
func (Int) TypeName() string     { return "Integer" }
func (Not) TypeName() string     { return "Not" }
func (List) TypeName() string    { return "List" }
func (Pattern) TypeName() string { return "Pattern" }

func (s String) Inspect() string { return strconv.Quote(string(s)) }
func (s Symbol) Inspect() string { return ":" + string(s) }
func (b Bool) Inspect() string   { return strconv.FormatBool(bool(b)) }
func (i Int) Inspect() string    { return strconv.Itoa(int(i)) }
func (n Not) Inspect() string    { return "!" + strconv.Quote(string(n)) }

func (l List) Inspect() string {
	parts := make([]string, len(l))
	for i, v := range l {
		parts[i] = inspect(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (p Pattern) Inspect() string {
	if p.IgnoreCase {
		return "/" + p.Source + "/i"
	}
	return "/" + p.Source + "/"
}

func (String) isValue()  {}
func (Symbol) isValue()  {}
func (Bool) isValue()    {}
func (Int) isValue()     {}
func (Not) isValue()     {}
func (List) isValue()    {}
func (Pattern) isValue() {}

// inspect tolerates nil entries inside lists.
func inspect(v Value) string {
	if v == nil {
		return "nil"
	}
	return v.Inspect()
}

func typeName(v Value) string {
	if v == nil {
		return "nil"
	}
	return v.TypeName()
}

// String implements fmt.Stringer so patterns print like their literal form.
func (p Pattern) String() string { return p.Inspect() }

var _ fmt.Stringer = Pattern{}
