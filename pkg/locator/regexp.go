// File: pkg/locator/regexp.go
package locator

import (
	"regexp/syntax"
	"strings"
	"unicode"
)

// The translate() table used for case-insensitive patterns. It covers ASCII
// and the Latin-1 supplement plus the four Latin letters browsers commonly
// fold (Ÿ Ž Š Œ). A letter is only folded when its whole case orbit is in
// the table.
const (
	upperLatin = "ABCDEFGHIJKLMNOPQRSTUVWXYZÀÁÂÃÄÅÆÇÈÉÊËÌÍÎÏÐÑÒÓÔÕÖØÙÚÛÜÝÞŸŽŠŒ"
	lowerLatin = "abcdefghijklmnopqrstuvwxyzàáâãäåæçèéêëìíîïðñòóôõöøùúûüýþÿžšœ"
)

var latinLower = func() map[rune]rune {
	upper, lower := []rune(upperLatin), []rune(lowerLatin)
	m := make(map[rune]rune, len(upper)*2)
	for i := range upper {
		m[upper[i]] = lower[i]
		m[lower[i]] = lower[i]
	}
	return m
}()

// lowering is the XPath form of a pattern tested against one expression.
// An empty predicate means the pattern could not narrow anything.
type lowering struct {
	predicate string
	exact     bool
}

// patternShape is the literal-run decomposition of a parsed pattern.
type patternShape struct {
	runs []string
	// anchored is set when the pattern opens with a start-of-text anchor.
	anchored bool
	// broken is set when anything other than plain literal text (after an
	// opening anchor) appears in the pattern.
	broken bool
	// loose is set when a run is folded more widely than the pattern folds
	// it. The runs still hold for every match but no longer imply one.
	loose bool
}

// target is the XPath expression a pattern is lowered against.
type target struct {
	expr string
	// prefix permits the starts-with form for an anchored literal.
	prefix bool
	// spaced is set when whitespace in expr does not line up with the string
	// the pattern is matched against: a normalize-space() value, or a token
	// list whose tokens are matched one at a time. Runs break at whitespace
	// and starts-with is never used.
	spaced bool
}

func parsePattern(p Pattern) (*syntax.Regexp, error) {
	flags := syntax.Perl
	if p.IgnoreCase {
		flags |= syntax.FoldCase
	}
	return syntax.Parse(p.Source, flags)
}

// LiteralRuns returns the maximal runs of literal text a pattern requires, in
// order. Case-insensitive runs come back lower-cased through the translate
// table.
func LiteralRuns(p Pattern) ([]string, error) {
	shape, err := splitPattern(p, false)
	if err != nil {
		return nil, err
	}
	return shape.runs, nil
}

func splitPattern(p Pattern, spaced bool) (patternShape, error) {
	re, err := parsePattern(p)
	if err != nil {
		return patternShape{}, err
	}
	s := &runSplitter{translated: p.IgnoreCase, spaced: spaced}
	s.visit(re)
	s.flush()
	return s.shape, nil
}

type runSplitter struct {
	shape patternShape
	cur   []rune
	seen  bool
	// translated is set when the target is lower-cased with translate(), so
	// every run must be lower-cased the same way.
	translated bool
	// spaced breaks runs at whitespace.
	spaced bool
}

func (s *runSplitter) visit(re *syntax.Regexp) {
	switch re.Op {
	case syntax.OpConcat:
		for _, sub := range re.Sub {
			s.visit(sub)
		}
	case syntax.OpCapture:
		s.visit(re.Sub[0])
	case syntax.OpEmptyMatch:
	case syntax.OpLiteral:
		fold := re.Flags&syntax.FoldCase != 0
		for _, r := range re.Rune {
			s.add(r, fold)
		}
	case syntax.OpBeginText:
		if !s.seen && !s.shape.broken {
			s.shape.anchored = true
			return
		}
		s.brk()
	default:
		s.brk()
	}
}

func (s *runSplitter) add(r rune, fold bool) {
	s.seen = true
	if s.spaced && unicode.IsSpace(r) {
		s.brk()
		return
	}
	cased := unicode.SimpleFold(r) != r
	switch {
	case s.translated:
		lower, ok := latinLower[r]
		switch {
		case !ok && cased, ok && fold && !foldsInTable(r):
			// translate() cannot fold every case of r.
			s.brk()
			return
		case ok && !fold && cased:
			// (?-i) inside a case-insensitive pattern.
			s.shape.loose = true
		}
		if ok {
			r = lower
		}
	case fold && cased:
		// (?i) inside a case-sensitive pattern.
		s.brk()
		return
	}
	s.cur = append(s.cur, r)
}

// foldsInTable reports whether every rune r case-folds to is in the
// translate table. K folds to the Kelvin sign, which translate() leaves alone.
func foldsInTable(r rune) bool {
	for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
		if _, ok := latinLower[f]; !ok {
			return false
		}
	}
	return true
}

func (s *runSplitter) brk() {
	s.seen = true
	s.shape.broken = true
	s.flush()
}

func (s *runSplitter) flush() {
	if len(s.cur) > 0 {
		s.shape.runs = append(s.shape.runs, string(s.cur))
		s.cur = s.cur[:0]
	}
}

// lowerPattern converts p into a predicate over t.
func lowerPattern(p Pattern, t target) lowering {
	shape, err := splitPattern(p, t.spaced)
	if err != nil {
		return lowering{}
	}

	lhs := t.expr
	if p.IgnoreCase {
		lhs = "translate(" + t.expr + "," + xpathLiteral(upperLatin) + "," + xpathLiteral(lowerLatin) + ")"
	}

	if !shape.broken && !shape.loose {
		switch {
		case len(shape.runs) == 0:
			return lowering{exact: true}
		case !shape.anchored:
			return lowering{predicate: contains(lhs, shape.runs[0]), exact: true}
		case t.prefix && !t.spaced:
			return lowering{predicate: "starts-with(" + lhs + ", " + xpathLiteral(shape.runs[0]) + ")", exact: true}
		}
	}

	terms := make([]string, len(shape.runs))
	for i, run := range shape.runs {
		terms[i] = contains(lhs, run)
	}
	return lowering{predicate: strings.Join(terms, " and ")}
}

func contains(lhs, literal string) string {
	return "contains(" + lhs + ", " + xpathLiteral(literal) + ")"
}
