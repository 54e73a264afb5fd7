package locator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLiteralRuns(t *testing.T) {
	testCases := []struct {
		name    string
		pattern Pattern
		want    []string
	}{
		{"plain literal", Regexp("od Lu"), []string{"od Lu"}},
		{"escaped slash", Regexp(`ages\/but`), []string{"ages/but"}},
		{"wildcard splits", Regexp("ages.*but"), []string{"ages", "but"}},
		{"optional character splits", Regexp("he?r"), []string{"h", "r"}},
		{"anchors are dropped", Regexp("^new_user_image$"), []string{"new_user_image"}},
		{"capture is transparent", Regexp("(abc)"), []string{"abc"}},
		{"alternation keeps the common prefix", Regexp("ab|ac"), []string{"a"}},
		{"no literal text", Regexp(`\d+`), nil},
		{"empty", Regexp(""), nil},
		{"case insensitive lowers", IRegexp("MeÉ"), []string{"meé"}},
		{"case insensitive outside the table breaks", IRegexp("aσb"), []string{"a", "b"}},
		{"inline fold in a case sensitive pattern breaks", Regexp("x(?i)ab1"), []string{"x", "1"}},
		{"uppercase in a case insensitive pattern", IRegexp("(?-i)ABC"), []string{"abc"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			runs, err := LiteralRuns(tc.pattern)
			require.NoError(t, err)
			assert.Equal(t, tc.want, runs)
		})
	}

	t.Run("invalid pattern", func(t *testing.T) {
		_, err := LiteralRuns(Regexp("a("))
		assert.Error(t, err)
	})
}

func TestLowerPattern(t *testing.T) {
	translated := "translate(@id," + upperTable + "," + lowerTable + ")"
	id := target{expr: "@id", prefix: true}
	noPrefix := target{expr: "@id"}
	normalized := target{expr: "normalize-space()", spaced: true}

	testCases := []struct {
		name    string
		pattern Pattern
		target  target
		want    lowering
	}{
		{"literal is exact", Regexp("good"), id, lowering{predicate: "contains(@id, 'good')", exact: true}},
		{"anchored literal uses starts-with", Regexp("^i"), id, lowering{predicate: "starts-with(@id, 'i')", exact: true}},
		{"anchored literal without prefix", Regexp("^i"), noPrefix, lowering{predicate: "contains(@id, 'i')"}},
		{"end anchor is approximate", Regexp("me$"), id, lowering{predicate: "contains(@id, 'me')"}},
		{"several runs", Regexp("a.*b"), id, lowering{predicate: "contains(@id, 'a') and contains(@id, 'b')"}},
		{"nothing to narrow", Regexp(".*"), id, lowering{}},
		{"empty pattern matches anything", Regexp(""), id, lowering{exact: true}},
		{"lone anchor matches anything", Regexp("^"), id, lowering{exact: true}},
		{"case insensitive", IRegexp("Me"), id, lowering{predicate: "contains(" + translated + ", 'me')", exact: true}},
		{"case insensitive anchored", IRegexp("^Me"), id, lowering{predicate: "starts-with(" + translated + ", 'me')", exact: true}},
		{"case insensitive greek", IRegexp("σ"), id, lowering{}},
		{"case sensitive group is approximate", IRegexp("(?-i)Foo"), id, lowering{predicate: "contains(" + translated + ", 'foo')"}},
		{"kelvin sign folds to k", IRegexp("k"), id, lowering{}},
		{"long s folds to s", IRegexp("as"), id, lowering{predicate: "contains(" + translated + ", 'a')"}},
		{"angstrom sign folds to å", IRegexp("Åx"), id, lowering{predicate: "contains(" + translated + ", 'x')"}},
		{"ÿ folds inside the table", IRegexp("Ÿ"), id, lowering{predicate: "contains(" + translated + ", 'ÿ')", exact: true}},
		{"apostrophe", Regexp("it's"), id, lowering{predicate: `contains(@id, concat('it', "'", 's'))`, exact: true}},
		{"unparseable", Regexp("("), id, lowering{}},
		{"normalized literal is exact", Regexp("Car"), normalized, lowering{predicate: "contains(normalize-space(), 'Car')", exact: true}},
		{"normalized runs break at spaces", Regexp("Car  s"), normalized,
			lowering{predicate: "contains(normalize-space(), 'Car') and contains(normalize-space(), 's')"}},
		{"normalized anchor never uses starts-with", Regexp("^Car"), normalized, lowering{predicate: "contains(normalize-space(), 'Car')"}},
		{"normalized tab", Regexp(`a\tb`), normalized,
			lowering{predicate: "contains(normalize-space(), 'a') and contains(normalize-space(), 'b')"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, lowerPattern(tc.pattern, tc.target))
		})
	}
}

func TestXPathLiteral(t *testing.T) {
	assert.Equal(t, "'plain'", xpathLiteral("plain"))
	assert.Equal(t, `'say "hi"'`, xpathLiteral(`say "hi"`))
	assert.Equal(t, `concat('', "'", 'quoted', "'", '')`, xpathLiteral("'quoted'"))
}

func TestIndexPredicate(t *testing.T) {
	assert.Equal(t, "1", indexPredicate(0))
	assert.Equal(t, "8", indexPredicate(7))
	assert.Equal(t, "last()", indexPredicate(-1))
	assert.Equal(t, "last()-6", indexPredicate(-7))
}
