package locator

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseSelector(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  Selector
	}{
		{
			name:  "yaml flow mapping keeps order",
			input: `{tag_name: div, class: [a, "!b"], index: 2, visible: true}`,
			want:  sel("tag_name", String("div"), "class", List{String("a"), String("!b")}, "index", Int(2), "visible", Bool(true)),
		},
		{
			name:  "json",
			input: `{"id": {"regexp": "^vis"}, "action": {"regexp": "me", "ignore_case": true}, "class": [{"not": "x"}]}`,
			want:  sel("id", Regexp("^vis"), "action", IRegexp("me"), "class", List{Not("x")}),
		},
		{
			name: "tags",
			input: `
name: !regexp 'user.*'
title: !iregexp Good
tag_name: !sym div
class: !not hidden
`,
			want: sel("name", Regexp("user.*"), "title", IRegexp("Good"), "tag_name", Symbol("div"), "class", Not("hidden")),
		},
		{
			name:  "adjacent strings are symbols",
			input: `{"adjacent": "ancestor", "index": 0}`,
			want:  sel("adjacent", Ancestor, "index", Int(0)),
		},
		{
			name:  "quoted scalars stay strings",
			input: `{contenteditable: "true", "7": foo}`,
			want:  sel("contenteditable", String("true"), "7", String("foo")),
		},
		{
			name:  "symbol object",
			input: `{"tag_name": {"symbol": "div"}}`,
			want:  sel("tag_name", Symbol("div")),
		},
		{
			name:  "anchors",
			input: "name: &n user\nid: *n\n",
			want:  sel("name", String("user"), "id", String("user")),
		},
		{
			name:  "empty mapping",
			input: `{}`,
			want:  Selector{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseSelector([]byte(tc.input))
			require.NoError(t, err)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("ParseSelector mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseSelector_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		message string
	}{
		{"not a mapping", `[a, b]`, "selector must be a mapping"},
		{"null value", `{id: null}`, "id has no value"},
		{"unknown object", `{id: {pattern: x}}`, "expected one of regexp, symbol or not"},
		{"two documents", "{id: a}\n---\n{id: b}\n", "expected one selector document, got 2"},
		{"no documents", "", "expected one selector document, got 0"},
		{"bad yaml", `{id: [`, "decode selector 1"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseSelector([]byte(tc.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.message)
		})
	}
}

func TestDecodeSelectors(t *testing.T) {
	input := `
tag_name: input
name: user
---
{"adjacent": "child"}
---
text: !regexp Add
`
	sels, err := DecodeSelectors(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, sels, 3)
	assert.Equal(t, sel("tag_name", String("input"), "name", String("user")), sels[0])
	assert.Equal(t, sel("adjacent", Child), sels[1])
	assert.Equal(t, sel("text", Regexp("Add")), sels[2])
}

func TestSelector_MarshalJSON(t *testing.T) {
	s := sel(
		"xpath", String(".//*[contains(@class, 'h')]"),
		"class", List{Regexp("he?r"), Not("x")},
		"action", IRegexp("me"),
		"adjacent", Ancestor,
		"index", Int(-1),
		"visible", Bool(true),
	)

	data, err := s.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t,
		`{"xpath":".//*[contains(@class, 'h')]","class":[{"regexp":"he?r"},{"not":"x"}],`+
			`"action":{"regexp":"me","ignore_case":true},"adjacent":{"symbol":"ancestor"},"index":-1,"visible":true}`,
		string(data))

	t.Run("decodes back", func(t *testing.T) {
		back, err := ParseSelector(data)
		require.NoError(t, err)
		assert.Empty(t, cmp.Diff(s, back))
	})
}

func TestResult_MarshalJSON(t *testing.T) {
	res, err := NewBuilder(nil).Build(sel("src", Regexp("ages.*but")))
	require.NoError(t, err)

	data, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{"xpath": ".//*[contains(@src, 'ages') and contains(@src, 'but')]", "src": {"regexp": "ages.*but"}}`, string(data))
}

func TestSelector_MarshalYAML(t *testing.T) {
	s := sel(
		"xpath", String(".//*"),
		"name", Regexp("user.*"),
		"title", IRegexp("good"),
		"tag_name", Symbol("div"),
		"class", List{String("a"), Not("b")},
		"contenteditable", String("true"),
		"index", Int(3),
		"visible", Bool(false),
	)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	require.NoError(t, enc.Encode(s))
	require.NoError(t, enc.Close())

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "xpath: .//*\n"), out)
	assert.Contains(t, out, "name: !regexp user.*\n")
	assert.Contains(t, out, "title: !iregexp good\n")
	assert.Contains(t, out, "tag_name: !sym div\n")
	assert.Contains(t, out, "index: 3\n")
	assert.Contains(t, out, "visible: false\n")

	back, err := ParseSelector(buf.Bytes())
	require.NoError(t, err)
	if diff := cmp.Diff(s, back); diff != "" {
		t.Errorf("YAML round trip mismatch (-want +got):\n%s", diff)
	}
}
