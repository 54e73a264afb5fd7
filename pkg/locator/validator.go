// File: pkg/locator/validator.go
package locator

import (
	"unicode"
)

var (
	stringOnly      = []string{"String"}
	textTypes       = []string{"String", "Pattern"}
	tagTypes        = []string{"String", "Pattern", "Symbol"}
	attributeTypes  = []string{"String", "Pattern", "Boolean"}
	classTypes      = []string{"String", "Pattern", "Boolean", "Not", "List"}
	classEntryTypes = []string{"String", "Pattern", "Boolean", "Not"}
	indexTypes      = []string{"Integer"}
	visibleTypes    = []string{"Boolean"}
	adjacentTypes   = []string{"Symbol"}
)

// acceptedTypes maps each recognized key to the value types it takes.
// Generic attributes fall back to attributeTypes.
var acceptedTypes = map[string][]string{
	KeyXPath:       stringOnly,
	KeyCSS:         stringOnly,
	KeyTagName:     tagTypes,
	KeyClass:       classTypes,
	KeyClassName:   classTypes,
	KeyText:        textTypes,
	KeyCaption:     textTypes,
	KeyLabel:       textTypes,
	KeyIndex:       indexTypes,
	KeyVisible:     visibleTypes,
	KeyVisibleText: textTypes,
	KeyAdjacent:    adjacentTypes,
}

var directions = map[Symbol]string{
	Ancestor:  "./ancestor::*",
	Following: "./following-sibling::*",
	Preceding: "./preceding-sibling::*",
	Child:     "./child::*",
}

// Validate checks that a selector can be compiled. It returns a *TypeError
// or a *LocatorError; it never inspects keys other than xpath or css when
// either of those is present.
func Validate(sel Selector) error {
	xpath, hasXPath := sel.Get(KeyXPath)
	css, hasCSS := sel.Get(KeyCSS)
	if hasXPath || hasCSS {
		if err := checkDuplicates(sel, isRawKey); err != nil {
			return err
		}
	} else if err := checkDuplicates(sel, nil); err != nil {
		return err
	}

	switch {
	case hasXPath && hasCSS:
		return locatorErrorf("xpath and css cannot be combined (xpath: %s, css: %s)", inspect(xpath), inspect(css))
	case hasXPath:
		return checkType(KeyXPath, xpath, stringOnly)
	case hasCSS:
		return checkType(KeyCSS, css, stringOnly)
	}

	for _, e := range sel {
		if err := validateEntry(e); err != nil {
			return err
		}
	}

	if dir, ok := sel.Get(KeyAdjacent); ok && dir == Value(Ancestor) {
		if sel.Has(KeyText) || sel.Has(KeyCaption) {
			return locatorErrorf("can not find parent element with text locator")
		}
	}
	return nil
}

func validateEntry(e Entry) error {
	key := CanonicalKey(e.Key)
	expected, recognized := acceptedTypes[key]
	if !recognized {
		if !isAttributeName(e.Key) {
			return locatorErrorf("unable to build XPath using %s", e.Key)
		}
		expected = attributeTypes
	}

	if err := checkType(key, e.Value, expected); err != nil {
		return err
	}

	switch key {
	case KeyClass, KeyClassName:
		return validateClass(key, e.Value)
	case KeyAdjacent:
		dir := e.Value.(Symbol)
		if _, ok := directions[dir]; !ok {
			return locatorErrorf("unable to process adjacent locator with %s", string(dir))
		}
	}
	return checkPattern(e.Value)
}

func validateClass(key string, v Value) error {
	list, ok := v.(List)
	if !ok {
		return checkPattern(v)
	}
	if len(list) == 0 {
		return locatorErrorf("can not locate elements with an empty list for %s", KeyClass)
	}
	for _, item := range list {
		if err := checkType(key, item, classEntryTypes); err != nil {
			return err
		}
		if err := checkPattern(item); err != nil {
			return err
		}
	}
	return nil
}

func checkType(key string, v Value, expected []string) error {
	name := typeName(v)
	for _, want := range expected {
		if name == want {
			return nil
		}
	}
	return &TypeError{Key: key, Expected: expected, Value: v}
}

func checkPattern(v Value) error {
	p, ok := v.(Pattern)
	if !ok {
		return nil
	}
	if _, err := parsePattern(p); err != nil {
		return locatorErrorf("unable to parse pattern %s: %v", p.Inspect(), err)
	}
	return nil
}

// checkDuplicates rejects two entries for the same key. only limits the
// check to the keys it accepts; nil checks every key.
func checkDuplicates(sel Selector, only func(key string) bool) error {
	seen := make(map[string]struct{}, len(sel))
	for _, e := range sel {
		key := CanonicalKey(e.Key)
		if key == KeyCaption {
			key = KeyText
		}
		if only != nil && !only(key) {
			continue
		}
		if _, dup := seen[key]; dup {
			return locatorErrorf("duplicate locator key %s", e.Key)
		}
		seen[key] = struct{}{}
	}
	return nil
}

func isRawKey(key string) bool {
	return key == KeyXPath || key == KeyCSS
}

// isAttributeName reports whether key can be written as an unprefixed XPath
// attribute test (@key).
func isAttributeName(key string) bool {
	if key == "" {
		return false
	}
	for i, r := range key {
		switch {
		case unicode.IsLetter(r), r == '_':
		case i > 0 && (unicode.IsDigit(r) || r == '-' || r == '.'):
		default:
			return false
		}
	}
	return true
}
