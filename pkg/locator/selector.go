package locator

import "strings"

// Recognized locator keys in their canonical spelling. Any other key is a
// generic attribute name.
const (
	KeyXPath       = "xpath"
	KeyCSS         = "css"
	KeyTagName     = "tag_name"
	KeyClass       = "class"
	KeyClassName   = "class_name"
	KeyText        = "text"
	KeyCaption     = "caption"
	KeyLabel       = "label"
	KeyIndex       = "index"
	KeyVisible     = "visible"
	KeyVisibleText = "visible_text"
	KeyAdjacent    = "adjacent"
)

var recognizedKeys = map[string]struct{}{
	KeyXPath:       {},
	KeyCSS:         {},
	KeyTagName:     {},
	KeyClass:       {},
	KeyClassName:   {},
	KeyText:        {},
	KeyCaption:     {},
	KeyLabel:       {},
	KeyIndex:       {},
	KeyVisible:     {},
	KeyVisibleText: {},
	KeyAdjacent:    {},
}

// Entry is a single locator key and its value.
type Entry struct {
	Key   string
	Value Value
}

// Selector is an ordered set of locator entries. Order is kept so residual
// entries come back in the order the caller wrote them.
type Selector []Entry

// CanonicalKey folds the spelling of a recognized locator key ("Tag-Name",
// "tag_name") to its canonical form. Attribute names are returned verbatim.
func CanonicalKey(key string) string {
	folded := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(key)), "-", "_")
	if _, ok := recognizedKeys[folded]; ok {
		return folded
	}
	return key
}

// Get returns the value stored under key, comparing canonical spellings.
func (s Selector) Get(key string) (Value, bool) {
	key = CanonicalKey(key)
	for _, e := range s {
		if CanonicalKey(e.Key) == key {
			return e.Value, true
		}
	}
	return nil, false
}

// Has reports whether key is present.
func (s Selector) Has(key string) bool {
	_, ok := s.Get(key)
	return ok
}

// Keys returns the keys in insertion order.
func (s Selector) Keys() []string {
	keys := make([]string, len(s))
	for i, e := range s {
		keys[i] = e.Key
	}
	return keys
}

// With returns a copy of s with key set to v, replacing an existing entry in
// place or appending a new one.
func (s Selector) With(key string, v Value) Selector {
	out := make(Selector, 0, len(s)+1)
	replaced := false
	for _, e := range s {
		if !replaced && CanonicalKey(e.Key) == CanonicalKey(key) {
			out = append(out, Entry{Key: e.Key, Value: v})
			replaced = true
			continue
		}
		out = append(out, e)
	}
	if !replaced {
		out = append(out, Entry{Key: key, Value: v})
	}
	return out
}

// Inspect renders the selector for error messages.
func (s Selector) Inspect() string {
	parts := make([]string, len(s))
	for i, e := range s {
		parts[i] = e.Key + ": " + inspect(e.Value)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
