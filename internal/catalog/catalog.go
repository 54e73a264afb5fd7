// File: internal/catalog/catalog.go
package catalog

import (
	"sort"
	"strings"

	"golang.org/x/net/html/atom"

	"github.com/xkilldash9x/xlocate/pkg/locator"
)

// globalAttributes are valid on every HTML element.
var globalAttributes = []string{
	"accesskey", "autocapitalize", "autofocus", "class", "contenteditable",
	"dir", "draggable", "enterkeyhint", "hidden", "id", "inert", "inputmode",
	"is", "itemid", "itemprop", "itemref", "itemscope", "itemtype", "lang",
	"nonce", "popover", "role", "slot", "spellcheck", "style", "tabindex",
	"title", "translate",
}

// elementAttributes are the element specific attributes, keyed by tag.
var elementAttributes = map[string][]string{
	"a":        {"download", "href", "hreflang", "ping", "referrerpolicy", "rel", "target", "type"},
	"area":     {"alt", "coords", "download", "href", "ping", "referrerpolicy", "rel", "shape", "target"},
	"button":   {"disabled", "form", "formaction", "formenctype", "formmethod", "formnovalidate", "formtarget", "name", "popovertarget", "type", "value"},
	"form":     {"accept-charset", "action", "autocomplete", "enctype", "method", "name", "novalidate", "rel", "target"},
	"iframe":   {"allow", "height", "loading", "name", "referrerpolicy", "sandbox", "src", "srcdoc", "width"},
	"img":      {"alt", "crossorigin", "decoding", "height", "ismap", "loading", "referrerpolicy", "sizes", "src", "srcset", "usemap", "width"},
	"input":    {"accept", "alt", "autocomplete", "checked", "dirname", "disabled", "form", "formaction", "list", "max", "maxlength", "min", "minlength", "multiple", "name", "pattern", "placeholder", "readonly", "required", "size", "src", "step", "type", "value", "width", "height"},
	"label":    {"for"},
	"link":     {"as", "crossorigin", "href", "hreflang", "integrity", "media", "referrerpolicy", "rel", "sizes", "type"},
	"meta":     {"charset", "content", "http-equiv", "name"},
	"optgroup": {"disabled", "label"},
	"option":   {"disabled", "label", "selected", "value"},
	"script":   {"async", "crossorigin", "defer", "integrity", "nomodule", "referrerpolicy", "src", "type"},
	"select":   {"autocomplete", "disabled", "form", "multiple", "name", "required", "size"},
	"td":       {"colspan", "headers", "rowspan"},
	"textarea": {"autocomplete", "cols", "dirname", "disabled", "form", "maxlength", "minlength", "name", "placeholder", "readonly", "required", "rows", "wrap"},
	"th":       {"abbr", "colspan", "headers", "rowspan", "scope"},
	"track":    {"default", "kind", "label", "src", "srclang"},
	"video":    {"autoplay", "controls", "crossorigin", "height", "loop", "muted", "playsinline", "poster", "preload", "src", "width"},
}

// Catalog answers which attribute names are valid for an element. It is read
// only after construction.
type Catalog struct {
	byTag map[string][]string
}

// New returns the built in HTML catalog extended with extra attributes per tag.
func New(extra map[string][]string) *Catalog {
	c := &Catalog{byTag: make(map[string][]string, len(elementAttributes)+len(extra))}
	for tag, attrs := range elementAttributes {
		c.byTag[tag] = attrs
	}
	for tag, attrs := range extra {
		tag = Normalize(tag)
		c.byTag[tag] = append(append([]string(nil), c.byTag[tag]...), attrs...)
	}
	return c
}

// Normalize lower-cases a tag name, using the interned atom spelling for
// tags HTML knows about.
func Normalize(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if a := atom.Lookup([]byte(tag)); a != 0 {
		return a.String()
	}
	return tag
}

// Known reports whether tag is a standard HTML element name.
func Known(tag string) bool {
	return atom.Lookup([]byte(strings.ToLower(strings.TrimSpace(tag)))) != 0
}

// Attributes returns the ordered attribute names for tag: global attributes
// first, then the element's own, without duplicates. An empty or unknown tag
// gets the global set.
func (c *Catalog) Attributes(tag string) []string {
	own := c.byTag[Normalize(tag)]
	out := make([]string, 0, len(globalAttributes)+len(own))
	seen := make(map[string]struct{}, cap(out))
	for _, list := range [][]string{globalAttributes, own} {
		for _, a := range list {
			a = strings.ToLower(a)
			if _, dup := seen[a]; dup {
				continue
			}
			seen[a] = struct{}{}
			out = append(out, a)
		}
	}
	return out
}

// Tags lists the tags that carry element specific attributes, sorted.
func (c *Catalog) Tags() []string {
	tags := make([]string, 0, len(c.byTag))
	for tag := range c.byTag {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// TagOf returns the literal tag a selector locates, or "" when the tag is
// absent or given as a pattern.
func TagOf(sel locator.Selector) string {
	v, ok := sel.Get(locator.KeyTagName)
	if !ok {
		return ""
	}
	switch tag := v.(type) {
	case locator.String:
		return string(tag)
	case locator.Symbol:
		return string(tag)
	}
	return ""
}

// BuilderFor returns a locator.Builder for the element sel locates. An
// explicit element overrides the selector's own tag_name.
func (c *Catalog) BuilderFor(sel locator.Selector, element string, opts ...locator.Option) *locator.Builder {
	if element == "" {
		element = TagOf(sel)
	}
	return locator.NewBuilder(c.Attributes(element), opts...)
}
