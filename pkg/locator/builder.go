// File: pkg/locator/builder.go

// Package locator compiles declarative element selectors into XPath. What
// XPath 1.0 cannot express exactly (visibility, visible text, most regular
// expressions) is returned as residual entries for the caller to check
// against live elements.
package locator

import (
	"strings"

	"go.uber.org/zap"
)

// Kind names the primary filter of a compiled result.
type Kind string

const (
	KindXPath Kind = KeyXPath
	KindCSS   Kind = KeyCSS
)

// Result is a compiled selector: one primary expression plus the residual
// entries the evaluator must still check against every candidate.
type Result struct {
	Kind       Kind
	Expression string
	Residual   Selector
}

// Selector renders the result in the same flat form as its input, primary
// key first.
func (r *Result) Selector() Selector {
	out := make(Selector, 0, len(r.Residual)+1)
	out = append(out, Entry{Key: string(r.Kind), Value: String(r.Expression)})
	return append(out, r.Residual...)
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger used for debug and deprecation messages.
func WithLogger(logger *zap.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// Builder compiles selectors for one kind of element. It holds no mutable
// state and may be shared between goroutines.
type Builder struct {
	attributes map[string]struct{}
	logger     *zap.Logger
}

// NewBuilder returns a Builder for an element whose valid attribute names are
// attributes.
func NewBuilder(attributes []string, opts ...Option) *Builder {
	b := &Builder{
		attributes: make(map[string]struct{}, len(attributes)),
		logger:     zap.NewNop(),
	}
	for _, a := range attributes {
		b.attributes[strings.ToLower(a)] = struct{}{}
	}
	for _, opt := range opts {
		opt(b)
	}
	b.logger = b.logger.Named("locator")
	return b
}

// Build validates sel and compiles it.
func (b *Builder) Build(sel Selector) (*Result, error) {
	if err := Validate(sel); err != nil {
		b.logger.Debug("Selector rejected", zap.String("selector", sel.Inspect()), zap.Error(err))
		return nil, err
	}

	if res, ok := passthrough(sel); ok {
		return res, nil
	}

	c := &compilation{
		builder:     b,
		sel:         sel,
		residual:    make(map[string]Value),
		allowPrefix: !sel.Has(KeyVisible) && !sel.Has(KeyVisibleText),
	}
	expr := c.compile()
	return &Result{Kind: KindXPath, Expression: expr, Residual: c.collect()}, nil
}

// passthrough handles raw xpath or css: the expression is used as given and
// every other entry is handed back untouched.
func passthrough(sel Selector) (*Result, bool) {
	for i, e := range sel {
		key := CanonicalKey(e.Key)
		if !isRawKey(key) {
			continue
		}
		rest := make(Selector, 0, len(sel)-1)
		rest = append(rest, sel[:i]...)
		rest = append(rest, sel[i+1:]...)
		return &Result{Kind: Kind(key), Expression: string(e.Value.(String)), Residual: rest}, true
	}
	return nil, false
}

// compilation is the state of a single Build call.
type compilation struct {
	builder     *Builder
	sel         Selector
	residual    map[string]Value
	allowPrefix bool
}

func (c *compilation) compile() string {
	x := &expression{step: startStep}
	dir, adjacent := c.sel.Get(KeyAdjacent)
	if adjacent {
		x.step = directions[dir.(Symbol)]
	}

	x.add(c.tagName())
	x.add(c.classes()...)
	x.add(c.labelAssociation())
	x.add(c.text())
	x.add(c.attributes()...)

	for _, key := range []string{KeyVisible, KeyVisibleText} {
		if v, ok := c.sel.Get(key); ok {
			c.residual[key] = v
		}
	}

	index := 0
	if v, ok := c.sel.Get(KeyIndex); ok {
		index = int(v.(Int))
	}
	if adjacent {
		return x.String() + "[" + indexPredicate(index) + "]"
	}
	if index == 0 {
		return x.String()
	}
	return "(" + x.String() + ")[" + indexPredicate(index) + "]"
}

func (c *compilation) tagName() string {
	v, ok := c.sel.Get(KeyTagName)
	if !ok {
		return ""
	}
	switch tag := v.(type) {
	case String:
		return "local-name()=" + xpathLiteral(string(tag))
	case Symbol:
		return "local-name()=" + xpathLiteral(string(tag))
	case Pattern:
		return c.lower(KeyTagName, tag, target{expr: "local-name()", prefix: c.allowPrefix})
	}
	return ""
}

// classes merges class and class_name, in selector order, into one list of
// tests.
func (c *compilation) classes() []string {
	var (
		terms  []string
		approx List
	)
	for _, e := range c.sel {
		key := CanonicalKey(e.Key)
		if key != KeyClass && key != KeyClassName {
			continue
		}
		items, ok := e.Value.(List)
		if !ok {
			items = List{e.Value}
		}
		for _, item := range items {
			switch v := item.(type) {
			case String:
				if name, negated := strings.CutPrefix(string(v), "!"); negated {
					terms = append(terms, "not("+classContains(name)+")")
				} else {
					terms = append(terms, classContains(string(v)))
				}
			case Not:
				terms = append(terms, "not("+classContains(string(v))+")")
			case Bool:
				if v {
					terms = append(terms, "@class")
				} else {
					terms = append(terms, "not(@class)")
				}
			case Pattern:
				// Class patterns are matched against each token.
				lw := lowerPattern(v, target{expr: "@class", spaced: true})
				terms = append(terms, lw.predicate)
				if !lw.exact {
					approx = append(approx, v)
				}
			}
		}
	}
	if len(approx) > 0 {
		c.builder.logger.Debug("Class pattern lowered approximately", zap.String("patterns", approx.Inspect()))
		c.residual[KeyClass] = approx
	}
	return terms
}

// labelIsAttribute reports whether label names an attribute of the element
// rather than the text of an associated label element.
func (c *compilation) labelIsAttribute() bool {
	_, ok := c.builder.attributes[KeyLabel]
	return ok
}

func (c *compilation) labelAssociation() string {
	v, ok := c.sel.Get(KeyLabel)
	if !ok || c.labelIsAttribute() {
		return ""
	}
	switch label := v.(type) {
	case String:
		return labelAssociation("normalize-space()=" + xpathLiteral(string(label)))
	case Pattern:
		return labelAssociation(c.lower(KeyLabel, label, target{expr: "normalize-space()", spaced: true}))
	}
	return ""
}

func (c *compilation) text() string {
	for _, key := range []string{KeyText, KeyCaption} {
		v, ok := c.sel.Get(key)
		if !ok {
			continue
		}
		if key == KeyCaption {
			c.builder.logger.Warn("The caption locator is deprecated; use text instead")
		}
		switch text := v.(type) {
		case String:
			return "normalize-space()=" + xpathLiteral(string(text))
		case Pattern:
			// Free text cannot be approximated without false negatives
			// (text spans descendants), so the whole check is residual.
			c.residual[KeyText] = text
		}
		return ""
	}
	return ""
}

// attributes compiles generic attribute entries, and label when the element
// has a label attribute, into one group in selector order.
func (c *compilation) attributes() []string {
	var terms []string
	for _, e := range c.sel {
		key := CanonicalKey(e.Key)
		name := e.Key
		if _, recognized := recognizedKeys[key]; recognized {
			if key != KeyLabel || !c.labelIsAttribute() {
				continue
			}
			name = key
		}
		terms = append(terms, c.attribute(name, e.Value))
	}
	return terms
}

func (c *compilation) attribute(name string, v Value) string {
	tgt := target{expr: "@" + name, prefix: c.allowPrefix}
	if strings.EqualFold(name, "href") {
		tgt = target{expr: "normalize-space(@" + name + ")", spaced: true}
	}
	switch val := v.(type) {
	case Bool:
		if val {
			return "@" + name
		}
		return "not(@" + name + ")"
	case String:
		return tgt.expr + "=" + xpathLiteral(string(val))
	case Pattern:
		return c.lower(name, val, tgt)
	}
	return ""
}

// lower runs the regex translator and records the pattern as residual when
// the lowering only over-selects.
func (c *compilation) lower(key string, p Pattern, t target) string {
	lw := lowerPattern(p, t)
	if !lw.exact {
		c.builder.logger.Debug("Pattern lowered approximately",
			zap.String("key", key), zap.String("pattern", p.Inspect()), zap.String("xpath", lw.predicate))
		c.residual[key] = p
	}
	return lw.predicate
}

// collect orders the residual entries by where their key first appears in
// the selector.
func (c *compilation) collect() Selector {
	var out Selector
	for _, e := range c.sel {
		key := CanonicalKey(e.Key)
		switch key {
		case KeyClassName:
			key = KeyClass
		case KeyCaption:
			key = KeyText
		}
		v, ok := c.residual[key]
		if !ok {
			continue
		}
		out = append(out, Entry{Key: key, Value: v})
		delete(c.residual, key)
	}
	return out
}
