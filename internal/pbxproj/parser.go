package pbxproj

// Span is a half-open byte range [Start, End) into the manifest text.
type Span struct {
	Start int
	End   int
}

// Node is a value in the property-list tree.
type Node interface {
	Span() Span
}

// String is a scalar value. Identifier references are strings whose
// Comment holds the name Xcode writes next to them.
type String struct {
	Value   string
	Quoted  bool
	Comment string
	span    Span
}

// Span implements Node.
func (s *String) Span() Span { return s.span }

// Array is an ordered list. Close is the offset of the closing ')'.
type Array struct {
	Items []Node
	Close int
	span  Span
}

// Span implements Node.
func (a *Array) Span() Span { return a.span }

// Strings returns the scalar items of the array, skipping nested values.
func (a *Array) Strings() []string {
	out := make([]string, 0, len(a.Items))
	for _, item := range a.Items {
		if s, ok := item.(*String); ok {
			out = append(out, s.Value)
		}
	}
	return out
}

// Entry is one `key = value;` pair. Its span runs from the key through the ';'.
type Entry struct {
	Key   *String
	Value Node
	Span  Span
}

// Dict is an ordered key/value mapping. Close is the offset of the closing '}'.
type Dict struct {
	Entries []*Entry
	Close   int
	index   map[string]int
	span    Span
}

// Span implements Node.
func (d *Dict) Span() Span { return d.span }

// Get returns the value stored under key.
func (d *Dict) Get(key string) (Node, bool) {
	i, ok := d.index[key]
	if !ok {
		return nil, false
	}
	return d.Entries[i].Value, true
}

// Scalar returns the scalar value under key, or "" when absent or not a scalar.
func (d *Dict) Scalar(key string) string {
	v, ok := d.Get(key)
	if !ok {
		return ""
	}
	if s, ok := v.(*String); ok {
		return s.Value
	}
	return ""
}

// Array returns the array stored under key.
func (d *Dict) Array(key string) (*Array, bool) {
	v, ok := d.Get(key)
	if !ok {
		return nil, false
	}
	a, ok := v.(*Array)
	return a, ok
}

// Dict returns the dictionary stored under key.
func (d *Dict) Dict(key string) (*Dict, bool) {
	v, ok := d.Get(key)
	if !ok {
		return nil, false
	}
	sub, ok := v.(*Dict)
	return sub, ok
}

type parser struct {
	lex *lexer
	tok token
}

// parseTree parses a complete property list and returns its root dictionary
// together with every comment seen in the input.
func parseTree(data []byte) (*Dict, []comment, error) {
	p := &parser{lex: newLexer(data)}
	if err := p.advance(); err != nil {
		return nil, nil, err
	}
	if p.tok.kind != tokLBrace {
		return nil, nil, p.errorf("expected root dictionary, got %s", p.tok.kind)
	}
	root, err := p.parseDict()
	if err != nil {
		return nil, nil, err
	}
	if p.tok.kind != tokEOF {
		return nil, nil, p.errorf("unexpected %s after root dictionary", p.tok.kind)
	}
	return root, p.lex.comments, nil
}

func (p *parser) advance() error {
	tok, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *parser) errorf(format string, args ...any) error {
	return p.lex.errorf(p.tok.start, format, args...)
}

func (p *parser) expect(kind tokenKind) (token, error) {
	tok := p.tok
	if tok.kind != kind {
		return tok, p.errorf("expected %s, got %s", kind, tok.kind)
	}
	return tok, p.advance()
}

func (p *parser) parseValue() (Node, error) {
	switch p.tok.kind {
	case tokLBrace:
		return p.parseDict()
	case tokLParen:
		return p.parseArray()
	case tokString:
		tok := p.tok
		s := &String{Value: tok.text, Quoted: tok.quoted, Comment: tok.comment, span: Span{Start: tok.start, End: tok.end}}
		return s, p.advance()
	}
	return nil, p.errorf("expected value, got %s", p.tok.kind)
}

func (p *parser) parseDict() (*Dict, error) {
	open, err := p.expect(tokLBrace)
	if err != nil {
		return nil, err
	}
	d := &Dict{index: make(map[string]int)}
	for p.tok.kind != tokRBrace {
		if p.tok.kind != tokString {
			return nil, p.errorf("expected key, got %s", p.tok.kind)
		}
		keyTok := p.tok
		key := &String{Value: keyTok.text, Quoted: keyTok.quoted, Comment: keyTok.comment, span: Span{Start: keyTok.start, End: keyTok.end}}
		if err := p.advance(); err != nil {
			return nil, err
		}
		if _, err := p.expect(tokEquals); err != nil {
			return nil, err
		}
		value, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		semi, err := p.expect(tokSemicolon)
		if err != nil {
			return nil, err
		}
		d.index[key.Value] = len(d.Entries)
		d.Entries = append(d.Entries, &Entry{Key: key, Value: value, Span: Span{Start: keyTok.start, End: semi.end}})
	}
	d.Close = p.tok.start
	d.span = Span{Start: open.start, End: p.tok.end}
	return d, p.advance()
}

func (p *parser) parseArray() (*Array, error) {
	open, err := p.expect(tokLParen)
	if err != nil {
		return nil, err
	}
	a := &Array{}
	for p.tok.kind != tokRParen {
		item, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		a.Items = append(a.Items, item)
		if p.tok.kind == tokComma {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		if p.tok.kind != tokRParen {
			return nil, p.errorf("expected ',' or ')', got %s", p.tok.kind)
		}
	}
	a.Close = p.tok.start
	a.span = Span{Start: open.start, End: p.tok.end}
	return a, p.advance()
}
