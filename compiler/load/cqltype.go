package load

import (
	"fmt"
	"strings"
	"unicode"
)

// TypeExpr is the parsed form of a CQL type string as stored in
// system_schema. It is purely syntactic: deciding whether a bare name
// is a native type or a user-defined type is left to the type registry.
//
//	frozen<map<text, frozen<address>>>
//	  => {Name: frozen, Args: [{Name: map, Args: [{Name: text}, {Name: frozen, Args: [{Name: address}]}]}]}
type TypeExpr struct {
	// Name is the lower-cased type name for unquoted identifiers, or the
	// verbatim name for double-quoted identifiers.
	Name string
	// Args holds the type parameters, if any.
	Args []*TypeExpr
	// Custom is set for single-quoted marshal class names
	// (e.g. 'org.apache.cassandra.db.marshal.DynamicCompositeType').
	Custom bool
	// Literal is set for numeric parameters such as the dimension of vector<float, 3>.
	Literal bool
}

// String returns the canonical CQL form of the expression.
func (e *TypeExpr) String() string {
	var b strings.Builder
	e.write(&b)
	return b.String()
}

func (e *TypeExpr) write(b *strings.Builder) {
	switch {
	case e.Custom:
		b.WriteString("'" + e.Name + "'")
	case e.Literal || isPlainIdent(e.Name):
		b.WriteString(e.Name)
	default:
		b.WriteString(`"` + strings.ReplaceAll(e.Name, `"`, `""`) + `"`)
	}
	if len(e.Args) == 0 {
		return
	}
	b.WriteByte('<')
	for i, a := range e.Args {
		if i > 0 {
			b.WriteString(", ")
		}
		a.write(b)
	}
	b.WriteByte('>')
}

// Unfrozen strips any frozen<> wrappers.
func (e *TypeExpr) Unfrozen() *TypeExpr {
	for e.Name == "frozen" && len(e.Args) == 1 && !e.Custom {
		e = e.Args[0]
	}
	return e
}

// MustParseType is like ParseType but panics on error.
// It is intended for tests and static tables.
func MustParseType(s string) *TypeExpr {
	e, err := ParseType(s)
	if err != nil {
		panic(err)
	}
	return e
}

// ParseType parses a CQL type string.
func ParseType(s string) (*TypeExpr, error) {
	p := &typeParser{src: s}
	e, err := p.parseType()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, p.errorf("unexpected %q", p.src[p.pos:])
	}
	return e, nil
}

type typeParser struct {
	src string
	pos int
}

func (p *typeParser) errorf(format string, args ...any) error {
	return fmt.Errorf("load: parse type %q at offset %d: %s", p.src, p.pos, fmt.Sprintf(format, args...))
}

func (p *typeParser) skipSpace() {
	for p.pos < len(p.src) && unicode.IsSpace(rune(p.src[p.pos])) {
		p.pos++
	}
}

func (p *typeParser) peek() byte {
	if p.pos < len(p.src) {
		return p.src[p.pos]
	}
	return 0
}

func (p *typeParser) parseType() (*TypeExpr, error) {
	p.skipSpace()
	var (
		e   *TypeExpr
		err error
	)
	switch c := p.peek(); {
	case c == 0:
		return nil, p.errorf("unexpected end of input")
	case c == '\'':
		e, err = p.parseCustom()
	case c == '"':
		e, err = p.parseQuoted()
	case c >= '0' && c <= '9':
		e = p.parseLiteral()
	case isIdentStart(c):
		e = p.parseIdent()
	default:
		return nil, p.errorf("unexpected character %q", c)
	}
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.peek() != '<' {
		return e, nil
	}
	if e.Literal || e.Custom {
		return nil, p.errorf("type %s cannot take parameters", e.Name)
	}
	p.pos++
	for {
		arg, err := p.parseType()
		if err != nil {
			return nil, err
		}
		e.Args = append(e.Args, arg)
		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
		case '>':
			p.pos++
			return e, nil
		default:
			return nil, p.errorf("expected ',' or '>'")
		}
	}
}

func (p *typeParser) parseIdent() *TypeExpr {
	start := p.pos
	for p.pos < len(p.src) && isIdentPart(p.src[p.pos]) {
		p.pos++
	}
	return &TypeExpr{Name: strings.ToLower(p.src[start:p.pos])}
}

func (p *typeParser) parseLiteral() *TypeExpr {
	start := p.pos
	for p.pos < len(p.src) && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
		p.pos++
	}
	return &TypeExpr{Name: p.src[start:p.pos], Literal: true}
}

// parseQuoted reads a double-quoted, case-sensitive identifier.
// An embedded quote is escaped by doubling it.
func (p *typeParser) parseQuoted() (*TypeExpr, error) {
	name, err := p.readDelimited('"')
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, p.errorf("empty quoted identifier")
	}
	return &TypeExpr{Name: name}, nil
}

func (p *typeParser) parseCustom() (*TypeExpr, error) {
	name, err := p.readDelimited('\'')
	if err != nil {
		return nil, err
	}
	return &TypeExpr{Name: name, Custom: true}, nil
}

func (p *typeParser) readDelimited(q byte) (string, error) {
	p.pos++
	var b strings.Builder
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		p.pos++
		if c != q {
			b.WriteByte(c)
			continue
		}
		if p.peek() == q {
			b.WriteByte(q)
			p.pos++
			continue
		}
		return b.String(), nil
	}
	return "", p.errorf("unterminated %c", q)
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

// isPlainIdent reports if s can be written without double quotes,
// i.e. it is a lower-case unquoted CQL identifier.
func isPlainIdent(s string) bool {
	if s == "" || !isIdentStart(s[0]) {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isIdentPart(s[i]) || (s[i] >= 'A' && s[i] <= 'Z') {
			return false
		}
	}
	return true
}
