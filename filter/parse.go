package filter

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/go-ldap/ldap/v3"
)

// Parse reads an RFC 4515 filter made of AND, OR, NOT, equality and
// presence items. The string is first checked by the LDAP filter compiler;
// valid filters using other item kinds (substrings, ranges, extensible
// matches) are rejected.
func Parse(s string) (Filter, error) {
	if _, err := ldap.CompileFilter(s); err != nil {
		return nil, err
	}

	p := &parser{input: s}
	f, err := p.parse()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.input) {
		return nil, p.errorf("unexpected trailing input")
	}
	return f, nil
}

type parser struct {
	input string
	pos   int
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("filter %q at %d: %s", p.input, p.pos, fmt.Sprintf(format, args...))
}

func (p *parser) expect(c byte) error {
	if p.pos >= len(p.input) || p.input[p.pos] != c {
		return p.errorf("expected %q", c)
	}
	p.pos++
	return nil
}

func (p *parser) parse() (Filter, error) {
	if err := p.expect('('); err != nil {
		return nil, err
	}
	if p.pos >= len(p.input) {
		return nil, p.errorf("unexpected end")
	}

	var (
		f   Filter
		err error
	)
	switch p.input[p.pos] {
	case '&':
		p.pos++
		var children []Filter
		children, err = p.parseList()
		f = conjunction{filters: children}
	case '|':
		p.pos++
		var children []Filter
		children, err = p.parseList()
		f = disjunction{filters: children}
	case '!':
		p.pos++
		var child Filter
		child, err = p.parse()
		f = negation{filter: child}
	default:
		f, err = p.parseItem()
	}
	if err != nil {
		return nil, err
	}

	if err := p.expect(')'); err != nil {
		return nil, err
	}
	return f, nil
}

func (p *parser) parseList() ([]Filter, error) {
	var out []Filter
	for p.pos < len(p.input) && p.input[p.pos] == '(' {
		f, err := p.parse()
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

func (p *parser) parseItem() (Filter, error) {
	end := strings.IndexByte(p.input[p.pos:], ')')
	if end < 0 {
		return nil, p.errorf("unterminated item")
	}
	item := p.input[p.pos : p.pos+end]

	eq := strings.IndexByte(item, '=')
	if eq <= 0 {
		return nil, p.errorf("missing attribute")
	}
	attr, raw := item[:eq], item[eq+1:]
	if strings.ContainsAny(attr[len(attr)-1:], "<>~:") {
		return nil, p.errorf("unsupported match type in %q", item)
	}

	p.pos += end
	if raw == "*" {
		return Present(attr), nil
	}
	if strings.Contains(raw, "*") {
		return nil, p.errorf("substring match %q not supported", item)
	}

	value, err := unescapeValue(raw)
	if err != nil {
		return nil, p.errorf("%v", err)
	}
	return Eq(attr, value), nil
}

func unescapeValue(s string) (string, error) {
	if !strings.Contains(s, `\`) {
		return s, nil
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' {
			b.WriteByte(s[i])
			continue
		}
		if i+2 >= len(s) {
			return "", fmt.Errorf("truncated escape in %q", s)
		}
		decoded, err := hex.DecodeString(s[i+1 : i+3])
		if err != nil {
			return "", fmt.Errorf("invalid escape in %q", s)
		}
		b.Write(decoded)
		i += 2
	}
	return b.String(), nil
}
