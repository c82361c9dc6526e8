package sidebar

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
)

const (
	jsHeader = "/** @type {import('@docusaurus/plugin-content-docs').SidebarsConfig} */\nconst sidebars = "
	jsFooter = ";\n\nmodule.exports = sidebars;\n"
)

var jsIdentRegex = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// EncodeJS writes cfg as a sidebars.js module that Docusaurus loads directly.
// The layout matches what prettier produces for hand-written sidebars:
// two-space indent, single quotes, trailing commas.
func EncodeJS(w io.Writer, cfg Config) error {
	jw := &jsWriter{}
	jw.buf.WriteString(jsHeader)
	jw.buf.WriteString("{\n")
	for _, sb := range cfg.Sidebars {
		jw.indent(1)
		jw.key(sb.Name)
		jw.buf.WriteString(": ")
		if err := jw.items(sb.Items, 1); err != nil {
			return fmt.Errorf("sidebar %q: %w", sb.Name, err)
		}
		jw.buf.WriteString(",\n")
	}
	jw.buf.WriteString("}")
	jw.buf.WriteString(jsFooter)

	_, err := w.Write(jw.buf.Bytes())
	return err
}

type jsWriter struct {
	buf bytes.Buffer
}

type jsField struct {
	key   string
	write func(level int) error
}

func (jw *jsWriter) indent(level int) {
	jw.buf.WriteString(strings.Repeat("  ", level))
}

func (jw *jsWriter) key(k string) {
	if jsIdentRegex.MatchString(k) {
		jw.buf.WriteString(k)
		return
	}
	jw.str(k)
}

func (jw *jsWriter) str(s string) {
	jw.buf.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\\':
			jw.buf.WriteString(`\\`)
		case '\'':
			jw.buf.WriteString(`\'`)
		case '\n':
			jw.buf.WriteString(`\n`)
		case '\r':
			jw.buf.WriteString(`\r`)
		case '\t':
			jw.buf.WriteString(`\t`)
		case '\u2028', '\u2029':
			fmt.Fprintf(&jw.buf, `\u%04x`, r)
		default:
			jw.buf.WriteRune(r)
		}
	}
	jw.buf.WriteByte('\'')
}

func (jw *jsWriter) strField(key, value string) jsField {
	return jsField{key: key, write: func(int) error {
		jw.str(value)
		return nil
	}}
}

func (jw *jsWriter) boolField(key string, value bool) jsField {
	return jsField{key: key, write: func(int) error {
		fmt.Fprintf(&jw.buf, "%t", value)
		return nil
	}}
}

// rawField writes a JSON value as a JS literal.
func (jw *jsWriter) rawField(key string, value json.RawMessage) jsField {
	return jsField{key: key, write: func(level int) error {
		return jw.raw(value, level)
	}}
}

func (jw *jsWriter) raw(value json.RawMessage, level int) error {
	value = bytes.TrimSpace(value)
	if len(value) == 0 {
		return errors.New("empty value")
	}
	switch value[0] {
	case '{':
		var fields []jsField
		err := decodeOrderedObject(value, func(key string, member json.RawMessage) error {
			fields = append(fields, jw.rawField(key, member))
			return nil
		})
		if err != nil {
			return err
		}
		return jw.object(fields, level)
	case '[':
		var elems []json.RawMessage
		if err := json.Unmarshal(value, &elems); err != nil {
			return err
		}
		if len(elems) == 0 {
			jw.buf.WriteString("[]")
			return nil
		}
		jw.buf.WriteString("[\n")
		for _, elem := range elems {
			jw.indent(level + 1)
			if err := jw.raw(elem, level+1); err != nil {
				return err
			}
			jw.buf.WriteString(",\n")
		}
		jw.indent(level)
		jw.buf.WriteString("]")
		return nil
	case '"':
		var str string
		if err := json.Unmarshal(value, &str); err != nil {
			return err
		}
		jw.str(str)
		return nil
	default:
		if !json.Valid(value) {
			return fmt.Errorf("invalid value %s", truncate(value))
		}
		jw.buf.Write(value)
		return nil
	}
}

func (jw *jsWriter) object(fields []jsField, level int) error {
	if len(fields) == 0 {
		jw.buf.WriteString("{}")
		return nil
	}
	jw.buf.WriteString("{\n")
	for _, f := range fields {
		jw.indent(level + 1)
		jw.key(f.key)
		jw.buf.WriteString(": ")
		if err := f.write(level + 1); err != nil {
			return err
		}
		jw.buf.WriteString(",\n")
	}
	jw.indent(level)
	jw.buf.WriteString("}")
	return nil
}

func (jw *jsWriter) items(items []Item, level int) error {
	if len(items) == 0 {
		jw.buf.WriteString("[]")
		return nil
	}
	jw.buf.WriteString("[\n")
	for _, it := range items {
		jw.indent(level + 1)
		if err := jw.item(it, level+1); err != nil {
			return err
		}
		jw.buf.WriteString(",\n")
	}
	jw.indent(level)
	jw.buf.WriteString("]")
	return nil
}

func (jw *jsWriter) item(it Item, level int) error {
	var fields []jsField
	switch it.Type {
	case TypeDoc:
		if it.Label == "" && len(it.Extra) == 0 {
			jw.str(it.ID)
			return nil
		}
		fields = []jsField{
			jw.strField("type", string(TypeDoc)),
			jw.strField("id", it.ID),
		}
		if it.Label != "" {
			fields = append(fields, jw.strField("label", it.Label))
		}
	case TypeCategory:
		fields = []jsField{
			jw.strField("type", string(TypeCategory)),
			jw.strField("label", it.Label),
		}
		if it.Collapsible != nil {
			fields = append(fields, jw.boolField("collapsible", *it.Collapsible))
		}
		if it.Collapsed != nil {
			fields = append(fields, jw.boolField("collapsed", *it.Collapsed))
		}
		if it.Link != nil {
			link := it.Link
			fields = append(fields, jsField{key: "link", write: func(l int) error {
				return jw.object(jw.linkFields(link), l)
			}})
		}
		children := it.Items
		fields = append(fields, jsField{key: "items", write: func(l int) error {
			return jw.items(children, l)
		}})
	case TypeLink:
		fields = []jsField{
			jw.strField("type", string(TypeLink)),
			jw.strField("label", it.Label),
			jw.strField("href", it.Href),
		}
	case TypeAutogenerated:
		fields = []jsField{
			jw.strField("type", string(TypeAutogenerated)),
			jw.strField("dirName", it.DirName),
		}
	case TypeHTML:
		fields = []jsField{
			jw.strField("type", string(TypeHTML)),
			jw.strField("value", it.Value),
		}
	case TypeRef:
		fields = []jsField{
			jw.strField("type", string(TypeRef)),
			jw.strField("id", it.ID),
		}
		if it.Label != "" {
			fields = append(fields, jw.strField("label", it.Label))
		}
	default:
		return fmt.Errorf("unknown sidebar item type %q", it.Type)
	}

	if err := it.checkExtra(); err != nil {
		return err
	}
	for _, p := range it.Extra {
		fields = append(fields, jw.rawField(p.Key, p.Value))
	}
	return jw.object(fields, level)
}

func (jw *jsWriter) linkFields(link *CategoryLink) []jsField {
	fields := []jsField{jw.strField("type", link.Type)}
	if link.ID != "" {
		fields = append(fields, jw.strField("id", link.ID))
	}
	if link.Title != "" {
		fields = append(fields, jw.strField("title", link.Title))
	}
	if link.Description != "" {
		fields = append(fields, jw.strField("description", link.Description))
	}
	if link.Slug != "" {
		fields = append(fields, jw.strField("slug", link.Slug))
	}
	if len(link.Keywords) > 0 {
		keywords, _ := json.Marshal(link.Keywords)
		fields = append(fields, jw.rawField("keywords", keywords))
	}
	if link.Image != "" {
		fields = append(fields, jw.strField("image", link.Image))
	}
	return fields
}

// DecodeJS reads a sidebars.js module. Only the literal subset sidebar
// files are written in is understood: const/let/var bindings of object and
// array literals, string/number/boolean values, references to earlier
// bindings, comments, type-only imports, and a final `module.exports = ...` or
// `export default ...`. Anything computed at runtime is rejected.
func DecodeJS(r io.Reader) (Config, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return Config{}, fmt.Errorf("read sidebars module: %w", err)
	}

	toks, err := lexJS(string(src))
	if err != nil {
		return Config{}, err
	}

	p := &jsParser{toks: toks, bindings: make(map[string][]byte)}
	exported, err := p.program()
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := json.Unmarshal(exported, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode exported sidebars: %w", err)
	}
	return cfg, nil
}

// jsParser converts the exported literal into JSON text, which preserves
// key order for the JSON decoder.
type jsParser struct {
	toks     []jsToken
	pos      int
	bindings map[string][]byte
}

func (p *jsParser) peek() jsToken { return p.toks[p.pos] }

func (p *jsParser) next() jsToken {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *jsParser) acceptPunct(c byte) bool {
	t := p.peek()
	if t.kind == tokPunct && t.text[0] == c {
		p.pos++
		return true
	}
	return false
}

func (p *jsParser) expectPunct(c byte) error {
	if p.acceptPunct(c) {
		return nil
	}
	t := p.peek()
	return t.errorf("expected %q, found %s", c, t)
}

func (p *jsParser) expectIdent() (string, error) {
	t := p.next()
	if t.kind != tokIdent {
		return "", t.errorf("expected identifier, found %s", t)
	}
	return t.text, nil
}

func (p *jsParser) skipTypeName() error {
	if _, err := p.expectIdent(); err != nil {
		return err
	}
	for p.acceptPunct('.') {
		if _, err := p.expectIdent(); err != nil {
			return err
		}
	}
	return nil
}

func (p *jsParser) program() ([]byte, error) {
	var exported []byte

	for p.peek().kind != tokEOF {
		if p.acceptPunct(';') {
			continue
		}

		t := p.next()
		if t.kind != tokIdent {
			return nil, t.errorf("unexpected %s at top level", t)
		}

		switch t.text {
		case "const", "let", "var":
			name, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			if p.acceptPunct(':') {
				// sidebars.ts: `const sidebars: SidebarsConfig = {...}`
				if err := p.skipTypeName(); err != nil {
					return nil, err
				}
			}
			if err := p.expectPunct('='); err != nil {
				return nil, err
			}
			v, err := p.value()
			if err != nil {
				return nil, err
			}
			p.bindings[name] = v
		case "import":
			// type imports in sidebars.ts; the module specifier ends the statement
			for {
				tok := p.next()
				if tok.kind == tokEOF {
					return nil, tok.errorf("unterminated import")
				}
				if tok.kind == tokString {
					break
				}
			}
		case "module":
			if err := p.expectPunct('.'); err != nil {
				return nil, err
			}
			prop, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			if prop != "exports" {
				return nil, t.errorf("expected module.exports, found module.%s", prop)
			}
			if err := p.expectPunct('='); err != nil {
				return nil, err
			}
			if exported, err = p.value(); err != nil {
				return nil, err
			}
		case "export":
			kw, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			if kw != "default" {
				return nil, t.errorf("only `export default` is supported, found export %s", kw)
			}
			if exported, err = p.value(); err != nil {
				return nil, err
			}
		default:
			return nil, t.errorf("unsupported statement starting with %s", t)
		}
	}

	if exported == nil {
		return nil, errors.New("sidebars module has no module.exports or export default")
	}
	return exported, nil
}

func (p *jsParser) value() ([]byte, error) {
	t := p.next()
	switch t.kind {
	case tokString:
		return json.Marshal(t.text)
	case tokNumber:
		return []byte(t.text), nil
	case tokIdent:
		switch t.text {
		case "true", "false", "null":
			return []byte(t.text), nil
		case "undefined":
			return []byte("null"), nil
		}
		if v, ok := p.bindings[t.text]; ok {
			return v, nil
		}
		return nil, t.errorf("unknown identifier %s", t.text)
	case tokPunct:
		switch t.text[0] {
		case '{':
			return p.object()
		case '[':
			return p.array()
		}
	}
	return nil, t.errorf("unexpected %s, expected a value", t)
}

func (p *jsParser) object() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for {
		if p.acceptPunct('}') {
			break
		}

		t := p.next()
		var key string
		switch t.kind {
		case tokIdent, tokString, tokNumber:
			key = t.text
		default:
			return nil, t.errorf("expected property name, found %s", t)
		}
		if err := p.expectPunct(':'); err != nil {
			return nil, err
		}
		v, err := p.value()
		if err != nil {
			return nil, err
		}

		if !first {
			buf.WriteByte(',')
		}
		first = false
		k, _ := json.Marshal(key)
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)

		if !p.acceptPunct(',') {
			if err := p.expectPunct('}'); err != nil {
				return nil, err
			}
			break
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (p *jsParser) array() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	first := true
	for {
		if p.acceptPunct(']') {
			break
		}

		v, err := p.value()
		if err != nil {
			return nil, err
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		buf.Write(v)

		if !p.acceptPunct(',') {
			if err := p.expectPunct(']'); err != nil {
				return nil, err
			}
			break
		}
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}
