package pattern

import "strings"

// ParseDocument parses prepared document lines in order. A line of the form
// "@name = value" defines a variable; every other line is an expression.
//
// Variables are macros: every @name reference is replaced by the variable's
// text before the line is parsed, so a suffix such as "?" or "{2}" written
// after a reference applies to the last element of the value. A variable can
// only refer to variables defined on earlier lines, and a name cannot be
// defined twice, so reference cycles cannot be written.
func ParseDocument(lines []Line) (*Document, error) {
	doc := &Document{Arena: &Arena{}}

	for _, ln := range lines {
		stmt := splitStatement(ln)

		if !stmt.definition {
			d, err := parseDomain(ln, doc.Arena, doc.Env)
			if err != nil {
				return nil, err
			}

			doc.Domains = append(doc.Domains, d)

			continue
		}

		def, err := parseDefinition(ln, stmt, doc.Arena, doc.Env)
		if err != nil {
			return nil, err
		}

		doc.Variables = append(doc.Variables, def)
		doc.Env = doc.Env.With(def.Name, def.Text)
	}

	return doc, nil
}

func parseDefinition(ln Line, stmt statement, arena *Arena, env *Env) (VariableDef, error) {
	name := strings.ToLower(stmt.name)

	if _, exists := env.Lookup(name); exists {
		return VariableDef{}, &ParseError{
			Msg:    "@" + name + " is already defined",
			Line:   ln.Number,
			Offset: 0,
			Err:    ErrDuplicateVariable,
		}
	}

	p, err := newParser(Line{Number: ln.Number, Text: stmt.value}, stmt.valueOffset, arena, env)
	if err != nil {
		return VariableDef{}, err
	}

	// The value is parsed once on its own so errors are reported here rather
	// than at every use.
	body, err := p.parseSequence("variable value")
	if err != nil {
		return VariableDef{}, err
	}

	if !p.eof() {
		return VariableDef{}, p.unexpected()
	}

	return VariableDef{
		Name:   name,
		Line:   ln.Number,
		Source: stmt.value,
		Text:   string(p.src),
		Refs:   p.refs,
		Body:   body,
	}, nil
}
