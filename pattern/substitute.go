package pattern

import "strings"

// MaxStatementLength caps the length of a statement after variable
// substitution, in runes.
const MaxStatementLength = 1 << 16

// substitution is a statement with every @name reference replaced by the
// text of the variable. origin maps each rune of text to its column in the
// written line; origin[len(text)] is the column just past the statement.
type substitution struct {
	text   []rune
	origin []int
	refs   []VarRef
}

// substitute replaces references in ln.Text with their values from env.
// Values are stored already substituted, so one pass is enough. base is the
// column of ln.Text inside the written line.
func substitute(ln Line, base int, env *Env) (substitution, error) {
	src := []rune(ln.Text)
	sub := substitution{
		text:   make([]rune, 0, len(src)),
		origin: make([]int, 0, len(src)+1),
	}

	for i := 0; i < len(src); {
		if src[i] != '@' {
			sub.text = append(sub.text, src[i])
			sub.origin = append(sub.origin, base+i)
			i++

			continue
		}

		start := i
		i++

		for i < len(src) && isLiteralRune(src[i]) {
			i++
		}

		if i == start+1 {
			return substitution{}, refError(ln, base+start, ErrSyntax, "missing variable name after '@'")
		}

		name := string(src[start+1 : i])

		value, ok := env.Lookup(name)
		if !ok {
			return substitution{}, refError(ln, base+start, ErrUndefinedVariable, "@"+name+" is not defined")
		}

		sub.refs = append(sub.refs, VarRef{Offset: base + start, Name: strings.ToLower(name)})

		for _, r := range value {
			sub.text = append(sub.text, r)
			sub.origin = append(sub.origin, base+start)
		}

		if len(sub.text) > MaxStatementLength {
			return substitution{}, refError(ln, base+start, ErrStatementTooLong, "substituting @"+name+" makes the statement too long")
		}
	}

	sub.origin = append(sub.origin, base+len(src))

	return sub, nil
}

func refError(ln Line, offset int, kind error, msg string) *ParseError {
	return &ParseError{Msg: msg, Line: ln.Number, Offset: offset, Err: kind}
}
