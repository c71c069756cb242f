package pattern

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	pc "github.com/shibukawa/parsercombinator"
	"github.com/stretchr/testify/assert"
)

func lines(texts ...string) []Line {
	result := make([]Line, len(texts))
	for i, text := range texts {
		result[i] = Line{Number: i + 1, Text: text}
	}

	return result
}

func TestParseDocument(t *testing.T) {
	doc, err := ParseDocument(lines(
		"@tlds = {com,net}",
		"a.@tlds",
		"@short=[:c:][:v:]",
		"@short.@tlds",
	))
	if !assert.NoError(t, err) {
		return
	}

	assert.Equal(t, 2, len(doc.Variables))
	assert.Equal(t, "tlds", doc.Variables[0].Name)
	assert.Equal(t, "{com,net}", doc.Variables[0].Source)
	assert.Equal(t, 1, doc.Variables[0].Line)
	assert.Equal(t, "short", doc.Variables[1].Name)
	assert.Equal(t, []string{"tlds", "short"}, doc.Env.Names())

	if !assert.Equal(t, 2, len(doc.Domains)) {
		return
	}

	first := doc.Domains[0]
	assert.Equal(t, 2, first.Line)
	assert.True(t, first.Arena == doc.Arena)

	_, ok := first.Env.Lookup("short")
	assert.False(t, ok, "a domain only sees variables defined before it")

	_, ok = doc.Domains[1].Env.Lookup("short")
	assert.True(t, ok)

	assert.Equal(t, "a.@tlds", first.Source)
	assert.Equal(t, []VarRef{{Offset: 2, Name: "tlds"}}, first.Refs)
	assert.Equal(t, []VarRef{{Offset: 0, Name: "short"}, {Offset: 7, Name: "tlds"}}, doc.Domains[1].Refs)

	seq := doc.Arena.Node(first.Labels[1].Body).(Sequence)
	alt, ok := doc.Arena.Node(seq.Elements[0].Primary).(Alternation)
	assert.True(t, ok)
	assert.Equal(t, 2, len(alt.Options))
	assert.Equal(t, 2, alt.Offset, "substituted nodes report the column of the reference")
}

func TestParseDocument_Errors(t *testing.T) {
	tests := []struct {
		name   string
		lines  []Line
		kind   error
		line   int
		offset int
	}{
		{
			name:   "redefinition",
			lines:  lines("@x = a", "@x = b"),
			kind:   ErrDuplicateVariable,
			line:   2,
			offset: 0,
		},
		{
			name:   "forward reference",
			lines:  lines("@a = @b", "@b = c"),
			kind:   ErrUndefinedVariable,
			line:   1,
			offset: 5,
		},
		{
			name:   "self reference",
			lines:  lines("@a = x@a"),
			kind:   ErrUndefinedVariable,
			line:   1,
			offset: 6,
		},
		{
			name:   "use before definition",
			lines:  lines("a.@x", "@x = com"),
			kind:   ErrUndefinedVariable,
			line:   1,
			offset: 2,
		},
		{
			name:   "dot in value",
			lines:  lines("@x = a.b"),
			kind:   ErrSyntax,
			line:   1,
			offset: 6,
		},
		{
			name:   "empty value",
			lines:  lines("@x ="),
			kind:   ErrSyntax,
			line:   1,
			offset: 4,
		},
		{
			name:   "error inside value",
			lines:  lines("@x = [z-a]"),
			kind:   ErrSyntax,
			line:   1,
			offset: 6,
		},
		{
			name:   "variable makes label empty",
			lines:  lines("@s = (s)?", "@s.com"),
			kind:   ErrEmptyLabel,
			line:   2,
			offset: 0,
		},
		{
			name:   "expression error keeps line",
			lines:  []Line{{Number: 1, Text: "@x = a"}, {Number: 3, Text: "b .com"}},
			kind:   ErrWhitespace,
			line:   3,
			offset: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDocument(tt.lines)
			if !assert.Error(t, err) {
				return
			}

			assert.True(t, errors.Is(err, tt.kind), "got %v", err)

			var perr *ParseError
			if assert.True(t, errors.As(err, &perr)) {
				assert.Equal(t, tt.line, perr.Line)
				assert.Equal(t, tt.offset, perr.Offset)
			}
		})
	}
}

func TestParseDocument_Substitution(t *testing.T) {
	doc, err := ParseDocument(lines(
		"@v = a[b]",
		"@pair = @v@v",
		"x@v?.com",
		"@v?.com",
		"@s = (s)?",
		"car@s.com",
	))
	if !assert.NoError(t, err) {
		return
	}

	assert.Equal(t, "@v@v", doc.Variables[1].Source)
	assert.Equal(t, "a[b]a[b]", doc.Variables[1].Text)
	assert.Equal(t, []VarRef{{Offset: 8, Name: "v"}, {Offset: 10, Name: "v"}}, doc.Variables[1].Refs)

	pair, ok := doc.Env.Lookup("pair")
	assert.True(t, ok)
	assert.Equal(t, "a[b]a[b]", pair)

	if !assert.Equal(t, 3, len(doc.Domains)) {
		return
	}

	// "x@v?" reads as "xa[b]?": the suffix binds to the class, not the value.
	seq := doc.Arena.Node(doc.Domains[0].Labels[0].Body).(Sequence)
	if assert.Equal(t, 2, len(seq.Elements)) {
		assert.Equal(t, "xa", doc.Arena.Node(seq.Elements[0].Primary).(Literal).Text)
		assert.False(t, seq.Elements[0].Optional)

		class := doc.Arena.Node(seq.Elements[1].Primary).(CharClass)
		assert.True(t, seq.Elements[1].Optional)
		assert.Equal(t, 1, class.Offset)
	}

	seq = doc.Arena.Node(doc.Domains[1].Labels[0].Body).(Sequence)
	if assert.Equal(t, 2, len(seq.Elements)) {
		assert.Equal(t, "a", doc.Arena.Node(seq.Elements[0].Primary).(Literal).Text)
		assert.True(t, seq.Elements[1].Optional)
	}

	assert.Equal(t, 4, doc.Domains[1].Labels[1].Offset, "columns after a reference are unshifted")
}

func TestParseDocument_StatementTooLong(t *testing.T) {
	input := lines("@a0 = ab")
	for i := 1; i <= 16; i++ {
		input = append(input, Line{
			Number: i + 1,
			Text:   fmt.Sprintf("@a%d = @a%d@a%d", i, i-1, i-1),
		})
	}

	_, err := ParseDocument(input)
	if !assert.Error(t, err) {
		return
	}

	assert.True(t, errors.Is(err, ErrStatementTooLong), "got %v", err)

	var perr *ParseError
	if assert.True(t, errors.As(err, &perr)) {
		// @a15 is exactly MaxStatementLength runes; doubling it again fails
		// at the second reference.
		assert.Equal(t, 17, perr.Line)
		assert.Equal(t, 11, perr.Offset)
	}
}

func TestParseDocument_Isolated(t *testing.T) {
	var wg sync.WaitGroup

	for i := range 16 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			value := "com"
			if i%2 == 1 {
				value = "net"
			}

			doc, err := ParseDocument(lines("@tld = "+value, "a.@tld"))
			if !assert.NoError(t, err) {
				return
			}

			text, ok := doc.Domains[0].Env.Lookup("tld")
			assert.True(t, ok)
			assert.Equal(t, value, text)

			seq := doc.Arena.Node(doc.Domains[0].Labels[1].Body).(Sequence)
			assert.Equal(t, value, doc.Arena.Node(seq.Elements[0].Primary).(Literal).Text)
		}()
	}

	wg.Wait()
}

func TestSplitStatement(t *testing.T) {
	tests := []struct {
		input string
		want  statement
	}{
		{
			input: "@tld=com",
			want:  statement{definition: true, name: "tld", value: "com", valueOffset: 5},
		},
		{
			input: "@my-tld = {com,net}",
			want:  statement{definition: true, name: "my-tld", value: "{com,net}", valueOffset: 10},
		},
		{
			input: "@x =",
			want:  statement{definition: true, name: "x", value: "", valueOffset: 4},
		},
		{
			input: "@Web2-x\t=\t@x",
			want:  statement{definition: true, name: "Web2-x", value: "@x", valueOffset: 10},
		},
		{
			input: "a.@tld",
			want:  statement{value: "a.@tld"},
		},
		{
			input: "@tld.com",
			want:  statement{value: "@tld.com"},
		},
		{
			input: "@ = com",
			want:  statement{value: "@ = com"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, splitStatement(Line{Number: 1, Text: tt.input}))
		})
	}
}

func TestDefinitionHeader(t *testing.T) {
	consumed, matched, err := definitionHeader(pc.NewParseContext[rune](), toTokens(Line{Number: 4, Text: "@tld = com"}))
	assert.NoError(t, err)
	assert.Equal(t, 7, consumed)

	if assert.Equal(t, 1, len(matched)) {
		assert.Equal(t, "name", matched[0].Type)
		assert.Equal(t, "tld", matched[0].Raw)
		assert.Equal(t, 2, matched[0].Pos.Col)
	}
}

func TestEnv(t *testing.T) {
	var empty *Env

	_, ok := empty.Lookup("x")
	assert.False(t, ok)
	assert.Equal(t, 0, len(empty.Names()))

	a := empty.With("Tld", "{com,net}")
	b := a.With("name", "[:c:][:v:]")

	value, ok := b.Lookup("TLD")
	assert.True(t, ok)
	assert.Equal(t, "{com,net}", value)

	_, ok = a.Lookup("name")
	assert.False(t, ok, "extending an env must not change the original")
	assert.Equal(t, []string{"tld", "name"}, b.Names())
}

func TestCharSet(t *testing.T) {
	assert.Equal(t, 5, Vowels.Len())
	assert.Equal(t, 21, Consonants.Len())
	assert.Equal(t, 31, Vowels.Negate().Len())
	assert.Equal(t, 36, CharSet(0).Negate().Len())
	assert.True(t, Vowels.Has('e'))
	assert.False(t, Vowels.Has('y'))
	assert.False(t, Vowels.Has('-'))
	assert.Equal(t, "aeiou", string(Vowels.Chars()))
	assert.Equal(t, "xyz012", string(NewCharSet("0z1y2x").Chars()))
	assert.Equal(t, "[a-z]", CharSet(0).AddRange('a', 'z').String())
}
