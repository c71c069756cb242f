package pattern

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	d, err := Parse("{car,bike}[a-z]{2}(s)?.com")
	if !assert.NoError(t, err) {
		return
	}

	assert.Equal(t, 2, len(d.Labels))
	assert.Equal(t, 0, d.Labels[0].Offset)
	assert.Equal(t, 23, d.Labels[1].Offset)

	seq, ok := d.Arena.Node(d.Labels[0].Body).(Sequence)
	if !assert.True(t, ok) {
		return
	}

	if !assert.Equal(t, 3, len(seq.Elements)) {
		return
	}

	alt, ok := d.Arena.Node(seq.Elements[0].Primary).(Alternation)
	assert.True(t, ok)
	assert.Equal(t, 2, len(alt.Options))

	class, ok := d.Arena.Node(seq.Elements[1].Primary).(CharClass)
	assert.True(t, ok)
	assert.Equal(t, 26, class.Set.Len())
	assert.Equal(t, Repetition{Min: 2, Max: 2}, class.Repeat)

	group, ok := d.Arena.Node(seq.Elements[2].Primary).(Group)
	assert.True(t, ok)
	assert.Equal(t, Once, group.Repeat)
	assert.True(t, seq.Elements[2].Optional)

	tld, ok := d.Arena.Node(d.Labels[1].Body).(Sequence)
	assert.True(t, ok)
	assert.Equal(t, Literal{Offset: 23, Text: "com"}, d.Arena.Node(tld.Elements[0].Primary))
}

func TestParse_ChildrenBeforeParents(t *testing.T) {
	d, err := Parse("({a,(b){2}},c){1,2}x.com")
	if !assert.NoError(t, err) {
		return
	}

	for i := 0; i < d.Arena.Len(); i++ {
		id := NodeID(i)

		var children []NodeID

		switch n := d.Arena.Node(id).(type) {
		case Sequence:
			for _, el := range n.Elements {
				children = append(children, el.Primary)
			}
		case Alternation:
			children = n.Options
		case Group:
			children = []NodeID{n.Body}
		}

		for _, c := range children {
			assert.True(t, c < id, "child %d of node %d", c, id)
		}
	}
}

func TestParse_RepetitionOrAlternation(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		kinds  []string
		repeat Repetition
	}{
		{
			name:   "count after class",
			input:  "[a-z]{3}",
			kinds:  []string{"class"},
			repeat: Repetition{Min: 3, Max: 3},
		},
		{
			name:   "range after class",
			input:  "[a-z]{1,3}",
			kinds:  []string{"class"},
			repeat: Repetition{Min: 1, Max: 3},
		},
		{
			name:   "alternation after class",
			input:  "[a-z]{com,net}",
			kinds:  []string{"class", "alternation"},
			repeat: Once,
		},
		{
			name:   "numeric alternation after class",
			input:  "[a-z]{1,2x}",
			kinds:  []string{"class", "alternation"},
			repeat: Once,
		},
		{
			name:   "count after named class",
			input:  "[:v:]{1,2}",
			kinds:  []string{"class"},
			repeat: Repetition{Min: 1, Max: 2},
		},
		{
			name:   "count after group",
			input:  "(ab){2,4}",
			kinds:  []string{"group"},
			repeat: Repetition{Min: 2, Max: 4},
		},
		{
			name:   "alternation after group",
			input:  "(ab){1,b}",
			kinds:  []string{"group", "alternation"},
			repeat: Once,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Parse(tt.input + ".com")
			if !assert.NoError(t, err) {
				return
			}

			seq := d.Arena.Node(d.Labels[0].Body).(Sequence)

			var kinds []string

			for _, el := range seq.Elements {
				switch n := d.Arena.Node(el.Primary).(type) {
				case CharClass:
					kinds = append(kinds, "class")
				case Group:
					kinds = append(kinds, "group")
				case Alternation:
					kinds = append(kinds, "alternation")
				default:
					t.Fatalf("unexpected node %T", n)
				}
			}

			assert.Equal(t, tt.kinds, kinds)

			switch n := d.Arena.Node(seq.Elements[0].Primary).(type) {
			case CharClass:
				assert.Equal(t, tt.repeat, n.Repeat)
			case Group:
				assert.Equal(t, tt.repeat, n.Repeat)
			}
		})
	}
}

func TestParse_CharClass(t *testing.T) {
	tests := []struct {
		input string
		want  string
		size  int
	}{
		{"[a-z]", "[a-z]", 26},
		{"[0-9]", "[0-9]", 10},
		{"[abc]", "[a-c]", 3},
		{"[ab]", "[ab]", 2},
		{"[a-c0-2x]", "[a-cx0-2]", 7},
		{"[^aeiou]", "[b-df-hj-np-tv-z0-9]", 31},
		{"[:v:]", "[aeiou]", 5},
		{"[:c:]", "[b-df-hj-np-tv-z]", 21},
		{"[[:v:]0-1]", "[aeiou01]", 7},
		{"[^[:c:]]", "[aeiou0-9]", 15},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			d, err := Parse(tt.input)
			if !assert.NoError(t, err) {
				return
			}

			seq := d.Arena.Node(d.Labels[0].Body).(Sequence)
			class := d.Arena.Node(seq.Elements[0].Primary).(CharClass)
			assert.Equal(t, tt.want, class.Set.String())
			assert.Equal(t, tt.size, class.Set.Len())
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		kind   error
		offset int
	}{
		{"empty expression", "", ErrSyntax, 0},
		{"leading dot", ".com", ErrEmptyLabel, 0},
		{"trailing dot", "car.", ErrEmptyLabel, 4},
		{"doubled dot", "a..com", ErrEmptyLabel, 2},
		{"optional group label", "(a)?.com", ErrEmptyLabel, 0},
		{"zero repetition label", "[a-z]{0,2}.com", ErrEmptyLabel, 0},
		{"optional alternation label", "{a,b}?[:v:]{0}.com", ErrEmptyLabel, 0},
		{"nullable option label", "{a,(b)?}.com", ErrEmptyLabel, 0},
		{"inner whitespace", "car .com", ErrWhitespace, 3},
		{"whitespace in class", "[a z]", ErrWhitespace, 2},
		{"uppercase", "Car.com", ErrSyntax, 0},
		{"reversed range", "[z-a]", ErrSyntax, 1},
		{"mixed range", "[a-9]", ErrSyntax, 1},
		{"open range", "[a-]", ErrSyntax, 1},
		{"empty class", "[]", ErrEmptyCharClass, 0},
		{"negated universe", "[^a-z0-9]", ErrEmptyCharClass, 0},
		{"unterminated class", "[abc", ErrSyntax, 0},
		{"unknown named class", "[:x:]", ErrSyntax, 2},
		{"min over max", "[a-z]{3,1}", ErrInvalidRepetition, 5},
		{"huge count", "[a-z]{2000}", ErrInvalidRepetition, 6},
		{"single option", "{a}.com", ErrSyntax, 0},
		{"empty option", "{a,}.com", ErrSyntax, 3},
		{"unterminated alternation", "{a,b", ErrSyntax, 0},
		{"dot in alternation", "{a.b,c}", ErrSyntax, 2},
		{"empty group", "().com", ErrSyntax, 1},
		{"unterminated group", "(ab", ErrSyntax, 0},
		{"stray close", "ab).com", ErrSyntax, 2},
		{"stray comma", "a,b", ErrSyntax, 1},
		{"undefined variable", "a.@tld", ErrUndefinedVariable, 2},
		{"missing variable name", "a@.com", ErrSyntax, 1},
		{"open-ended repetition", "[a-z]{2,}", ErrSyntax, 8},
		{"deep nesting", strings.Repeat("(", MaxNestingDepth+1) + "a" + strings.Repeat(")", MaxNestingDepth+1), ErrNestingTooDeep, MaxNestingDepth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			if !assert.Error(t, err) {
				return
			}

			assert.True(t, errors.Is(err, tt.kind), "got %v", err)

			var perr *ParseError
			if assert.True(t, errors.As(err, &perr)) {
				assert.Equal(t, tt.offset, perr.Offset)
			}
		})
	}
}

func TestParseError_Error(t *testing.T) {
	_, err := Parse(".com")
	assert.EqualError(t, err, "empty label at position 1: a label needs at least one character")

	perr := &ParseError{Msg: "unexpected character '!'", Line: 3, Offset: 4, Err: ErrSyntax}
	assert.EqualError(t, perr, "syntax error at line 3, position 5: unexpected character '!'")
}

func TestArena_Nullable(t *testing.T) {
	tests := []struct {
		input    string
		nullable bool
	}{
		{"a", false},
		{"a?", true},
		{"[a-z]{0,1}", true},
		{"[a-z]", false},
		{"(a){0,2}", true},
		{"(a?)", true},
		{"(a?b)", false},
		{"{a,b}", false},
		{"{a,b?}", true},
		{"a?[:v:]{0}", true},
		{"a?b?c", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p := newParser(Line{Text: tt.input}, 0, &Arena{}, nil)

			id, err := p.parseSequence("sequence")
			if !assert.NoError(t, err) {
				return
			}

			assert.Equal(t, tt.nullable, p.arena.Nullable(id))
		})
	}
}
