package pattern

import (
	"strings"
	"unicode"

	pc "github.com/shibukawa/parsercombinator"
)

var (
	atSign    = runeType("at", func(r rune) bool { return r == '@' })
	nameChar  = runeType("name", isLiteralRune)
	space     = runeType("space", unicode.IsSpace)
	equalSign = runeType("equal", func(r rune) bool { return r == '=' })
	spaces    = pc.ZeroOrMore("spaces", space)

	// variableName folds the name runes into one "name" token.
	variableName = pc.Trans(pc.OneOrMore("name", nameChar), joinRunes("name"))

	// definitionHeader matches "@name =" including the spaces around '=' and
	// yields only the name token.
	definitionHeader = pc.Seq(pc.Drop(atSign), variableName, pc.Drop(spaces), pc.Drop(equalSign), pc.Drop(spaces))
)

// statement is one document line split into its parts. For an expression
// only value is set.
type statement struct {
	definition  bool
	name        string
	value       string
	valueOffset int
}

func runeType(typeName string, accept func(rune) bool) pc.Parser[rune] {
	return func(pctx *pc.ParseContext[rune], tokens []pc.Token[rune]) (int, []pc.Token[rune], error) {
		if len(tokens) > 0 && accept(tokens[0].Val) {
			return 1, tokens[:1], nil
		}

		return 0, nil, pc.ErrNotMatch
	}
}

func joinRunes(typeName string) pc.Transformer[rune] {
	return func(pctx *pc.ParseContext[rune], tokens []pc.Token[rune]) ([]pc.Token[rune], error) {
		var raw strings.Builder
		for _, t := range tokens {
			raw.WriteRune(t.Val)
		}

		return []pc.Token[rune]{{
			Type: typeName,
			Pos:  tokens[0].Pos,
			Raw:  raw.String(),
			Val:  tokens[0].Val,
		}}, nil
	}
}

func toTokens(ln Line) []pc.Token[rune] {
	runes := []rune(ln.Text)
	tokens := make([]pc.Token[rune], len(runes))

	for i, r := range runes {
		tokens[i] = pc.Token[rune]{
			Type: "rune",
			Pos: &pc.Pos{
				Line:  ln.Number,
				Col:   i + 1,
				Index: i,
			},
			Val: r,
			Raw: string(r),
		}
	}

	return tokens
}

// splitStatement tells a variable definition from an expression.
func splitStatement(ln Line) statement {
	tokens := toTokens(ln)
	pctx := pc.NewParseContext[rune]()

	consumed, matched, err := definitionHeader(pctx, tokens)
	if err != nil || len(matched) != 1 {
		return statement{value: ln.Text}
	}

	var value strings.Builder
	for _, t := range tokens[consumed:] {
		value.WriteRune(t.Val)
	}

	return statement{
		definition:  true,
		name:        matched[0].Raw,
		value:       value.String(),
		valueOffset: consumed,
	}
}
