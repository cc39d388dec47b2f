package rustsrc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func texts(toks []Token) []string {
	out := make([]string, 0, len(toks))
	for _, t := range toks {
		if t.Kind != TokEOF {
			out = append(out, t.Text)
		}
	}

	return out
}

func TestLex(t *testing.T) {
	toks, err := Lex("fn a<'x>(s: &'x str) -> Vec<u8> { let c = '}'; r#type::X }")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"fn", "a", "<", "'x", ">", "(", "s", ":", "&", "'x", "str", ")", "->",
		"Vec", "<", "u8", ">", "{", "let", "c", "=", "'}'", ";", "type", "::", "X", "}",
	}, texts(toks))
	assert.Equal(t, TokLifetime, toks[3].Kind)
	assert.Equal(t, TokLiteral, toks[21].Kind)
}

func TestLex_Comments(t *testing.T) {
	src := "//! inner\n/// outer doc\n//// not a doc\n/* a /* nested */ b */\n/** block doc */\nstruct S;"

	toks, err := Lex(src)
	require.NoError(t, err)

	require.Len(t, toks, 6)
	assert.Equal(t, Token{Kind: TokDoc, Text: "outer doc", Line: 2}, toks[0])
	assert.Equal(t, Token{Kind: TokDoc, Text: "block doc", Line: 5}, toks[1])
	assert.Equal(t, "struct", toks[2].Text)
	assert.Equal(t, 6, toks[2].Line)
}

func TestLex_Literals(t *testing.T) {
	toks, err := Lex(`"a\"b" b"xy" r##"q"#"## 1_000u32 2.5 0x1F`)
	require.NoError(t, err)

	assert.Equal(t, []string{`"a\"b"`, `b"xy"`, `r##"q"#"##`, "1_000u32", "2.5", "0x1F"}, texts(toks))
	assert.Equal(t, TokInt, toks[3].Kind)
	assert.Equal(t, TokLiteral, toks[4].Kind)
}

func TestLex_Errors(t *testing.T) {
	for _, src := range []string{`"open`, "/* open", `r#"open`} {
		_, err := Lex(src)
		assert.Error(t, err, src)
	}
}
