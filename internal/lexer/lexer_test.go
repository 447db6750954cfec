package lexer

import (
	"testing"

	"github.com/algoscript/algoscript/internal/token"
)

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func kindsEqual(t *testing.T, got []token.Kind, want ...token.Kind) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d tokens %v, want %d %v", len(got), got, len(want), want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %s, want %s (full: %v)", i, got[i], want[i], got)
		}
	}
}

func TestTokenizeOperators(t *testing.T) {
	toks, err := New("t.algo", "1 + 2 - 3 * 4 / 5 ** 6").Tokenize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	kindsEqual(t, kinds(toks),
		token.INT, token.PLUS, token.INT, token.MINUS, token.INT, token.MULT,
		token.INT, token.DIV, token.INT, token.POW, token.INT, token.EOF)
}

func TestTokenizeComparisons(t *testing.T) {
	toks, err := New("t.algo", "a == b != c < d > e <= f >= g").Tokenize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	kindsEqual(t, kinds(toks),
		token.IDENT, token.EE, token.IDENT, token.NE, token.IDENT, token.LT,
		token.IDENT, token.GT, token.IDENT, token.LTE, token.IDENT, token.GTE,
		token.IDENT, token.EOF)
}

func TestTokenizeAssignment(t *testing.T) {
	toks, err := New("t.algo", "x <-- 1").Tokenize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	kindsEqual(t, kinds(toks), token.IDENT, token.EQ, token.INT, token.EOF)
}

func TestTokenizeKeywordsAndBooleans(t *testing.T) {
	toks, err := New("t.algo", "if True and not False then").Tokenize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	kindsEqual(t, kinds(toks),
		token.KEYWORD, token.KEYWORD, token.KEYWORD, token.KEYWORD, token.KEYWORD, token.KEYWORD, token.EOF)

	if v := toks[1].Value; v != "true" {
		t.Errorf("True should lower-case to %q, got %q", "true", v)
	}
	if v := toks[4].Value; v != "false" {
		t.Errorf("False should lower-case to %q, got %q", "false", v)
	}
}

func TestTokenizeDivAndMod(t *testing.T) {
	toks, err := New("t.algo", "a div b mod c").Tokenize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	kindsEqual(t, kinds(toks), token.IDENT, token.DIV, token.IDENT, token.MOD, token.IDENT, token.EOF)
}

func TestTokenizeStringEscapesAndSautDeLigne(t *testing.T) {
	toks, err := New("t.algo", `"a\nb" "Saut-de-ligne"`).Tokenize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if toks[0].Value != "a\nb" {
		t.Errorf("expected escaped newline, got %q", toks[0].Value)
	}
	if toks[1].Value != "\n" {
		t.Errorf("Saut-de-ligne sentinel should become a bare newline, got %q", toks[1].Value)
	}
}

func TestTokenizeIndentMultipleOfFour(t *testing.T) {
	_, err := New("t.algo", "Algo\n   x: int\nBegin\nEnd").Tokenize()
	if err == nil {
		t.Fatal("expected IndentationError for a 3-space indent")
	}
}

func TestTokenizeIllegalChar(t *testing.T) {
	_, err := New("t.algo", "x <-- 1 @ 2").Tokenize()
	if err == nil {
		t.Fatal("expected IllegalCharError for '@'")
	}
}

func TestTokenizeComment(t *testing.T) {
	toks, err := New("t.algo", "1 # a trailing comment\n2").Tokenize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The comment contributes no tokens of its own; only the two numbers,
	// the newline/indent between them, and EOF remain.
	var numCount int
	for _, tk := range toks {
		if tk.Kind == token.INT {
			numCount++
		}
	}
	if numCount != 2 {
		t.Fatalf("expected 2 INT tokens around the comment, got %d", numCount)
	}
}

func TestTokenPositionsSpanSourceText(t *testing.T) {
	src := "12 + 34"
	toks, err := New("t.algo", src).Tokenize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first := toks[0]
	if got := src[first.Start.Offset:first.End.Offset]; got != "12" {
		t.Errorf("token span mismatch: got %q, want %q", got, "12")
	}
}
