package parser

import (
	"testing"

	lex "github.com/BlackRookSoftware/CommonLang"
)

func newBase(t *testing.T, src string) (*Base, *lex.Kernel) {
	t.Helper()
	kernel := lex.NewKernelBuilder().
		AddDelimiter("+", 1).
		AddDelimiter("-", 2).
		AddDelimiter("(", 3).
		AddDelimiter(")", 4).
		Build()
	lexer := lex.NewLexerFromString(kernel, "test", src)
	b, err := NewBase(lexer)
	if err != nil {
		t.Fatalf("NewBase: %v", err)
	}
	return b, kernel
}

func TestBasePrimesFirstToken(t *testing.T) {
	b, _ := newBase(t, "a + b")
	if b.CurrentToken() == nil || b.CurrentToken().Lexeme != "a" {
		t.Fatalf("got %+v, want current token to be primed with 'a'", b.CurrentToken())
	}
}

func TestAdvanceWalksTokenStream(t *testing.T) {
	b, _ := newBase(t, "a + b")
	var lexemes []string
	for b.CurrentToken() != nil {
		lexemes = append(lexemes, b.CurrentToken().Lexeme)
		if err := b.Advance(); err != nil {
			t.Fatalf("Advance: %v", err)
		}
	}
	want := []string{"a", "+", "b"}
	if len(lexemes) != len(want) {
		t.Fatalf("got %v, want %v", lexemes, want)
	}
	for i := range want {
		if lexemes[i] != want[i] {
			t.Errorf("token %d: got %q, want %q", i, lexemes[i], want[i])
		}
	}
}

func TestMatchTypeConsumesOnMatch(t *testing.T) {
	b, _ := newBase(t, "( a )")
	ok, err := b.MatchType(3)
	if err != nil {
		t.Fatalf("MatchType: %v", err)
	}
	if !ok {
		t.Fatalf("MatchType(LPAREN) = false, want true")
	}
	if b.CurrentToken().Lexeme != "a" {
		t.Errorf("got %+v, want cursor advanced past '('", b.CurrentToken())
	}
}

func TestMatchTypeLeavesCursorOnMismatch(t *testing.T) {
	b, _ := newBase(t, "a + b")
	ok, err := b.MatchType(3) // LPAREN, current token is the identifier "a"
	if err != nil {
		t.Fatalf("MatchType: %v", err)
	}
	if ok {
		t.Fatalf("MatchType(LPAREN) = true, want false")
	}
	if b.CurrentToken().Lexeme != "a" {
		t.Errorf("got %+v, want cursor unchanged", b.CurrentToken())
	}
}

func TestCurrentTypeChecksAnyOfSeveral(t *testing.T) {
	b, _ := newBase(t, "+ b")
	if !b.CurrentType(1, 2) {
		t.Errorf("CurrentType(PLUS, MINUS) = false, want true for a leading '+'")
	}
	if b.CurrentType(3, 4) {
		t.Errorf("CurrentType(LPAREN, RPAREN) = true, want false")
	}
}

func TestAddErrorMessageAccumulates(t *testing.T) {
	b, _ := newBase(t, "a b")
	if b.Errors() != nil {
		t.Fatalf("want no errors initially, got %v", b.Errors())
	}
	b.AddErrorMessage("unexpected token")
	b.AddErrorMessage("another problem")
	if b.Errors() == nil {
		t.Fatalf("want accumulated errors after AddErrorMessage")
	}
}

func TestCurrentTokenNilAtEOF(t *testing.T) {
	b, _ := newBase(t, "a")
	if err := b.Advance(); err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if b.CurrentToken() != nil {
		t.Errorf("got %+v, want nil current token at end of input", b.CurrentToken())
	}
	// AddErrorMessage must tolerate a nil current token (EOF context).
	b.AddErrorMessage("ran off the end")
	if b.Errors() == nil {
		t.Errorf("want an accumulated error even with a nil current token")
	}
}
