package preprocessor

import (
	"testing"

	lex "github.com/BlackRookSoftware/CommonLang"
)

func newTestCommonLexer(t *testing.T, src string) *CommonLexer {
	t.Helper()
	kernel := NewKernelBuilder().
		AddDelimiter("+", 1).
		Build()
	lexer := lex.NewLexerFromString(kernel, "test", src)
	cl, err := NewCommonLexer(lexer, kernel)
	if err != nil {
		t.Fatalf("NewCommonLexer: %v", err)
	}
	return cl
}

func drain(t *testing.T, cl *CommonLexer) []*lex.Token {
	t.Helper()
	var out []*lex.Token
	for {
		tok, err := cl.NextToken()
		if err != nil {
			t.Fatalf("NextToken: %v", err)
		}
		if tok == nil {
			return out
		}
		out = append(out, tok)
	}
}

func TestDefineExpandsEveryReference(t *testing.T) {
	cl := newTestCommonLexer(t, "#define X 42\nX X X")
	tokens := drain(t, cl)
	if len(tokens) != 3 {
		t.Fatalf("got %d tokens, want 3: %v", len(tokens), tokens)
	}
	for i, tok := range tokens {
		if tok.Type != lex.NumberType || tok.Lexeme != "42" {
			t.Errorf("token %d: got %+v, want NumberType 42", i, tok)
		}
	}
}

func TestIfdefExcludesFalseBranch(t *testing.T) {
	cl := newTestCommonLexer(t, "#ifdef X\nfoo\n#endif\nbar")
	tokens := drain(t, cl)
	if len(tokens) != 1 {
		t.Fatalf("got %d tokens, want 1: %v", len(tokens), tokens)
	}
	if tokens[0].Type != lex.IdentifierType || tokens[0].Lexeme != "bar" {
		t.Errorf("got %+v, want IdentifierType bar", tokens[0])
	}
}

func TestIfndefIncludesUndefinedBranch(t *testing.T) {
	cl := newTestCommonLexer(t, "#ifndef X\nfoo\n#endif\nbar")
	tokens := drain(t, cl)
	if len(tokens) != 2 {
		t.Fatalf("got %d tokens, want 2: %v", len(tokens), tokens)
	}
	if tokens[0].Lexeme != "foo" || tokens[1].Lexeme != "bar" {
		t.Errorf("got %v, want [foo bar]", tokens)
	}
}

func TestDefineSelfReferenceIsFatal(t *testing.T) {
	cl := newTestCommonLexer(t, "#define Y Y")
	_, err := cl.NextToken()
	if err == nil {
		t.Fatalf("want an error for self-referencing macro, got none")
	}
	if cl.Errors() == nil {
		t.Errorf("want accumulated error log to be non-nil")
	}
}

func TestUndefineRemovesMacro(t *testing.T) {
	cl := newTestCommonLexer(t, "#define X 1\n#undefine X\nX")
	tokens := drain(t, cl)
	if len(tokens) != 1 {
		t.Fatalf("got %d tokens, want 1: %v", len(tokens), tokens)
	}
	if tokens[0].Type != lex.IdentifierType || tokens[0].Lexeme != "X" {
		t.Errorf("got %+v, want IdentifierType X (undefined again)", tokens[0])
	}
}

func TestAddDefineMacroProgrammatically(t *testing.T) {
	cl := newTestCommonLexer(t, "X")
	cl.AddDefineMacro("X", []*lex.Token{{Lexeme: "7", Type: lex.NumberType}})
	tokens := drain(t, cl)
	if len(tokens) != 1 || tokens[0].Lexeme != "7" {
		t.Fatalf("got %v, want a single token with lexeme 7", tokens)
	}
	names := cl.DumpMacros()
	if len(names) != 1 || names[0] != "X" {
		t.Errorf("DumpMacros() = %v, want [X]", names)
	}
}

func TestMacroExpansionChainsThroughAnotherMacro(t *testing.T) {
	// #define only rejects a macro naming itself; expanding into a
	// *different* macro name, which then expands again, is allowed.
	cl := newTestCommonLexer(t, "#define A B\n#define B 9\nA")
	tokens := drain(t, cl)
	if len(tokens) != 1 || tokens[0].Type != lex.NumberType || tokens[0].Lexeme != "9" {
		t.Fatalf("got %v, want a single NumberType token with lexeme 9", tokens)
	}
}

func TestKernelMustDeclarePreprocessorDirectiveType(t *testing.T) {
	kernel := lex.NewKernelBuilder().SetIncludeNewlines(true).Build()
	lexer := lex.NewLexerFromString(kernel, "test", "")
	if _, err := NewCommonLexer(lexer, kernel); err == nil {
		t.Errorf("want an error for a kernel missing the '#' special delimiter")
	}
}
