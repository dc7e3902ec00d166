package lex

import (
	"strings"
	"testing"
)

func tokenize(t *testing.T, kernel *Kernel, src string) []*Token {
	t.Helper()
	l := NewLexerFromString(kernel, "test", src)
	var out []*Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			t.Fatalf("NextToken: %v", err)
		}
		if tok == nil {
			return out
		}
		out = append(out, tok)
	}
}

func TestNumberLiterals(t *testing.T) {
	kernel := NewKernelBuilder().Build()
	tokens := tokenize(t, kernel, "10 3.5 0x5535 0X44 0434 12e4 3453E4 9x234 3e-6 4.2e3 0e10 4E+5")

	wantTypes := []TokenType{
		NumberType, NumberType, NumberType, NumberType, NumberType, NumberType, NumberType,
		NumberType, IdentifierType,
		NumberType, NumberType, NumberType, NumberType,
	}
	if len(tokens) != len(wantTypes) {
		t.Fatalf("got %d tokens, want %d: %v", len(tokens), len(wantTypes), tokens)
	}
	for i, tok := range tokens {
		if tok.Type != wantTypes[i] {
			t.Errorf("token %d: got type %d, want %d (lexeme %q)", i, tok.Type, wantTypes[i], tok.Lexeme)
		}
	}
	if tokens[7].Lexeme != "9" || tokens[8].Lexeme != "x234" {
		t.Errorf("9x234 split wrong: got %q, %q", tokens[7].Lexeme, tokens[8].Lexeme)
	}
}

func TestIdentifierKeywordPrecedence(t *testing.T) {
	kernel := NewKernelBuilder().
		AddKeyword("if", 1).
		AddCaseInsensitiveKeyword("if", 2).
		Build()
	tokens := tokenize(t, kernel, "if IF")
	if tokens[0].Type != TokenType(1) {
		t.Errorf("case-sensitive keyword should win: got %d", tokens[0].Type)
	}
	if tokens[1].Type != TokenType(2) {
		t.Errorf("case-insensitive keyword should match IF: got %d", tokens[1].Type)
	}
}

func TestDelimiterMaximalMunch(t *testing.T) {
	kernel := NewKernelBuilder().
		AddDelimiter("a", 1).
		AddDelimiter("ab", 2).
		Build()
	tokens := tokenize(t, kernel, "ab")
	if len(tokens) != 1 {
		t.Fatalf("want 1 token, got %d: %v", len(tokens), tokens)
	}
	if tokens[0].Type != TokenType(2) || tokens[0].Lexeme != "ab" {
		t.Errorf("got %+v, want type 2 lexeme ab", tokens[0])
	}
}

func TestStringEscapes(t *testing.T) {
	kernel := NewKernelBuilder().AddStringDelimiter('"', '"').Build()

	src := "\"A\" \"\\u0041\" \"\\x41\" \"\\n\\t\""
	tokens := tokenize(t, kernel, src)
	if len(tokens) != 4 {
		t.Fatalf("want 4 tokens, got %d: %v", len(tokens), tokens)
	}
	if tokens[0].Lexeme != "A" {
		t.Errorf("literal A -> got %q, want A", tokens[0].Lexeme)
	}
	if tokens[1].Lexeme != "A" {
		t.Errorf("\\u0041 -> got %q, want A", tokens[1].Lexeme)
	}
	if tokens[2].Lexeme != "A" {
		t.Errorf("\\x41 -> got %q, want A", tokens[2].Lexeme)
	}
	if tokens[3].Lexeme != "\n\t" {
		t.Errorf("escapes -> got %q", tokens[3].Lexeme)
	}

	illegal := tokenize(t, kernel, `"\u00G0"`)
	if len(illegal) == 0 || illegal[0].Type != IllegalType {
		t.Fatalf("want first token ILLEGAL, got %v", illegal)
	}
}

func TestWhitespaceEmission(t *testing.T) {
	kernel := NewKernelBuilder().
		SetIncludeSpaces(true).
		SetIncludeTabs(true).
		SetIncludeNewlines(true).
		Build()
	tokens := tokenize(t, kernel, "a \tb\nc")
	var types []TokenType
	for _, tok := range tokens {
		types = append(types, tok.Type)
	}
	want := []TokenType{IdentifierType, DelimSpaceType, DelimTabType, IdentifierType, DelimNewlineType, IdentifierType}
	if len(types) != len(want) {
		t.Fatalf("got %v, want %v", types, want)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Errorf("token %d: got %d, want %d", i, types[i], want[i])
		}
	}
}

func TestLineAndBlockComments(t *testing.T) {
	kernel := NewKernelBuilder().
		AddCommentStartDelimiter("/*", 1).
		AddCommentEndDelimiter("*/", 2).
		AddCommentLineDelimiter("//", 3).
		Build()
	tokens := tokenize(t, kernel, "a /* comment */ b // trailing\nc")
	var lexemes []string
	for _, tok := range tokens {
		lexemes = append(lexemes, tok.Lexeme)
	}
	want := []string{"a", "b", "c"}
	if len(lexemes) != len(want) {
		t.Fatalf("got %v, want %v", lexemes, want)
	}
	for i := range want {
		if lexemes[i] != want[i] {
			t.Errorf("token %d: got %q, want %q", i, lexemes[i], want[i])
		}
	}
}

func TestReaderStackEndOfStream(t *testing.T) {
	kernel := NewKernelBuilder().SetIncludeStreamBreak(true).Build()
	stack := NewReaderStack()
	stack.Push("first", strings.NewReader("a"))
	stack.Push("second", strings.NewReader("b"))
	l := NewLexerFromStack(kernel, stack)

	var tokens []*Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			t.Fatalf("NextToken: %v", err)
		}
		if tok == nil {
			break
		}
		tokens = append(tokens, tok)
	}

	// "second" is on top of the stack and is read first; once it ends,
	// reading resumes on "first" beneath it.
	type want struct {
		typ        TokenType
		lexeme     string
		streamName string
	}
	wants := []want{
		{IdentifierType, "b", "second"},
		{EndOfStreamType, "", "second"},
		{IdentifierType, "a", "first"},
		{EndOfStreamType, "", "first"},
	}
	if len(tokens) != len(wants) {
		t.Fatalf("got %d tokens, want %d: %v", len(tokens), len(wants), tokens)
	}
	for i, w := range wants {
		tok := tokens[i]
		if tok.Type != w.typ || tok.Lexeme != w.lexeme || tok.StreamName != w.streamName {
			t.Errorf("token %d: got %+v, want type=%d lexeme=%q stream=%q", i, tok, w.typ, w.lexeme, w.streamName)
		}
	}
}
