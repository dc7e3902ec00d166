// Copyright 2017-2018 Denis Bernard <db047h@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies of
// the Software, and to permit persons to whom the Software is furnished to do so,
// subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY, FITNESS
// FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR
// COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
// IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
// CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.

/*
Package parser implements C6: token lookahead and error accumulation over
a lex.Lexer or preprocessor.CommonLexer, with no grammar of its own.
Concrete parsers embed Base and write their own productions against
CurrentToken, MatchType, CurrentType and Advance.
*/
package parser

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	lex "github.com/BlackRookSoftware/CommonLang"
)

// TokenSource is anything that yields lex.Tokens on demand. *lex.Lexer and
// *preprocessor.CommonLexer both satisfy it.
type TokenSource interface {
	NextToken() (*lex.Token, error)
}

// Base is the minimal parser utility: a one-token lookahead cursor over a
// TokenSource, plus an accumulating, context-tagged error list.
type Base struct {
	source  TokenSource
	current *lex.Token
	errs    error
}

// NewBase creates a Base over source, primed with its first token.
func NewBase(source TokenSource) (*Base, error) {
	b := &Base{source: source}
	if err := b.Advance(); err != nil {
		return nil, err
	}
	return b, nil
}

// CurrentToken is the token under the lookahead cursor, or nil once source
// is exhausted.
func (b *Base) CurrentToken() *lex.Token { return b.current }

// Advance pulls the next token from source into the lookahead cursor,
// turning an underlying I/O failure into a fatal parsing error.
func (b *Base) Advance() error {
	tok, err := b.source.NextToken()
	if err != nil {
		return fmt.Errorf("parser: %w", err)
	}
	b.current = tok
	return nil
}

// MatchType consumes and advances past the current token if its type
// equals t, reporting whether it did.
func (b *Base) MatchType(t lex.TokenType) (bool, error) {
	if b.current == nil || b.current.Type != t {
		return false, nil
	}
	if err := b.Advance(); err != nil {
		return false, err
	}
	return true, nil
}

// CurrentType reports whether the current token's type is one of types.
func (b *Base) CurrentType(types ...lex.TokenType) bool {
	if b.current == nil {
		return false
	}
	for _, t := range types {
		if b.current.Type == t {
			return true
		}
	}
	return false
}

// AddErrorMessage appends msg, tagged with the current token's stream
// name, line, and lexeme, to the accumulated error list.
func (b *Base) AddErrorMessage(msg string) {
	ctx := "EOF: "
	if b.current != nil {
		ctx = fmt.Sprintf("%s:%d: near %q: ", b.current.StreamName, b.current.Line, b.current.Lexeme)
	}
	b.errs = multierror.Append(b.errs, fmt.Errorf("%s%s", ctx, msg))
}

// Errors returns the accumulated error list, or nil if empty.
func (b *Base) Errors() error { return b.errs }
