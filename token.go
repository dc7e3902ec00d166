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

package lex

import "fmt"

// Sentinel runes. These must never occur as legitimate source characters:
// EndOfStream marks the end of a single Stream on the ReaderStack, while
// EndOfLexer marks the end of the stack itself.
const (
	EndOfStream = '￾'
	EndOfLexer  = '￿'
	Newline     = '\n'
)

// TokenType identifies the kind of a Token. Non-negative values are
// user-assigned (delimiters, comments, keywords, special prefixes);
// negative values are reserved by the kernel and are the only ones a
// Lexer ever emits on its own. The DFA states (see state.go) are a separate
// type and are never surfaced in a Token.
type TokenType int

// Reserved, emittable token types. These integer values are part of the
// external API: callers match against them directly.
const (
	// EndOfLexerType signals that every stream on the ReaderStack has been
	// exhausted. It is never actually attached to an emitted Token: NextToken
	// returns (nil, nil) instead.
	EndOfLexerType TokenType = -1
	// EndOfStreamType is emitted when a Stream ends, if the Kernel was built
	// with SetIncludeStreamBreak(true).
	EndOfStreamType TokenType = -2
	// NumberType is emitted for any integer, hex, float or exponent literal.
	NumberType TokenType = -3
	// DelimSpaceType is emitted for a single space character, if the Kernel
	// was built with SetIncludeSpaces(true).
	DelimSpaceType TokenType = -4
	// DelimTabType is emitted for a single tab character, if the Kernel was
	// built with SetIncludeTabs(true).
	DelimTabType TokenType = -5
	// DelimNewlineType is emitted for a single newline character, if the
	// Kernel was built with SetIncludeNewlines(true).
	DelimNewlineType TokenType = -6
	// IdentifierType is emitted for any identifier lexeme not found in
	// either keyword table.
	IdentifierType TokenType = -10
	// IllegalType is emitted for any lexeme the Kernel's tables could not
	// classify. This is not an error: NextToken returns it as an ordinary
	// Token and lets the caller decide whether to treat it as fatal.
	IllegalType TokenType = -12
	// StringType is emitted for a quoted string, escapes already decoded
	// and quotes stripped.
	StringType TokenType = -15
)

// Token is an immutable lexical token.
type Token struct {
	// StreamName is the name of the ReaderStack stream this token came from.
	StreamName string
	// Lexeme is the token's raw text, with string escapes decoded and
	// quotes stripped for string tokens.
	Lexeme string
	// LineText is the part of the containing line that was read before the
	// token's first character, for diagnostics. The token's own text and
	// the rest of the line are not included.
	LineText string
	// Line is the 1-based line number within StreamName.
	Line int
	// Type is this token's type: one of the reserved TokenType constants,
	// or a non-negative user-assigned type.
	Type TokenType
}

func (t *Token) String() string {
	return fmt.Sprintf("TOKEN (%s) type: %d\tLine: %d\tLexeme: %q", t.StreamName, t.Type, t.Line, t.Lexeme)
}

// DebugSink receives every token a Lexer emits, for diagnostics. A nil sink
// (the default) disables the feature entirely; there is no global flag.
type DebugSink interface {
	EmitToken(t *Token)
}

// DebugSinkFunc adapts a function to a DebugSink.
type DebugSinkFunc func(t *Token)

// EmitToken implements DebugSink.
func (f DebugSinkFunc) EmitToken(t *Token) { f(t) }
