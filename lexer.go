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

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/hashicorp/go-multierror"
)

// Lexer is the C3 state machine: it consumes characters from a ReaderStack
// under the rules of a Kernel and materializes Tokens one at a time.
//
// A Lexer is single-threaded and pull-driven: NextToken does all the work,
// and nothing happens between calls. See doc.go for the sentinel-rune
// end-of-stream / end-of-lexer protocol.
type Lexer struct {
	kernel *Kernel
	stack  *ReaderStack
	sink   DebugSink

	hasPending bool
	pending    rune
	pendName   string
	pendLine   int
	pendText   string

	errs error
}

// NewLexer creates a Lexer reading from a single named source, with its
// own private ReaderStack.
func NewLexer(kernel *Kernel, streamName string, r io.Reader) *Lexer {
	stack := NewReaderStack()
	stack.Push(streamName, r)
	return NewLexerFromStack(kernel, stack)
}

// NewLexerFromString is a convenience constructor over strings.NewReader.
func NewLexerFromString(kernel *Kernel, streamName, src string) *Lexer {
	return NewLexer(kernel, streamName, strings.NewReader(src))
}

// NewLexerFromStack creates a Lexer over an existing, possibly shared,
// ReaderStack. Per spec §5, a ReaderStack may be handed off between Lexers
// in strict sequence but must never be read by two Lexers concurrently.
func NewLexerFromStack(kernel *Kernel, stack *ReaderStack) *Lexer {
	return &Lexer{kernel: kernel, stack: stack}
}

// SetDebugSink installs sink as the per-token diagnostic receiver. A nil
// sink (the default) disables the feature.
func (l *Lexer) SetDebugSink(sink DebugSink) { l.sink = sink }

// Stack exposes the underlying ReaderStack, e.g. so a preprocessor layer
// can push an #include source onto it.
func (l *Lexer) Stack() *ReaderStack { return l.stack }

// AddErrorMessage appends msg, tagged with the current stream/line, to
// this Lexer's accumulated error log. Lexical illegality itself is never
// added here automatically (it is reported as an ILLEGAL token, not an
// error); this exists for callers layered on top of Lexer (or Lexer's own
// embedders) that want to keep a single associated diagnostic log.
func (l *Lexer) AddErrorMessage(msg string) {
	l.errs = multierror.Append(l.errs, fmt.Errorf("%s:%d: %s",
		l.stack.CurrentStreamName(), l.stack.CurrentLine(), msg))
}

// Errors returns the accumulated error log, or nil if empty.
func (l *Lexer) Errors() error { return l.errs }

// unread schedules r, with the stream context it was read under, to be
// replayed on the next readChar call. This is the single-character
// "delim-break" pending slot the spec allows.
func (l *Lexer) unread(r rune, name string, line int, text string) {
	l.hasPending = true
	l.pending, l.pendName, l.pendLine, l.pendText = r, name, line, text
}

func (l *Lexer) readChar() (r rune, name string, line int, text string, err error) {
	if l.hasPending {
		l.hasPending = false
		return l.pending, l.pendName, l.pendLine, l.pendText, nil
	}
	name = l.stack.CurrentStreamName()
	line = l.stack.CurrentLine()
	text = l.stack.CurrentLineText()
	r, err = l.stack.ReadChar()
	return r, name, line, text, err
}

func isLetter(r rune) bool { return unicode.IsLetter(r) }
func isDigit(r rune) bool  { return r >= '0' && r <= '9' }
func isHexDigit(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}
func isSentinel(r rune) bool { return r == EndOfStream || r == EndOfLexer }

// looksLikeTokenStart reports whether r would, on its own, begin some
// recognized token kind in stateStart -- used by stateIllegal to decide
// when an unrecognized run should stop.
func (k *Kernel) looksLikeTokenStart(r rune) bool {
	switch {
	case r == ' ', r == '\t', r == Newline, unicode.IsSpace(r):
		return true
	case k.isPoint(r), k.isSpecialStart(r), k.isStringStart(r), k.isDelimiterStart(r):
		return true
	case r == '_', isLetter(r), isDigit(r):
		return true
	default:
		return false
	}
}

// NextToken runs the DFA until one Token materializes, or returns (nil,
// nil) once every Stream on the ReaderStack (and hence the ReaderStack
// itself) is exhausted. A non-nil error means the underlying source
// failed; nothing is retried.
func (l *Lexer) NextToken() (*Token, error) {
	k := l.kernel
	state := stateStart

	var lexeme []rune
	var streamName string
	var line int
	var lineText string
	var stringCloser rune
	var specialType TokenType
	var escapeNeeded int
	var escapeBuf []rune
	var expSeenDigit bool
	var endCommentBuf []rune

	emit := func(t TokenType, text string) (*Token, error) {
		tok := &Token{StreamName: streamName, Lexeme: text, LineText: lineText, Line: line, Type: t}
		if l.sink != nil {
			l.sink.EmitToken(tok)
		}
		return tok, nil
	}

	for {
		r, rsName, rsLine, rsText, err := l.readChar()
		if err != nil {
			return nil, err
		}

		switch state {

		case stateStart:
			streamName, line, lineText = rsName, rsLine, rsText
			switch {
			case r == EndOfLexer:
				return nil, nil
			case r == EndOfStream:
				if k.includeStreamBreak {
					return emit(EndOfStreamType, "")
				}
			case r == Newline:
				if k.includeNewlines {
					return emit(DelimNewlineType, "")
				}
			case r == ' ':
				if k.includeSpaces {
					return emit(DelimSpaceType, "")
				}
			case r == '\t':
				if k.includeTabs {
					return emit(DelimTabType, "")
				}
			case unicode.IsSpace(r):
				// other whitespace: always skipped
			case k.isPoint(r):
				lexeme = append(lexeme[:0], r)
				if k.isDelimiterStart(r) {
					state = statePoint
				} else {
					state = stateFloat
				}
			case k.isSpecialStart(r):
				specialType = k.specialType(r)
				lexeme = append(lexeme[:0], r)
				state = stateSpecial
			case k.isStringStart(r):
				stringCloser = k.stringEnd(r)
				lexeme = lexeme[:0]
				state = stateString
			case k.isDelimiterStart(r):
				lexeme = append(lexeme[:0], r)
				state = stateDelimiter
			case r == '_' || isLetter(r):
				lexeme = append(lexeme[:0], r)
				state = stateIdentifier
			case r == '0':
				lexeme = append(lexeme[:0], r)
				state = stateHexIntegerPrefix0
			case isDigit(r):
				lexeme = append(lexeme[:0], r)
				state = stateNumber
			default:
				lexeme = append(lexeme[:0], r)
				state = stateIllegal
			}

		case stateIdentifier:
			if r == '_' || isLetter(r) || isDigit(r) {
				lexeme = append(lexeme, r)
				continue
			}
			l.unread(r, rsName, rsLine, rsText)
			text := string(lexeme)
			return emit(k.lookupIdentifier(text), text)

		case stateIllegal:
			if isSentinel(r) || k.looksLikeTokenStart(r) {
				l.unread(r, rsName, rsLine, rsText)
				text := string(lexeme)
				return emit(IllegalType, text)
			}
			lexeme = append(lexeme, r)

		case stateSpecial:
			if isSentinel(r) || unicode.IsSpace(r) {
				l.unread(r, rsName, rsLine, rsText)
				return emit(specialType, string(lexeme))
			}
			lexeme = append(lexeme, r)

		case statePoint:
			if isDigit(r) {
				lexeme = append(lexeme, r)
				state = stateFloat
				continue
			}
			step, newLex := k.delimiterStep(string(lexeme), r)
			switch step {
			case delimToComment:
				state = stateBlockComment
			case delimToLineComment:
				state = stateLineComment
			case delimContinue:
				lexeme = []rune(newLex)
				state = stateDelimiter
			default:
				l.unread(r, rsName, rsLine, rsText)
				text := string(lexeme)
				return emit(k.lookupDelimiter(text), text)
			}

		case stateDelimiter:
			step, newLex := k.delimiterStep(string(lexeme), r)
			switch step {
			case delimToComment:
				state = stateBlockComment
			case delimToLineComment:
				state = stateLineComment
			case delimContinue:
				lexeme = []rune(newLex)
			default:
				l.unread(r, rsName, rsLine, rsText)
				text := string(lexeme)
				return emit(k.lookupDelimiter(text), text)
			}

		case stateBlockComment:
			switch {
			case isSentinel(r):
				state = stateStart
			case k.isCommentEndDelimiterStart(r):
				endCommentBuf = append(endCommentBuf[:0], r)
				state = stateBlockCommentEndMaybe
			}

		case stateBlockCommentEndMaybe:
			candidate := string(endCommentBuf) + string(r)
			switch {
			case isSentinel(r):
				state = stateStart
			case k.isCommentEnd(candidate):
				state = stateStart
			case k.isCommentEndPrefix(candidate):
				endCommentBuf = append(endCommentBuf, r)
			case unicode.IsSpace(r):
				endCommentBuf = endCommentBuf[:0]
				state = stateBlockComment
			case k.isCommentEndDelimiterStart(r):
				endCommentBuf = append(endCommentBuf[:0], r)
			default:
				endCommentBuf = endCommentBuf[:0]
				state = stateBlockComment
			}

		case stateLineComment:
			if r == Newline || isSentinel(r) {
				state = stateStart
			}

		case stateString:
			switch {
			case r == stringCloser:
				return emit(StringType, string(lexeme))
			case r == '\\':
				state = stateStringEscape
			case r == Newline || isSentinel(r):
				l.unread(r, rsName, rsLine, rsText)
				text := string(lexeme)
				return emit(IllegalType, text)
			default:
				lexeme = append(lexeme, r)
			}

		case stateStringEscape:
			switch r {
			case '0':
				lexeme = append(lexeme, 0)
				state = stateString
			case 'b':
				lexeme = append(lexeme, '\b')
				state = stateString
			case 't':
				lexeme = append(lexeme, '\t')
				state = stateString
			case 'n':
				lexeme = append(lexeme, '\n')
				state = stateString
			case 'f':
				lexeme = append(lexeme, '\f')
				state = stateString
			case 'r':
				lexeme = append(lexeme, '\r')
				state = stateString
			case '/':
				lexeme = append(lexeme, '/')
				state = stateString
			case '\\':
				lexeme = append(lexeme, '\\')
				state = stateString
			case 'u':
				escapeBuf = escapeBuf[:0]
				escapeNeeded = 4
				state = stateStringUnicodeEscape
			case 'x':
				escapeBuf = escapeBuf[:0]
				escapeNeeded = 2
				state = stateStringHexEscape
			case stringCloser:
				lexeme = append(lexeme, stringCloser)
				state = stateString
			default:
				text := string(lexeme)
				return emit(IllegalType, text)
			}

		case stateStringUnicodeEscape, stateStringHexEscape:
			if !isHexDigit(r) {
				text := string(lexeme)
				return emit(IllegalType, text)
			}
			escapeBuf = append(escapeBuf, r)
			escapeNeeded--
			if escapeNeeded == 0 {
				var codePoint int64
				fmt.Sscanf(string(escapeBuf), "%x", &codePoint)
				lexeme = append(lexeme, rune(codePoint))
				state = stateString
			}

		case stateNumber:
			switch {
			case isDigit(r):
				lexeme = append(lexeme, r)
			case k.isPoint(r):
				lexeme = append(lexeme, r)
				state = stateFloat
			case r == 'e' || r == 'E':
				lexeme = append(lexeme, r)
				state = stateExponent
			default:
				l.unread(r, rsName, rsLine, rsText)
				text := string(lexeme)
				return emit(NumberType, text)
			}

		case stateFloat:
			switch {
			case isDigit(r):
				lexeme = append(lexeme, r)
			case r == 'e' || r == 'E':
				lexeme = append(lexeme, r)
				state = stateExponent
			case r == '_' || isLetter(r):
				lexeme = append(lexeme, r)
				state = stateIllegal
			default:
				l.unread(r, rsName, rsLine, rsText)
				text := string(lexeme)
				return emit(NumberType, text)
			}

		case stateHexIntegerPrefix0:
			switch {
			case r == 'x' || r == 'X':
				lexeme = append(lexeme, r)
				state = stateHexIntegerPrefix1
			case isDigit(r):
				lexeme = append(lexeme, r)
				state = stateNumber
			case k.isPoint(r):
				lexeme = append(lexeme, r)
				state = stateFloat
			case r == 'e' || r == 'E':
				lexeme = append(lexeme, r)
				state = stateExponent
			case r == '_' || isLetter(r):
				lexeme = append(lexeme, r)
				state = stateIllegal
			default:
				l.unread(r, rsName, rsLine, rsText)
				text := string(lexeme)
				return emit(NumberType, text)
			}

		case stateHexIntegerPrefix1:
			if isHexDigit(r) {
				lexeme = append(lexeme, r)
				state = stateHexInteger
				continue
			}
			l.unread(r, rsName, rsLine, rsText)
			text := string(lexeme)
			return emit(IllegalType, text)

		case stateHexInteger:
			if isHexDigit(r) {
				lexeme = append(lexeme, r)
				continue
			}
			l.unread(r, rsName, rsLine, rsText)
			text := string(lexeme)
			return emit(NumberType, text)

		case stateExponent:
			switch {
			case r == '+' || r == '-':
				lexeme = append(lexeme, r)
				expSeenDigit = false
				state = stateExponentPower
			case isDigit(r):
				lexeme = append(lexeme, r)
				expSeenDigit = true
				state = stateExponentPower
			default:
				l.unread(r, rsName, rsLine, rsText)
				text := string(lexeme)
				return emit(IllegalType, text)
			}

		case stateExponentPower:
			if isDigit(r) {
				lexeme = append(lexeme, r)
				expSeenDigit = true
				continue
			}
			l.unread(r, rsName, rsLine, rsText)
			text := string(lexeme)
			if expSeenDigit {
				return emit(NumberType, text)
			}
			return emit(IllegalType, text)
		}
	}
}
