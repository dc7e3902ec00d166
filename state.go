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

// dfaState enumerates the internal DFA states a Lexer cycles through while
// assembling a single Token. None of these values is ever attached to a
// Token: they exist purely to drive NextToken's switch, and are distinct
// from the public TokenType space on purpose (see doc.go).
type dfaState int

const (
	stateStart dfaState = iota
	stateDelimiter
	stateLineComment
	stateBlockComment
	stateBlockCommentEndMaybe
	stateString
	stateStringEscape
	stateStringUnicodeEscape
	stateStringHexEscape
	stateSpecial
	stateIdentifier
	stateNumber
	statePoint
	stateFloat
	stateHexIntegerPrefix0
	stateHexIntegerPrefix1
	stateHexInteger
	stateExponent
	stateExponentPower
	stateIllegal
)
