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
Package lex provides a configurable character-stream tokenizer built around
an explicit, switch-driven state machine, together with the two supporting
pieces it needs: a stacked reader abstraction (ReaderStack) that lets a
consumer substitute or push a new character source mid-lex, and a Kernel
that holds the delimiter, comment, string, special-prefix and keyword
tables a Lexer scans against.

Unlike a state-function lexer, a Lexer here is a traditional table-driven
DFA: its states are plain constants, its transition function is a big
switch, and the next token materializes by running that switch until a
state decides to emit. This is deliberate: the dispatch precedence between
whitespace, numbers, strings, delimiters, special prefixes and identifiers
is itself part of the contract a Kernel exposes to its caller, and a switch
keeps that precedence visible at a glance instead of scattered across a
graph of state functions.

Control flow is strictly pull-based. A consumer calls Lexer.NextToken until
it returns (nil, nil), which means every stream on the ReaderStack has been
exhausted. A read error from the underlying source surfaces immediately as
an error from NextToken; nothing is retried. An unrecognized character run
is not an error — it comes back as a token of type IllegalType, and the
caller decides whether that is fatal.

Two sentinel runes drive the two-level end distinction the ReaderStack
needs: EndOfStream (U+FFFE), fed through the state machine when the
current Stream runs dry, and EndOfLexer (U+FFFF), fed once the ReaderStack
itself is empty. Both are expected to never occur as legitimate source
characters.
*/
package lex
