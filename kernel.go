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

	"github.com/emirpasic/gods/sets/treeset"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Kernel is the immutable-after-build configuration a Lexer scans against:
// delimiters, comments, string pairs, special-prefix characters, keywords
// (case-sensitive and case-insensitive), and the whitespace-emission flags.
//
// A built Kernel never mutates, so a single instance may be shared by any
// number of Lexers, including ones running on different goroutines as long
// as they never share a ReaderStack concurrently (see package preprocessor
// and spec §5 in the design notes).
type Kernel struct {
	delimStart           *treeset.Set // rune, sorted for fast probing
	endCommentDelimStart *treeset.Set // rune

	delimTable        map[string]TokenType
	commentStartTable map[string]TokenType
	commentEndTable   map[string]TokenType
	commentLineTable  map[string]TokenType

	stringDelimTable  map[rune]rune
	specialDelimTable map[rune]TokenType

	delimPrefixes      map[string]struct{}
	commentEndPrefixes map[string]struct{}

	keywordTable               map[string]TokenType
	caseInsensitiveKeywordFold map[string]TokenType // keys already case-folded
	fold                       cases.Caser

	decimalSeparator rune

	includeSpaces      bool
	includeTabs        bool
	includeNewlines    bool
	includeStreamBreak bool
}

func runeComparator(a, b interface{}) int {
	ra, rb := a.(rune), b.(rune)
	switch {
	case ra < rb:
		return -1
	case ra > rb:
		return 1
	default:
		return 0
	}
}

// defaultDecimalSeparator derives the decimal separator for tag the way a
// locale-aware number formatter would render one, rather than hard-coding
// '.'. Go has no portable "current host locale" primitive without cgo, so
// callers that need a locale other than language.English should use
// NewKernelBuilderForLocale.
func defaultDecimalSeparator(tag language.Tag) rune {
	p := message.NewPrinter(tag)
	s := p.Sprintf("%v", number.Decimal(1.5))
	for _, r := range s {
		if r < '0' || r > '9' {
			return r
		}
	}
	return '.'
}

// KernelBuilder assembles a Kernel. Nothing about a Kernel is safe to
// mutate once lexing has started, so configuration happens here and
// Build freezes the result.
type KernelBuilder struct {
	k *Kernel
}

// NewKernelBuilder creates a builder for a blank Kernel using English as
// the assumed host locale for the default decimal separator.
func NewKernelBuilder() *KernelBuilder {
	return NewKernelBuilderForLocale(language.English)
}

// NewKernelBuilderForLocale creates a builder for a blank Kernel whose
// default decimal separator is derived from tag.
func NewKernelBuilderForLocale(tag language.Tag) *KernelBuilder {
	return &KernelBuilder{k: &Kernel{
		delimStart:                 treeset.NewWith(runeComparator),
		endCommentDelimStart:       treeset.NewWith(runeComparator),
		delimTable:                 map[string]TokenType{},
		commentStartTable:          map[string]TokenType{},
		commentEndTable:            map[string]TokenType{},
		commentLineTable:           map[string]TokenType{},
		stringDelimTable:           map[rune]rune{},
		specialDelimTable:          map[rune]TokenType{},
		delimPrefixes:              map[string]struct{}{},
		commentEndPrefixes:         map[string]struct{}{},
		keywordTable:               map[string]TokenType{},
		caseInsensitiveKeywordFold: map[string]TokenType{},
		fold:                       cases.Fold(),
		decimalSeparator:           defaultDecimalSeparator(tag),
	}}
}

func typeCheck(t TokenType) {
	if t < 0 {
		panic(fmt.Errorf("lex: user token type cannot be negative, got %d", t))
	}
}

func keyCheck(s string) {
	if s == "" {
		panic(fmt.Errorf("lex: delimiter/keyword lexeme cannot be empty"))
	}
}

// AddDelimiter registers a plain delimiter lexeme.
func (b *KernelBuilder) AddDelimiter(delimiter string, t TokenType) *KernelBuilder {
	typeCheck(t)
	keyCheck(delimiter)
	runes := []rune(delimiter)
	b.k.delimStart.Add(runes[0])
	b.k.delimTable[delimiter] = t
	addPrefixes(b.k.delimPrefixes, runes)
	return b
}

// addPrefixes registers every non-empty prefix of runes (including the
// full string) in set, so the delimiter DFA can recognize "still extending
// toward a known delimiter" without re-scanning every table on each char.
func addPrefixes(set map[string]struct{}, runes []rune) {
	for i := 1; i <= len(runes); i++ {
		set[string(runes[:i])] = struct{}{}
	}
}

// AddStringDelimiter registers an opening/closing character pair that
// starts and ends a string token, e.g. AddStringDelimiter('"', '"') or
// AddStringDelimiter('[', ']').
func (b *KernelBuilder) AddStringDelimiter(start, end rune) *KernelBuilder {
	b.k.stringDelimTable[start] = end
	return b
}

// AddSpecialDelimiter registers a single-character special prefix: any run
// of non-whitespace characters starting with specialDelim is captured as
// one token of type t, taking precedence over string and plain delimiter
// processing.
func (b *KernelBuilder) AddSpecialDelimiter(specialDelim rune, t TokenType) *KernelBuilder {
	b.k.specialDelimTable[specialDelim] = t
	return b
}

// AddCommentStartDelimiter registers a delimiter that both opens a block
// comment and is discoverable by the plain delimiter DFA.
func (b *KernelBuilder) AddCommentStartDelimiter(delimiter string, t TokenType) *KernelBuilder {
	b.AddDelimiter(delimiter, t)
	b.k.commentStartTable[delimiter] = t
	return b
}

// AddCommentEndDelimiter registers a delimiter that closes a block comment.
func (b *KernelBuilder) AddCommentEndDelimiter(delimiter string, t TokenType) *KernelBuilder {
	b.AddDelimiter(delimiter, t)
	runes := []rune(delimiter)
	b.k.endCommentDelimStart.Add(runes[0])
	b.k.commentEndTable[delimiter] = t
	addPrefixes(b.k.commentEndPrefixes, runes)
	return b
}

// AddCommentLineDelimiter registers a delimiter that starts a line comment
// running to the next newline.
func (b *KernelBuilder) AddCommentLineDelimiter(delimiter string, t TokenType) *KernelBuilder {
	b.AddDelimiter(delimiter, t)
	b.k.commentLineTable[delimiter] = t
	return b
}

// AddKeyword registers a case-sensitive keyword.
func (b *KernelBuilder) AddKeyword(keyword string, t TokenType) *KernelBuilder {
	typeCheck(t)
	keyCheck(keyword)
	b.k.keywordTable[keyword] = t
	return b
}

// AddCaseInsensitiveKeyword registers a case-insensitive keyword. Lookup
// uses Unicode case folding (golang.org/x/text/cases), not a simple
// strings.ToLower, so it behaves correctly for non-ASCII identifiers too.
func (b *KernelBuilder) AddCaseInsensitiveKeyword(keyword string, t TokenType) *KernelBuilder {
	typeCheck(t)
	keyCheck(keyword)
	b.k.caseInsensitiveKeywordFold[b.k.fold.String(keyword)] = t
	return b
}

// SetIncludeSpaces controls whether single-space tokens are emitted.
func (b *KernelBuilder) SetIncludeSpaces(v bool) *KernelBuilder { b.k.includeSpaces = v; return b }

// SetIncludeTabs controls whether single-tab tokens are emitted.
func (b *KernelBuilder) SetIncludeTabs(v bool) *KernelBuilder { b.k.includeTabs = v; return b }

// SetIncludeNewlines controls whether newline tokens are emitted.
func (b *KernelBuilder) SetIncludeNewlines(v bool) *KernelBuilder { b.k.includeNewlines = v; return b }

// SetIncludeStreamBreak controls whether end-of-stream tokens are emitted.
func (b *KernelBuilder) SetIncludeStreamBreak(v bool) *KernelBuilder {
	b.k.includeStreamBreak = v
	return b
}

// SetDecimalSeparator overrides the locale-derived decimal separator.
func (b *KernelBuilder) SetDecimalSeparator(r rune) *KernelBuilder {
	b.k.decimalSeparator = r
	return b
}

// Build freezes and returns the configured Kernel. The builder must not be
// used again afterwards.
func (b *KernelBuilder) Build() *Kernel {
	k := b.k
	b.k = nil
	return k
}

func (k *Kernel) isDelimiterStart(r rune) bool           { return k.delimStart.Contains(r) }
func (k *Kernel) isCommentEndDelimiterStart(r rune) bool { return k.endCommentDelimStart.Contains(r) }

func (k *Kernel) isStringStart(r rune) bool {
	_, ok := k.stringDelimTable[r]
	return ok
}

func (k *Kernel) stringEnd(r rune) rune { return k.stringDelimTable[r] }

func (k *Kernel) isSpecialStart(r rune) bool {
	_, ok := k.specialDelimTable[r]
	return ok
}

func (k *Kernel) specialType(r rune) TokenType { return k.specialDelimTable[r] }

func (k *Kernel) isPoint(r rune) bool { return r == k.decimalSeparator }

// lookupIdentifier resolves an identifier lexeme to its token type,
// checking the case-sensitive keyword table first, then the
// case-insensitive one, falling back to IdentifierType.
func (k *Kernel) lookupIdentifier(lexeme string) TokenType {
	if t, ok := k.keywordTable[lexeme]; ok {
		return t
	}
	if t, ok := k.caseInsensitiveKeywordFold[k.fold.String(lexeme)]; ok {
		return t
	}
	return IdentifierType
}

// lookupDelimiter resolves a finished DELIMITER lexeme to its token type,
// checking comment-start, comment-end, comment-line, then plain
// delimiters, in that order.
func (k *Kernel) lookupDelimiter(lexeme string) TokenType {
	if t, ok := k.commentStartTable[lexeme]; ok {
		return t
	}
	if t, ok := k.commentEndTable[lexeme]; ok {
		return t
	}
	if t, ok := k.commentLineTable[lexeme]; ok {
		return t
	}
	if t, ok := k.delimTable[lexeme]; ok {
		return t
	}
	return -1 // unreachable in practice: every DELIMITER lexeme was built from delimTable
}

// IncludesNewlines reports whether this Kernel was built with
// SetIncludeNewlines(true). Package preprocessor requires this.
func (k *Kernel) IncludesNewlines() bool { return k.includeNewlines }

// SpecialType reports the registered special-prefix type for r, if any.
// Package preprocessor uses this to verify '#' was wired correctly.
func (k *Kernel) SpecialType(r rune) (TokenType, bool) {
	t, ok := k.specialDelimTable[r]
	return t, ok
}

func (k *Kernel) isCommentEnd(lexeme string) bool {
	_, ok := k.commentEndTable[lexeme]
	return ok
}

func (k *Kernel) isCommentEndPrefix(lexeme string) bool {
	_, ok := k.commentEndPrefixes[lexeme]
	return ok
}

// delimStep is the outcome of feeding one more character into the
// DELIMITER accumulator.
type delimStep int

const (
	// delimContinue means lexeme+r is still a valid prefix of some
	// registered delimiter: keep accumulating.
	delimContinue delimStep = iota
	// delimToComment means lexeme+r exactly matches a comment-start
	// delimiter: discard the lexeme and switch to block-comment scanning.
	delimToComment
	// delimToLineComment is delimToComment's line-comment counterpart.
	delimToLineComment
	// delimDone means lexeme+r extends nothing further: finalize lexeme
	// as a DELIMITER token and feed r back in on the next call.
	delimDone
)

// delimiterStep implements the "DELIMITER accumulator" rule: extend as
// long as lexeme+r is a prefix found in delim_table, comment_start_table,
// or comment_line_table, but transition immediately to a comment state the
// moment lexeme+r exactly completes a comment-start or line-comment
// delimiter.
func (k *Kernel) delimiterStep(lexeme string, r rune) (delimStep, string) {
	candidate := lexeme + string(r)
	if _, ok := k.commentStartTable[candidate]; ok {
		return delimToComment, candidate
	}
	if _, ok := k.commentLineTable[candidate]; ok {
		return delimToLineComment, candidate
	}
	if _, ok := k.delimPrefixes[candidate]; ok {
		return delimContinue, candidate
	}
	return delimDone, lexeme
}
