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
Package preprocessor implements C4, a C-style directive layer over package
lex: #include, #define, #undefine, #ifdef, #ifndef and #endif.

CommonLexer wraps a *lex.Lexer by composition rather than inheritance --
the original organization had one lexer subclass override a single method,
which composition expresses more plainly in Go: CommonLexer holds a
*lex.Lexer and a pushback token stack, and implements the same NextToken
contract by delegating to the wrapped Lexer and post-processing its
output.
*/
package preprocessor

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/emirpasic/gods/stacks/linkedliststack"
	"github.com/hashicorp/go-multierror"

	lex "github.com/BlackRookSoftware/CommonLang"
)

// PreprocessorDirectiveType is the reserved user type CommonLexer forces
// onto the '#' special-prefix, mirroring CommonLexerKernel.java's
// TYPE_PREPROCESSOR_DIRECTIVE = 0x7fffffff.
const PreprocessorDirectiveType lex.TokenType = 0x7fffffff

const (
	directiveInclude  = "#include"
	directiveDefine   = "#define"
	directiveUndefine = "#undefine"
	directiveIfdef    = "#ifdef"
	directiveIfndef   = "#ifndef"
	directiveEndif    = "#endif"
)

// NewKernelBuilder returns a lex.KernelBuilder pre-configured the way
// CommonLexer requires: newlines included (directive lines are delimited
// by them) and '#' registered as a special prefix of type
// PreprocessorDirectiveType. NewCommonLexer verifies both hold before
// wrapping a Lexer, the way CommonLexerKernel.java rejects a kernel that
// overrides either.
func NewKernelBuilder() *lex.KernelBuilder {
	return lex.NewKernelBuilder().
		SetIncludeNewlines(true).
		AddSpecialDelimiter('#', PreprocessorDirectiveType)
}

// ResourceResolver opens the source named by includePath relative to
// currentStream, returning the name to attach to tokens coming from it.
type ResourceResolver func(currentStream, includePath string) (name string, r io.ReadCloser, err error)

// DefaultResourceResolver mirrors CommonLexer.java's getNextResourceName:
// try includePath resolved against the directory of currentStream first,
// falling back to includePath verbatim.
func DefaultResourceResolver(currentStream, includePath string) (string, io.ReadCloser, error) {
	if currentStream != "" {
		candidate := filepath.Join(filepath.Dir(currentStream), includePath)
		if _, err := os.Stat(candidate); err == nil {
			f, err := os.Open(candidate)
			return candidate, f, err
		}
	}
	f, err := os.Open(includePath)
	return includePath, f, err
}

// CommonLexer is C4.
type CommonLexer struct {
	lexer    *lex.Lexer
	pushback *linkedliststack.Stack // *lex.Token
	ifStack  *linkedliststack.Stack // bool
	macros   map[string][]*lex.Token
	resolve  ResourceResolver
	errs     error
}

// NewCommonLexer wraps lexer, which must have been built from a Kernel
// returned (directly or indirectly) by NewKernelBuilder.
func NewCommonLexer(lexer *lex.Lexer, kernel *lex.Kernel) (*CommonLexer, error) {
	if !kernel.IncludesNewlines() {
		return nil, fmt.Errorf("preprocessor: kernel must be built with SetIncludeNewlines(true)")
	}
	if t, ok := kernel.SpecialType('#'); !ok || t != PreprocessorDirectiveType {
		return nil, fmt.Errorf("preprocessor: kernel must register '#' as a special delimiter of type PreprocessorDirectiveType")
	}
	return &CommonLexer{
		lexer:    lexer,
		pushback: linkedliststack.New(),
		ifStack:  linkedliststack.New(),
		macros:   map[string][]*lex.Token{},
		resolve:  DefaultResourceResolver,
	}, nil
}

// SetResourceResolver overrides how #include targets are opened.
func (c *CommonLexer) SetResourceResolver(r ResourceResolver) { c.resolve = r }

// AddDefineMacro defines a macro programmatically, as #define would,
// without requiring a directive line in the source. Mirrors
// CommonLexer.java#addDefineMacro; cmd/lexcat's -D flag uses this.
func (c *CommonLexer) AddDefineMacro(name string, tokens []*lex.Token) {
	c.macros[name] = tokens
}

// RemoveDefineMacro undoes AddDefineMacro or a #define directive.
func (c *CommonLexer) RemoveDefineMacro(name string) {
	delete(c.macros, name)
}

// DumpMacros returns the currently defined macro names in sorted order,
// for diagnostics.
func (c *CommonLexer) DumpMacros() []string {
	names := make([]string, 0, len(c.macros))
	for n := range c.macros {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Errors returns the accumulated preprocessor error log, or nil if empty.
func (c *CommonLexer) Errors() error { return c.errs }

func (c *CommonLexer) addError(format string, args ...interface{}) error {
	err := fmt.Errorf("%s:%d: %s",
		c.lexer.Stack().CurrentStreamName(), c.lexer.Stack().CurrentLine(), fmt.Sprintf(format, args...))
	c.errs = multierror.Append(c.errs, err)
	return err
}

// pull reads one raw token, preferring the pushback stack over the
// wrapped Lexer -- this is what keeps macro expansion's LIFO order and
// lets directive handlers see newlines that NextToken itself drops.
func (c *CommonLexer) pull() (*lex.Token, error) {
	if v, ok := c.pushback.Pop(); ok {
		return v.(*lex.Token), nil
	}
	return c.lexer.NextToken()
}

func (c *CommonLexer) ifActive() bool {
	v, ok := c.ifStack.Peek()
	if !ok {
		return true
	}
	return v.(bool)
}

// NextToken implements the CommonLexer pull contract: drop newlines,
// drop non-directive tokens inside a false conditional branch, expand
// macro references, and dispatch directives, repeating until an ordinary
// token is ready to hand to the caller.
func (c *CommonLexer) NextToken() (*lex.Token, error) {
	for {
		tok, err := c.pull()
		if err != nil {
			return nil, err
		}
		if tok == nil {
			return nil, nil
		}

		if tok.Type == lex.DelimNewlineType {
			continue
		}

		if !c.ifActive() && tok.Type != PreprocessorDirectiveType {
			continue
		}

		if tok.Type == lex.IdentifierType {
			if expansion, ok := c.macros[tok.Lexeme]; ok {
				for i := len(expansion) - 1; i >= 0; i-- {
					c.pushback.Push(expansion[i])
				}
				continue
			}
			return tok, nil
		}

		if tok.Type == PreprocessorDirectiveType {
			if err := c.dispatch(tok); err != nil {
				return nil, err
			}
			continue
		}

		return tok, nil
	}
}

func (c *CommonLexer) dispatch(directive *lex.Token) error {
	switch directive.Lexeme {
	case directiveInclude:
		return c.doInclude()
	case directiveDefine:
		return c.doDefine()
	case directiveUndefine:
		return c.doUndefine()
	case directiveIfdef:
		return c.doIfdef(true)
	case directiveIfndef:
		return c.doIfdef(false)
	case directiveEndif:
		return c.doEndif()
	default:
		return c.addError("unknown preprocessor directive %q", directive.Lexeme)
	}
}

func (c *CommonLexer) doInclude() error {
	tok, err := c.pull()
	if err != nil {
		return err
	}
	if tok == nil || tok.Type != lex.StringType {
		return c.addError("expected string literal after #include")
	}
	name, r, err := c.resolve(c.lexer.Stack().CurrentStreamName(), tok.Lexeme)
	if err != nil {
		return c.addError("include target %q not found: %v", tok.Lexeme, err)
	}
	c.lexer.Stack().Push(name, r)
	return nil
}

func (c *CommonLexer) doDefine() error {
	nameTok, err := c.pull()
	if err != nil {
		return err
	}
	if nameTok == nil || nameTok.Type != lex.IdentifierType {
		return c.addError("expected identifier after #define")
	}
	name := nameTok.Lexeme
	list := arraylist.New()
	for {
		tok, err := c.pull()
		if err != nil {
			return err
		}
		if tok == nil || tok.Type == lex.DelimNewlineType {
			break
		}
		if tok.Lexeme == name {
			return c.addError("recursive definition of macro %q", name)
		}
		list.Add(tok)
	}
	tokens := make([]*lex.Token, 0, list.Size())
	it := list.Iterator()
	for it.Next() {
		tokens = append(tokens, it.Value().(*lex.Token))
	}
	c.macros[name] = tokens
	return nil
}

func (c *CommonLexer) doUndefine() error {
	tok, err := c.pull()
	if err != nil {
		return err
	}
	if tok == nil || tok.Type != lex.IdentifierType {
		return c.addError("expected identifier after #undefine")
	}
	delete(c.macros, tok.Lexeme)
	return nil
}

func (c *CommonLexer) doIfdef(wantDefined bool) error {
	tok, err := c.pull()
	if err != nil {
		return err
	}
	if tok == nil || tok.Type != lex.IdentifierType {
		return c.addError("expected identifier after #ifdef/#ifndef")
	}
	_, defined := c.macros[tok.Lexeme]
	c.ifStack.Push(defined == wantDefined)
	return nil
}

func (c *CommonLexer) doEndif() error {
	if _, ok := c.ifStack.Pop(); !ok {
		return c.addError("#endif without matching #ifdef/#ifndef")
	}
	return nil
}
