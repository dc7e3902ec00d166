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

// Command lexcat exercises the lex/preprocessor stack end to end: it
// tokenizes a file, optionally through the preprocessor layer, and offers
// an interactive REPL for the same.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/chzyer/readline"
	"github.com/pterm/pterm"

	lex "github.com/BlackRookSoftware/CommonLang"
	"github.com/BlackRookSoftware/CommonLang/preprocessor"
)

// tokenSource is satisfied by both *lex.Lexer and *preprocessor.CommonLexer.
type tokenSource interface {
	NextToken() (*lex.Token, error)
}

type tokenizeCmd struct {
	File       string   `arg:"" help:"Source file to tokenize."`
	Preprocess bool     `short:"p" help:"Run the source through the preprocessor layer."`
	Define     []string `short:"D" help:"Pre-seed a macro as NAME=value (preprocessor mode only)."`
	Debug      bool     `help:"Print each token through the debug sink as it is emitted."`
}

type replCmd struct {
	Preprocess bool `short:"p" help:"Run each line through the preprocessor layer."`
}

var cli struct {
	Tokenize tokenizeCmd `cmd:"" help:"Tokenize a file and print its tokens."`
	Repl     replCmd     `cmd:"" help:"Interactively tokenize lines of input."`
}

// defaultKernel builds a small demonstration Kernel: C-ish delimiters,
// block/line comments, double-quoted strings, and a few keywords. Real
// hosts build their own; this is just enough for lexcat to have something
// to tokenize.
func defaultKernel(preprocess bool) *lex.Kernel {
	var b *lex.KernelBuilder
	if preprocess {
		b = preprocessor.NewKernelBuilder()
	} else {
		b = lex.NewKernelBuilder()
	}
	return b.
		AddStringDelimiter('"', '"').
		AddCommentStartDelimiter("/*", 1).
		AddCommentEndDelimiter("*/", 2).
		AddCommentLineDelimiter("//", 3).
		AddDelimiter("+", 10).
		AddDelimiter("-", 11).
		AddDelimiter("*", 12).
		AddDelimiter("/", 13).
		AddDelimiter("=", 14).
		AddDelimiter("==", 15).
		AddDelimiter("(", 16).
		AddDelimiter(")", 17).
		AddDelimiter("{", 18).
		AddDelimiter("}", 19).
		AddDelimiter(";", 20).
		AddDelimiter(",", 21).
		AddCaseInsensitiveKeyword("if", 100).
		AddCaseInsensitiveKeyword("else", 101).
		AddCaseInsensitiveKeyword("while", 102).
		Build()
}

func printToken(tok *lex.Token) {
	pterm.Printf("%4d  %-24d %q\n", tok.Line, tok.Type, tok.Lexeme)
}

func debugSink() lex.DebugSink {
	return lex.DebugSinkFunc(func(tok *lex.Token) {
		pterm.Debug.Printfln("%s:%d type=%d %q", tok.StreamName, tok.Line, tok.Type, tok.Lexeme)
	})
}

func newSource(kernel *lex.Kernel, lexer *lex.Lexer, preprocess bool, defines []string) (tokenSource, error) {
	if !preprocess {
		return lexer, nil
	}
	cl, err := preprocessor.NewCommonLexer(lexer, kernel)
	if err != nil {
		return nil, err
	}
	for _, def := range defines {
		name, value, _ := strings.Cut(def, "=")
		cl.AddDefineMacro(name, []*lex.Token{{
			StreamName: "-D", Lexeme: value, Type: lex.NumberType,
		}})
	}
	return cl, nil
}

func (t *tokenizeCmd) Run() error {
	f, err := os.Open(t.File)
	if err != nil {
		return err
	}
	defer f.Close()

	kernel := defaultKernel(t.Preprocess)
	lexer := lex.NewLexer(kernel, t.File, f)
	if t.Debug {
		lexer.SetDebugSink(debugSink())
	}

	source, err := newSource(kernel, lexer, t.Preprocess, t.Define)
	if err != nil {
		return err
	}

	for {
		tok, err := source.NextToken()
		if err != nil {
			return err
		}
		if tok == nil {
			return nil
		}
		printToken(tok)
	}
}

func (r *replCmd) Run() error {
	rl, err := readline.New("lexcat> ")
	if err != nil {
		return err
	}
	defer rl.Close()

	kernel := defaultKernel(r.Preprocess)

	for {
		line, err := rl.Readline()
		if err != nil {
			return nil
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		lexer := lex.NewLexerFromString(kernel, "<repl>", line)
		source, err := newSource(kernel, lexer, r.Preprocess, nil)
		if err != nil {
			pterm.Error.Println(err)
			continue
		}
		for {
			tok, err := source.NextToken()
			if err != nil {
				pterm.Error.Println(err)
				break
			}
			if tok == nil {
				break
			}
			printToken(tok)
		}
	}
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("lexcat"),
		kong.Description("Tokenize files or input lines through the CommonLang lexical toolkit."))
	err := ctx.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
