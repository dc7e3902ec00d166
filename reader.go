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
	"bufio"
	"fmt"
	"io"

	"github.com/emirpasic/gods/stacks/linkedliststack"
)

// Stream is one named character source on a ReaderStack: a file, an
// in-memory buffer, anything that implements io.Reader, tagged with a name
// used in diagnostics and in Token.StreamName.
type Stream struct {
	name     string
	r        *bufio.Reader
	closer   io.Closer
	line     int
	lineText []rune
}

// NewStream wraps r as a named Stream. If r implements io.Closer, the
// ReaderStack closes it when the Stream is popped.
func NewStream(name string, r io.Reader) *Stream {
	s := &Stream{name: name, r: bufio.NewReader(r), line: 1}
	if c, ok := r.(io.Closer); ok {
		s.closer = c
	}
	return s
}

// Name is this Stream's diagnostic name.
func (s *Stream) Name() string { return s.name }

// Line is the current 1-based line number.
func (s *Stream) Line() int { return s.line }

// LineText is the text of the current line read so far, for diagnostics.
func (s *Stream) LineText() string { return string(s.lineText) }

// Close releases the underlying reader if it is an io.Closer.
func (s *Stream) Close() error {
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

// readChar returns the next rune, or EndOfStream once this Stream alone is
// exhausted. Any other read error is returned as-is.
func (s *Stream) readChar() (rune, error) {
	r, _, err := s.r.ReadRune()
	if err == io.EOF {
		return EndOfStream, nil
	}
	if err != nil {
		return 0, err
	}
	if r == Newline {
		s.line++
		s.lineText = s.lineText[:0]
	} else {
		s.lineText = append(s.lineText, r)
	}
	return r, nil
}

// ReaderStack is a LIFO of Streams that a Lexer reads through as if it were
// a single, seamless character source. Pushing a new Stream (e.g. for a
// preprocessor #include) shadows the current one; once the new Stream runs
// dry it is popped automatically and reading resumes on the one beneath it.
//
// The stack is backed by github.com/emirpasic/gods/stacks/linkedliststack,
// the same structure used for the preprocessor's if-stack and macro
// pushback stack.
type ReaderStack struct {
	stack *linkedliststack.Stack
	done  bool
}

// NewReaderStack returns an empty ReaderStack.
func NewReaderStack() *ReaderStack {
	return &ReaderStack{stack: linkedliststack.New()}
}

// Push adds a new Stream on top of the stack.
func (rs *ReaderStack) Push(name string, r io.Reader) {
	rs.stack.Push(NewStream(name, r))
	rs.done = false
}

// Peek returns the top Stream without removing it.
func (rs *ReaderStack) Peek() (*Stream, bool) {
	v, ok := rs.stack.Peek()
	if !ok {
		return nil, false
	}
	return v.(*Stream), true
}

// Pop removes and closes the top Stream.
func (rs *ReaderStack) Pop() (*Stream, error) {
	v, ok := rs.stack.Pop()
	if !ok {
		return nil, fmt.Errorf("lex: pop on empty ReaderStack")
	}
	s := v.(*Stream)
	return s, s.Close()
}

// Size is the number of Streams currently on the stack.
func (rs *ReaderStack) Size() int { return rs.stack.Size() }

// IsEmpty reports whether the stack has no Streams left.
func (rs *ReaderStack) IsEmpty() bool { return rs.stack.Empty() }

// CurrentStreamName is the name of the top Stream, or "" if the stack is
// empty.
func (rs *ReaderStack) CurrentStreamName() string {
	if s, ok := rs.Peek(); ok {
		return s.name
	}
	return ""
}

// CurrentLine is the top Stream's current line number, or 0 if the stack
// is empty.
func (rs *ReaderStack) CurrentLine() int {
	if s, ok := rs.Peek(); ok {
		return s.line
	}
	return 0
}

// CurrentLineText is the top Stream's current line text, or "" if the
// stack is empty.
func (rs *ReaderStack) CurrentLineText() string {
	if s, ok := rs.Peek(); ok {
		return s.LineText()
	}
	return ""
}

// ReadChar returns the next rune across the whole stack: ordinary runes
// from the top Stream, EndOfStream exactly once per Stream as it is popped,
// and EndOfLexer forever afterwards once the stack itself is empty.
func (rs *ReaderStack) ReadChar() (rune, error) {
	if rs.done {
		return EndOfLexer, nil
	}
	s, ok := rs.Peek()
	if !ok {
		rs.done = true
		return EndOfLexer, nil
	}
	r, err := s.readChar()
	if err != nil {
		return 0, err
	}
	if r == EndOfStream {
		if _, err := rs.Pop(); err != nil {
			return 0, err
		}
		if rs.IsEmpty() {
			rs.done = true
		}
		return EndOfStream, nil
	}
	return r, nil
}

// Close pops and closes every remaining Stream, top to bottom. Callers
// that abandon a Lexer mid-stream (e.g. on a fatal parse error) should call
// this to release any open file handles.
func (rs *ReaderStack) Close() error {
	var err error
	for !rs.stack.Empty() {
		if _, e := rs.Pop(); e != nil {
			err = e
		}
	}
	rs.done = true
	return err
}
