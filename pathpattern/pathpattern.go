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
Package pathpattern implements C5: an Apache-style wildcard path matcher,
independent of package lex. A Pattern compiles into an ordered sequence of
Nodes -- DIRECTORY, ANY_DIRECTORY (a "**" segment) or FILE -- and Matches
walks pattern nodes against path segments with its own two-level state
machine, not a generic glob library: the precedence between "**" consuming
zero-or-more directories and a literal segment's own "*"/"?" globbing is
specific enough that no off-the-shelf matcher reproduces it.
*/
package pathpattern

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/cnf/structhash"
)

// NodeType tags a Node.
type NodeType int

const (
	// Directory is a literal (possibly globbed) path segment that is not
	// the pattern's last segment.
	Directory NodeType = iota
	// AnyDirectory is the special "**" segment: zero or more directories.
	AnyDirectory
	// File is a literal (possibly globbed) final path segment.
	File
)

func (t NodeType) String() string {
	switch t {
	case Directory:
		return "DIRECTORY"
	case AnyDirectory:
		return "ANY_DIRECTORY"
	case File:
		return "FILE"
	default:
		return "UNKNOWN"
	}
}

// Node is one segment of a compiled Pattern.
type Node struct {
	Type    NodeType
	Pattern string
}

// Pattern is an immutable, compiled path pattern.
type Pattern struct {
	nodes []Node
}

const anyDirectorySegment = "**"

// Compile splits path on '/' into Nodes. A segment of exactly "**" becomes
// AnyDirectory; a segment containing "**" but not equal to it, an empty
// segment, or a trailing separator is a compile error. A pattern that
// reduces to a single FILE node is prefixed with a synthetic AnyDirectory
// node so that a bare filename pattern matches at any depth.
func Compile(path string) (*Pattern, error) {
	if path == "" {
		return nil, fmt.Errorf("pathpattern: empty pattern")
	}
	segments := strings.Split(path, "/")
	nodes := make([]Node, 0, len(segments))
	for i, seg := range segments {
		if seg == "" {
			return nil, fmt.Errorf("pathpattern: %q has an empty segment (consecutive or trailing separator)", path)
		}
		if seg == anyDirectorySegment {
			nodes = append(nodes, Node{Type: AnyDirectory, Pattern: seg})
			continue
		}
		if strings.Contains(seg, anyDirectorySegment) {
			return nil, fmt.Errorf("pathpattern: %q mixes ** with other characters in segment %q", path, seg)
		}
		if i == len(segments)-1 {
			nodes = append(nodes, Node{Type: File, Pattern: seg})
		} else {
			nodes = append(nodes, Node{Type: Directory, Pattern: seg})
		}
	}
	if len(nodes) == 1 && nodes[0].Type == File {
		nodes = append([]Node{{Type: AnyDirectory, Pattern: anyDirectorySegment}}, nodes...)
	}
	return &Pattern{nodes: nodes}, nil
}

// Nodes returns the compiled node sequence. The returned slice must not be
// mutated.
func (p *Pattern) Nodes() []Node { return p.nodes }

// String renders the pattern back to its textual form. Compile(p.String())
// reproduces an equal Pattern.
func (p *Pattern) String() string {
	parts := make([]string, len(p.nodes))
	for i, n := range p.nodes {
		parts[i] = n.Pattern
	}
	return strings.Join(parts, "/")
}

// Matches reports whether path matches the pattern, case-sensitively.
func (p *Pattern) Matches(path string) (bool, error) { return p.matches(path, false) }

// MatchesFold reports whether path matches the pattern, case-insensitively.
func (p *Pattern) MatchesFold(path string) (bool, error) { return p.matches(path, true) }

func (p *Pattern) matches(path string, fold bool) (bool, error) {
	if strings.ContainsAny(path, "*?") {
		return false, fmt.Errorf("pathpattern: target path %q must not contain wildcard characters", path)
	}
	segments := strings.Split(path, "/")
	for _, s := range segments {
		if s == "" {
			return false, fmt.Errorf("pathpattern: target path %q has an empty segment", path)
		}
	}

	n, m := len(p.nodes), len(segments)
	ni, pi := 0, 0
	for ni < n && pi < m {
		node := p.nodes[ni]
		if node.Type == AnyDirectory {
			if ni+1 >= n {
				return true, nil
			}
			next := p.nodes[ni+1]
			if matchFile(next.Pattern, segments[pi], fold) {
				ni++
			} else {
				pi++
			}
			continue
		}
		if !matchFile(node.Pattern, segments[pi], fold) {
			return false, nil
		}
		ni++
		pi++
	}
	for ni < n {
		if p.nodes[ni].Type != AnyDirectory {
			return false, nil
		}
		ni++
	}
	return pi == m, nil
}

// matchFile is the per-segment glob matcher: '?' matches any single
// character, '*' matches any run of characters including zero (consecutive
// stars collapse naturally), literal characters match themselves. The
// sentinel pattern "*" alone always matches.
func matchFile(pattern, target string, fold bool) bool {
	if pattern == "*" {
		return true
	}
	return globMatch([]rune(pattern), []rune(target), fold)
}

func globMatch(pattern, target []rune, fold bool) bool {
	p, t := 0, 0
	starP, starT := -1, 0
	for t < len(target) {
		switch {
		case p < len(pattern) && pattern[p] == '?':
			p++
			t++
		case p < len(pattern) && pattern[p] == '*':
			starP, starT = p, t
			p++
		case p < len(pattern) && runesEqual(pattern[p], target[t], fold):
			p++
			t++
		case starP != -1:
			starT++
			p, t = starP+1, starT
		default:
			return false
		}
	}
	for p < len(pattern) && pattern[p] == '*' {
		p++
	}
	return p == len(pattern)
}

func runesEqual(a, b rune, fold bool) bool {
	if a == b {
		return true
	}
	if !fold {
		return false
	}
	return unicode.ToLower(a) == unicode.ToLower(b)
}

// Equal reports structural equality: same node sequence, in order.
func (p *Pattern) Equal(other *Pattern) bool {
	if other == nil || len(p.nodes) != len(other.nodes) {
		return false
	}
	for i := range p.nodes {
		if p.nodes[i] != other.nodes[i] {
			return false
		}
	}
	return true
}

// Hash is the sum of per-node hashes, computed with
// github.com/cnf/structhash so that equal Patterns (per Equal) always
// produce equal Hash values.
func (p *Pattern) Hash() uint64 {
	var sum uint64
	for _, n := range p.nodes {
		sum += nodeHash(n)
	}
	return sum
}

func nodeHash(n Node) uint64 {
	s, err := structhash.Hash(n, 1)
	if err != nil {
		return 0
	}
	var h uint64
	for _, b := range []byte(s) {
		h = h*31 + uint64(b)
	}
	return h
}
