package pathpattern

import "testing"

func mustCompile(t *testing.T, pattern string) *Pattern {
	t.Helper()
	p, err := Compile(pattern)
	if err != nil {
		t.Fatalf("Compile(%q): %v", pattern, err)
	}
	return p
}

func TestDoubleStarMatchesAnyDepth(t *testing.T) {
	p := mustCompile(t, "**")
	for _, path := range []string{"a", "a/b", "a/b/c/d/e"} {
		ok, err := p.Matches(path)
		if err != nil {
			t.Fatalf("Matches(%q): %v", path, err)
		}
		if !ok {
			t.Errorf("Matches(%q) = false, want true", path)
		}
	}
}

func TestDoubleStarWithSuffix(t *testing.T) {
	p := mustCompile(t, "apple/**/orange/*.jsp")

	cases := []struct {
		path string
		want bool
	}{
		{"apple/pear/orange/x.jsp", true},
		{"apple/pear/lemon/orange/x.jsp", true},
		{"apple/orange/x.jsp", true},
		{"apple/orange/x.jsr", false},
	}
	for _, c := range cases {
		got, err := p.Matches(c.path)
		if err != nil {
			t.Fatalf("Matches(%q): %v", c.path, err)
		}
		if got != c.want {
			t.Errorf("Matches(%q) = %v, want %v", c.path, got, c.want)
		}
	}
}

func TestBareFilePatternMatchesAnyDepth(t *testing.T) {
	p := mustCompile(t, "*.txt")
	ok, err := p.Matches("a/b/c/readme.txt")
	if err != nil {
		t.Fatalf("Matches: %v", err)
	}
	if !ok {
		t.Errorf("Matches() = false, want true")
	}
}

func TestMatchesFoldIsCaseInsensitive(t *testing.T) {
	p := mustCompile(t, "apple/ORANGE.jsp")
	ok, err := p.MatchesFold("apple/orange.JSP")
	if err != nil {
		t.Fatalf("MatchesFold: %v", err)
	}
	if !ok {
		t.Errorf("MatchesFold() = false, want true")
	}
	ok, err = p.Matches("apple/orange.JSP")
	if err != nil {
		t.Fatalf("Matches: %v", err)
	}
	if ok {
		t.Errorf("Matches() (case-sensitive) = true, want false")
	}
}

func TestCompileRejectsMixedDoubleStarSegment(t *testing.T) {
	if _, err := Compile("a/**b/c"); err == nil {
		t.Errorf("want an error for a segment mixing ** with other characters")
	}
}

func TestCompileRejectsEmptySegment(t *testing.T) {
	if _, err := Compile("a//b"); err == nil {
		t.Errorf("want an error for an empty path segment")
	}
}

func TestStringRoundTrip(t *testing.T) {
	p := mustCompile(t, "apple/**/orange/*.jsp")
	s := p.String()
	reparsed := mustCompile(t, s)
	if !p.Equal(reparsed) {
		t.Errorf("Compile(p.String()) produced a different pattern: %q vs %q", s, reparsed.String())
	}
}

func TestEqualAndHash(t *testing.T) {
	a := mustCompile(t, "apple/**/orange/*.jsp")
	b := mustCompile(t, "apple/**/orange/*.jsp")
	c := mustCompile(t, "apple/**/lemon/*.jsp")

	if !a.Equal(b) {
		t.Errorf("identical patterns should be Equal")
	}
	if a.Hash() != b.Hash() {
		t.Errorf("identical patterns should have equal Hash values")
	}
	if a.Equal(c) {
		t.Errorf("different patterns should not be Equal")
	}
}

func TestMatchesRejectsWildcardTargetPath(t *testing.T) {
	p := mustCompile(t, "a/*.txt")
	if _, err := p.Matches("a/*.txt"); err == nil {
		t.Errorf("want an error when the target path itself contains wildcard characters")
	}
}
