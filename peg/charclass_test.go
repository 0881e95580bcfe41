package peg

import "testing"

func TestCharClassMatches(t *testing.T) {
	cc := Class(Range('w', 'z'), Char('8'), Range('p', 'q'))
	for _, r := range "wxyz8pq" {
		if !cc.Matches(r) {
			t.Errorf("expected %q to match %s", r, cc)
		}
	}
	for _, r := range "abv79or WZ" {
		if cc.Matches(r) {
			t.Errorf("expected %q not to match %s", r, cc)
		}
	}
}

func TestCharClassUnicode(t *testing.T) {
	cc := Class(Range('α', 'ω'))
	if !cc.Matches('λ') {
		t.Errorf("expected λ to be a lower case greek letter")
	}
	if cc.Matches('Λ') {
		t.Errorf("expected no case folding for Λ")
	}
}

func TestCharClassString(t *testing.T) {
	cc := Class(Range('w', 'z'), Char('8'))
	if s := cc.String(); s != "[ 'w'-'z' | '8' ]" {
		t.Errorf("unexpected class rendering %s", s)
	}
	if e := Class(Char('a')).expectation(); e != "'a'" {
		t.Errorf("expected singleton class to be described as 'a', is %s", e)
	}
}
