package wildmat

import "testing"

func TestMatch(t *testing.T) {
	cases := []struct {
		pattern, name string
		want          bool
	}{
		{"", "comp.lang.go", true},
		{"*", "comp.lang.go", true},
		{"comp.*", "comp.lang.go", true},
		{"comp.*", "rec.lang.go", false},
		{"comp.lang.?o", "comp.lang.go", true},
		{"comp.lang.?o", "comp.lang.goo", false},
		{"comp.*,!comp.lang.go", "comp.lang.go", false},
		{"comp.*,!comp.lang.go", "comp.lang.c", true},
		{"comp.*,!comp.lang.*,comp.lang.go", "comp.lang.go", true},
		{"alt.*", "comp.lang.go", false},
	}
	for _, c := range cases {
		if got := Match(c.pattern, c.name); got != c.want {
			t.Errorf("Match(%q, %q) = %v, want %v", c.pattern, c.name, got, c.want)
		}
	}
}
