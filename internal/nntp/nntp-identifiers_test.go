package nntp

import "testing"

func TestParseMessageId(t *testing.T) {
	cases := []struct {
		raw     string
		wantErr bool
	}{
		{"<1@example.test>", false},
		{"<>", true},
		{"no-brackets", true},
		{"<has space@example.test>", true},
		{"<nested<@example.test>", true},
	}
	for _, c := range cases {
		_, err := ParseMessageId(c.raw)
		if (err != nil) != c.wantErr {
			t.Errorf("ParseMessageId(%q) error = %v, wantErr %v", c.raw, err, c.wantErr)
		}
	}
}

func TestIsMessageIdForm(t *testing.T) {
	if !IsMessageIdForm("<1@example.test>") {
		t.Error("expected angle-bracket token to look like a message-id")
	}
	if IsMessageIdForm("123") {
		t.Error("expected bare number not to look like a message-id")
	}
}

func TestParseNewsgroupName(t *testing.T) {
	if _, err := ParseNewsgroupName("example.test"); err != nil {
		t.Errorf("unexpected error for valid name: %v", err)
	}
	if _, err := ParseNewsgroupName(""); err == nil {
		t.Error("expected error for empty name")
	}
	if _, err := ParseNewsgroupName("example..test"); err == nil {
		t.Error("expected error for empty component")
	}
	if _, err := ParseNewsgroupName("example.t est"); err == nil {
		t.Error("expected error for illegal character")
	}
}

func TestNewsgroupNameEqualFold(t *testing.T) {
	a, _ := ParseNewsgroupName("Example.Test")
	b, _ := ParseNewsgroupName("example.test")
	if !a.EqualFold(b) {
		t.Error("expected case-insensitive equality")
	}
	if a.String() == b.String() {
		t.Error("expected case to be preserved in String()")
	}
}
