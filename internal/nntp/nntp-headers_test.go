package nntp

import "testing"

func baseHeaderMap() map[string][]string {
	return map[string][]string{
		"Message-ID": {"<1@example.test>"},
		"Newsgroups": {"example.test"},
		"Subject":    {"hello"},
		"From":       {"a@example.test"},
		"Date":       {"Mon, 01 Jan 2024 00:00:00 +0000"},
		"Path":       {"example.test!not-for-email"},
	}
}

func TestNewArticleHeadersRequiresAllRequired(t *testing.T) {
	for _, missing := range requiredHeaders {
		raw := baseHeaderMap()
		delete(raw, missing)
		if _, err := NewArticleHeaders(raw); err == nil {
			t.Errorf("expected error when %q is missing", missing)
		}
	}
}

func TestNewArticleHeadersCaseInsensitiveLookup(t *testing.T) {
	h, err := NewArticleHeaders(baseHeaderMap())
	if err != nil {
		t.Fatalf("NewArticleHeaders: %v", err)
	}
	if h.Get("subject") != "hello" {
		t.Errorf("Get(\"subject\") = %q, want %q", h.Get("subject"), "hello")
	}
	if !h.Has("FROM") {
		t.Error("expected Has(\"FROM\") to find the From header")
	}
}

func TestArticleHeadersRenderLinesSkipsLinesAndBytes(t *testing.T) {
	raw := baseHeaderMap()
	raw["Lines"] = []string{"5"}
	raw["Bytes"] = []string{"100"}
	h, err := NewArticleHeaders(raw)
	if err != nil {
		t.Fatalf("NewArticleHeaders: %v", err)
	}
	for _, line := range h.RenderLines() {
		if line == "Lines: 5" || line == "Bytes: 100" {
			t.Errorf("RenderLines should not re-emit Lines/Bytes, got %q", line)
		}
	}
}

func TestCanonicalizeUnknownHeader(t *testing.T) {
	if got := canonicalize("x-custom-header"); got != "X-custom-header" {
		t.Errorf("canonicalize(%q) = %q", "x-custom-header", got)
	}
}
