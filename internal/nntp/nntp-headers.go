package nntp

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// InvalidArticleHeader is raised (returned) when header construction is
// missing one of the non-optional standard headers.
type InvalidArticleHeader struct {
	Missing string
}

func (e *InvalidArticleHeader) Error() string {
	return fmt.Sprintf("invalid article header: missing required header %q", e.Missing)
}

// requiredHeaders are the non-optional standard headers per spec.md §3.
var requiredHeaders = []string{"Message-ID", "Newsgroups", "Subject", "From", "Date", "Path"}

// canonicalNames maps a lower-cased header name to its canonical
// capitalization, so lookups stay case-insensitive while storage keeps the
// form clients expect to see echoed back.
var canonicalNames = map[string]string{
	"message-id": "Message-ID",
	"newsgroups": "Newsgroups",
	"subject":    "Subject",
	"from":       "From",
	"date":       "Date",
	"path":       "Path",
	"references": "References",
	"lines":      "Lines",
	"bytes":      "Bytes",
}

func canonicalize(name string) string {
	lower := strings.ToLower(name)
	if canon, ok := canonicalNames[lower]; ok {
		return canon
	}
	if lower == "" {
		return name
	}
	return strings.ToUpper(lower[:1]) + lower[1:]
}

// ArticleHeaders is a case-insensitive header name -> ordered value set
// mapping. Multi-value headers (Newsgroups, References) keep every value
// supplied at construction, in order, without duplicates.
type ArticleHeaders struct {
	values map[string][]string // keyed by canonical name
	order  []string            // canonical names in first-seen order
}

// NewArticleHeaders constructs ArticleHeaders from a name->values map,
// normalizing non-UTF-8 textual values to UTF-8 first (legacy Latin-1 mail
// gateways still emit raw 8-bit Subject/From bytes). Construction fails
// with *InvalidArticleHeader if any required header is absent or empty.
func NewArticleHeaders(raw map[string][]string) (*ArticleHeaders, error) {
	h := &ArticleHeaders{values: make(map[string][]string, len(raw))}
	for name, vals := range raw {
		canon := canonicalize(name)
		if _, exists := h.values[canon]; !exists {
			h.order = append(h.order, canon)
		}
		merged := h.values[canon]
		for _, v := range vals {
			merged = appendUnique(merged, normalizeHeaderValue(v))
		}
		h.values[canon] = merged
	}
	for _, required := range requiredHeaders {
		vals, ok := h.values[required]
		if !ok || len(vals) == 0 || strings.TrimSpace(vals[0]) == "" {
			return nil, &InvalidArticleHeader{Missing: required}
		}
	}
	return h, nil
}

// normalizeHeaderValue decodes legacy Latin-1 header bytes to UTF-8 when
// the value isn't already valid UTF-8. Grounded on the teacher's
// internal/models.ConvertToUTF8, scoped here to the plain charset-fixup
// half of that routine (MIME encoded-word and HTML-entity decoding belong
// to the web rendering layer, not wire-protocol header construction).
func normalizeHeaderValue(v string) string {
	if isValidUTF8(v) {
		return v
	}
	enc, err := htmlindex.Get("latin1")
	if err != nil {
		enc = charmap.ISO8859_1
	}
	out, _, err := transform.String(enc.NewDecoder(), v)
	if err != nil {
		return v
	}
	return out
}

func isValidUTF8(s string) bool {
	for _, r := range s {
		if r == '�' {
			return false
		}
	}
	return true
}

// Get returns the first value for a header, or "" if absent.
func (h *ArticleHeaders) Get(name string) string {
	vals := h.All(name)
	if len(vals) == 0 {
		return ""
	}
	return vals[0]
}

// All returns every value recorded for a header, in insertion order.
func (h *ArticleHeaders) All(name string) []string {
	return h.values[canonicalize(name)]
}

// Has reports whether a header was supplied at all.
func (h *ArticleHeaders) Has(name string) bool {
	_, ok := h.values[canonicalize(name)]
	return ok
}

// Names returns every header name present, in first-seen order.
func (h *ArticleHeaders) Names() []string {
	return append([]string(nil), h.order...)
}

// RenderLines formats each header as "Name: value" lines suitable for
// ARTICLE/HEAD output, skipping Lines and Bytes per spec.md §4.4 (those
// are metadata the engine recomputes, not stored header text to re-emit).
func (h *ArticleHeaders) RenderLines() []string {
	var out []string
	for _, name := range h.order {
		if name == "Lines" || name == "Bytes" {
			continue
		}
		for _, v := range h.values[name] {
			out = append(out, name+": "+v)
		}
	}
	return out
}
