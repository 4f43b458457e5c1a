package nntp

import (
	"errors"
	"strings"
)

var (
	errNoHeaderBodySplit  = errors.New("nntp: no blank line separating headers from body")
	errMalformedHeaderLine = errors.New("nntp: malformed header line")
	errEmptyBody          = errors.New("nntp: empty body")
)

// multiValueHeaders lists the only headers whose value is split on ','
// per spec.md §3/§4.4 (Newsgroups, References). Every other header,
// notably Date ("Mon, 01 Jan 2024 ...") and From, keeps its value intact.
var multiValueHeaders = map[string]bool{
	"Newsgroups": true,
	"References": true,
}

// parseIncomingPayload splits a POST/IHAVE payload (already un-stuffed,
// CRLF-joined, terminator stripped) into headers and body, per spec.md
// §4.4 POST. Folded continuation lines are read but discarded, matching
// the Open Question resolution recorded in SPEC_FULL.md (the teacher's
// source discards them rather than concatenating, a deliberate RFC
// divergence spec.md preserves). Only multiValueHeaders split on ',' with
// surrounding whitespace trimmed; every other header keeps its value as
// one field. Lines and Bytes headers are discarded.
func parseIncomingPayload(payload string) (*ArticleHeaders, string, error) {
	idx := strings.Index(payload, CRLF+CRLF)
	if idx < 0 {
		return nil, "", errNoHeaderBodySplit
	}
	headerBlock := payload[:idx]
	body := payload[idx+len(CRLF+CRLF):]
	if body == "" {
		return nil, "", errEmptyBody
	}

	raw := make(map[string][]string)
	for _, line := range strings.Split(headerBlock, CRLF) {
		if line == "" {
			continue
		}
		if line[0] == ' ' || line[0] == '\t' {
			// Folded continuation: discarded per spec.md §9 Open Question.
			continue
		}
		colon := strings.Index(line, ":")
		if colon < 0 {
			return nil, "", errMalformedHeaderLine
		}
		name := strings.TrimSpace(line[:colon])
		value := strings.TrimSpace(line[colon+1:])
		if name == "" {
			return nil, "", errMalformedHeaderLine
		}
		canon := canonicalize(name)
		if canon == "Lines" || canon == "Bytes" {
			continue
		}
		if multiValueHeaders[canon] {
			for _, part := range strings.Split(value, ",") {
				part = strings.TrimSpace(part)
				if part == "" {
					continue
				}
				raw[canon] = appendUnique(raw[canon], part)
			}
		} else {
			raw[canon] = appendUnique(raw[canon], value)
		}
	}

	headers, err := NewArticleHeaders(raw)
	if err != nil {
		return nil, "", err
	}
	return headers, body, nil
}

func appendUnique(vals []string, v string) []string {
	for _, existing := range vals {
		if existing == v {
			return vals
		}
	}
	return append(vals, v)
}

// newsgroupsFromHeaders extracts the destination newsgroup names listed in
// a parsed Newsgroups header.
func newsgroupsFromHeaders(h *ArticleHeaders) []string {
	return h.All("Newsgroups")
}
