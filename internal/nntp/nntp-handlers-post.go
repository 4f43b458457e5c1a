package nntp

import "strings"

// handlePost implements POST (spec.md §4.4).
func (s *ClientSession) handlePost() bool {
	if len(s.requestArgs) != 0 {
		return s.respond(CodeSyntaxError, "POST takes no arguments")
	}
	if !s.policy.IsPostingAllowed("") {
		return s.respond(CodePostingNotPermitted, "Posting not permitted")
	}
	if err := s.framing.writeResponseLine(CodePostReady, "Send article to be posted. End with <CR-LF>.<CR-LF>"); err != nil {
		return false
	}

	payload, err := s.framing.readUntilDot()
	if err != nil {
		return false // stream failure: terminal per spec.md §7
	}

	headers, body, err := parseIncomingPayload(payload)
	if err != nil {
		return s.respond(CodePostingFailed, "Posting failed")
	}

	msgID, err := ParseMessageId(headers.Get("Message-ID"))
	if err != nil {
		return s.respond(CodePostingFailed, "Posting failed")
	}
	if s.persistence.HasArticle(msgID) {
		return s.respond(CodePostingFailed, "Posting failed")
	}

	accepted := s.distributeToGroups(msgID, headers, body, "")
	if !accepted {
		return s.respond(CodePostingFailed, "Posting failed")
	}
	return s.respond(CodePostAccepted, "Article posted successfully")
}

// distributeToGroups adds an accepted article to every known, non-ignored,
// non-prohibited destination group listed in its Newsgroups header,
// consulting policy per group. It returns true iff at least one group
// accepted the article (spec.md §4.4 POST/IHAVE).
func (s *ClientSession) distributeToGroups(id MessageId, headers *ArticleHeaders, body string, peer string) bool {
	accepted := false
	// Store the body in transmission form (dot-stuffed), the form that
	// ARTICLE/BODY re-emit verbatim.
	lines := strings.Split(body, CRLF)
	for i, line := range lines {
		if strings.HasPrefix(line, DOT) {
			lines[i] = DOT + line
		}
	}
	stored := strings.Join(lines, CRLF)
	for _, raw := range newsgroupsFromHeaders(headers) {
		name, err := ParseNewsgroupName(raw)
		if err != nil {
			continue
		}
		group, ok := s.persistence.GetGroupByName(name)
		if !ok || group.Ignored() {
			continue
		}
		mode := group.PostingMode()
		if mode == PostingProhibited {
			continue
		}
		approved := s.policy.IsArticleAllowed(id, headers, []byte(body), name, mode, peer)
		if err := group.AddArticle(id, headers, strings.NewReader(stored), !approved); err != nil {
			continue
		}
		if approved {
			accepted = true
		}
	}
	return accepted
}
