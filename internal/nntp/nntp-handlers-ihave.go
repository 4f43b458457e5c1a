package nntp

// handleIhave implements IHAVE <message-id> (spec.md §4.4).
func (s *ClientSession) handleIhave() bool {
	if len(s.requestArgs) != 1 {
		return s.respond(CodeSyntaxError, "IHAVE requires exactly one argument")
	}
	arg := s.requestArgs[0]
	id, err := ParseMessageId(arg)
	if err != nil {
		return s.respond(CodeSyntaxError, "Invalid message-id")
	}

	if !s.policy.IsIHaveTransferAllowed("") {
		return s.respond(CodeTransferRejected, "Transfer not permitted")
	}
	if s.persistence.HasArticle(id) || s.persistence.IsRejectedArticle(id) {
		return s.respond(CodeArticleNotWanted, "Not wanted")
	}

	if err := s.framing.writeResponseLine(CodeTransferReady, "Send me"); err != nil {
		return false
	}

	payload, err := s.framing.readUntilDot()
	if err != nil {
		s.respond(CodeTransferFailedRetry, "Retry later")
		return false
	}

	headers, body, perr := parseIncomingPayload(payload)
	if perr != nil {
		return s.respond(CodeTransferRejected, "Transfer rejected")
	}
	if headers.Get("Message-ID") != id.String() {
		return s.respond(CodeTransferRejected, "Transfer rejected")
	}

	if accepted := s.distributeToGroups(id, headers, body, arg); !accepted {
		s.persistence.RejectArticle(id)
		return s.respond(CodeTransferRejected, "Transfer rejected")
	}
	return s.respond(CodeTransferAccepted, "Article transferred successfully")
}
