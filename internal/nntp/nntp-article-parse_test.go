package nntp

import "testing"

func TestParseIncomingPayloadHappyPath(t *testing.T) {
	payload := "Message-ID: <1@example.test>" + CRLF +
		"Newsgroups: example.test" + CRLF +
		"Subject: hello" + CRLF +
		"From: a@example.test" + CRLF +
		"Date: Mon, 01 Jan 2024 00:00:00 +0000" + CRLF +
		"Path: example.test!not-for-email" + CRLF +
		CRLF +
		"body text"

	headers, body, err := parseIncomingPayload(payload)
	if err != nil {
		t.Fatalf("parseIncomingPayload: %v", err)
	}
	if headers.Get("Message-ID") != "<1@example.test>" {
		t.Errorf("Message-ID = %q", headers.Get("Message-ID"))
	}
	if body != "body text" {
		t.Errorf("body = %q", body)
	}
	if want := "Mon, 01 Jan 2024 00:00:00 +0000"; headers.Get("Date") != want {
		t.Errorf("Date = %q, want %q (weekday comma must survive, only Newsgroups/References split on ',')", headers.Get("Date"), want)
	}
}

func TestParseIncomingPayloadNoBlankLine(t *testing.T) {
	payload := "Message-ID: <1@example.test>" + CRLF + "body, no separator"
	if _, _, err := parseIncomingPayload(payload); err != errNoHeaderBodySplit {
		t.Errorf("expected errNoHeaderBodySplit, got %v", err)
	}
}

func TestParseIncomingPayloadEmptyBody(t *testing.T) {
	payload := "Message-ID: <1@example.test>" + CRLF + CRLF
	if _, _, err := parseIncomingPayload(payload); err != errEmptyBody {
		t.Errorf("expected errEmptyBody, got %v", err)
	}
}

func TestParseIncomingPayloadMalformedHeaderLine(t *testing.T) {
	payload := "not-a-header-line" + CRLF + CRLF + "body"
	if _, _, err := parseIncomingPayload(payload); err != errMalformedHeaderLine {
		t.Errorf("expected errMalformedHeaderLine, got %v", err)
	}
}

func TestParseIncomingPayloadDiscardsFoldedContinuations(t *testing.T) {
	payload := "Message-ID: <1@example.test>" + CRLF +
		"Newsgroups: example.test" + CRLF +
		"Subject: hello" + CRLF +
		" continued text that should be discarded" + CRLF +
		"From: a@example.test" + CRLF +
		"Date: Mon, 01 Jan 2024 00:00:00 +0000" + CRLF +
		"Path: example.test!not-for-email" + CRLF +
		CRLF +
		"body"

	headers, _, err := parseIncomingPayload(payload)
	if err != nil {
		t.Fatalf("parseIncomingPayload: %v", err)
	}
	if headers.Get("Subject") != "hello" {
		t.Errorf("Subject = %q, want unchanged by folded continuation", headers.Get("Subject"))
	}
}

func TestParseIncomingPayloadSplitsCommaSeparatedNewsgroups(t *testing.T) {
	payload := "Message-ID: <1@example.test>" + CRLF +
		"Newsgroups: example.test, example.other" + CRLF +
		"Subject: hello" + CRLF +
		"From: a@example.test" + CRLF +
		"Date: Mon, 01 Jan 2024 00:00:00 +0000" + CRLF +
		"Path: example.test!not-for-email" + CRLF +
		CRLF +
		"body"

	headers, _, err := parseIncomingPayload(payload)
	if err != nil {
		t.Fatalf("parseIncomingPayload: %v", err)
	}
	groups := newsgroupsFromHeaders(headers)
	if len(groups) != 2 || groups[0] != "example.test" || groups[1] != "example.other" {
		t.Errorf("Newsgroups = %v", groups)
	}
}
