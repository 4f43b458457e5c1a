package nntp

import (
	"strings"
	"time"
)

// handleCapabilities implements CAPABILITIES: 101 then "VERSION 2", then
// every registered verb name, then ".".
func (s *ClientSession) handleCapabilities() bool {
	if err := s.framing.writeResponseLine(CodeCapabilitiesFollow, "Capability list:"); err != nil {
		return false
	}
	if err := s.framing.writeRaw("VERSION 2"); err != nil {
		return false
	}
	for _, name := range s.registry.HandlerNames() {
		if err := s.framing.writeRaw(name); err != nil {
			return false
		}
	}
	return s.framing.writeDotTerminator() == nil
}

// handleMode implements MODE READER: no mode switching is performed, the
// reply simply reflects posting permission, per spec.md §4.4.
func (s *ClientSession) handleMode() bool {
	if len(s.requestArgs) != 1 {
		return s.respond(CodeSyntaxError, "MODE requires exactly one argument")
	}
	if strings.ToUpper(s.requestArgs[0]) != "READER" {
		return s.respond(CodeCommandUnavailable, "Unsupported MODE")
	}
	code := CodePostingProhibited
	if s.policy.IsPostingAllowed("") {
		code = CodePostingAllowed
	}
	return s.respond(code, s.serverProduct, s.serverVersion)
}

// handleQuit implements QUIT: reply 205; the engine closes the connection
// because the handler returns true and the verb is QUIT (spec.md §4.3.f).
func (s *ClientSession) handleQuit() bool {
	return s.respond(CodeClosing, "")
}

// handleDate implements DATE: 0 args, 111 + current UTC time "yyyyMMddHHmmss".
func (s *ClientSession) handleDate() bool {
	if len(s.requestArgs) != 0 {
		return s.respond(CodeSyntaxError, "DATE takes no arguments")
	}
	return s.respond(CodeDate, time.Now().UTC().Format("20060102150405"))
}

var helpLines = []string{
	"Commands supported:",
	"  CAPABILITIES",
	"  MODE READER",
	"  LIST [ACTIVE|NEWSGROUPS [wildmat]]",
	"  GROUP <group>",
	"  LISTGROUP [<group>]",
	"  STAT|HEAD|BODY|ARTICLE [<msgid>|<number>]",
	"  OVER|XOVER [<range>|<msgid>]",
	"  NEWGROUPS <date> <time> [GMT]",
	"  NEWNEWS <wildmat> <date> <time> [GMT]",
	"  NEXT",
	"  LAST",
	"  POST",
	"  IHAVE <msgid>",
	"  DATE",
	"  QUIT",
	"",
	"See RFC 3977 for full semantics.",
}

// handleHelp implements HELP: 0 args, 100 + human-readable list + ".".
func (s *ClientSession) handleHelp() bool {
	if len(s.requestArgs) != 0 {
		return s.respond(CodeSyntaxError, "HELP takes no arguments")
	}
	if err := s.framing.writeResponseLine(CodeHelpFollows, "Help text follows"); err != nil {
		return false
	}
	for _, line := range helpLines {
		if err := s.framing.writeRaw(sanitizeDataLine(line)); err != nil {
			return false
		}
	}
	return s.framing.writeDotTerminator() == nil
}

// respond is a small convenience wrapper turning a Framing write error
// into the handler's boolean contract.
func (s *ClientSession) respond(code int, parts ...string) bool {
	return s.framing.writeResponseLine(code, parts...) == nil
}

// sanitizeDataLine converts embedded CR/LF/TAB to spaces so a listing or
// overview line can never smuggle a spurious "." line or break framing
// (spec.md §4.4 OVER/XOVER field sanitization, applied generally).
func sanitizeDataLine(s string) string {
	replacer := strings.NewReplacer("\r", " ", "\n", " ", "\t", " ")
	return replacer.Replace(s)
}
