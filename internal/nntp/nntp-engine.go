package nntp

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/textproto"
	"strings"
	"time"
)

const (
	ServerProductName    = "Postus"
	ServerProductVersion = "0.7"
)

// localLogGroupFormat is the well-known startup log group created per
// spec.md §6.5, parameterized by the server's own host identifier.
const localLogGroupFormat = "local.nntp.%s.log"

// ProtocolEngine drives one connection's read/dispatch/commit loop. It
// owns no state of its own beyond what's needed to bootstrap and run a
// ClientSession; all mutable per-connection state lives on the session.
type ProtocolEngine struct {
	session *ClientSession
}

// NewProtocolEngine builds an engine over an accepted connection, with the
// collaborators to bind to its ClientSession.
func NewProtocolEngine(conn net.Conn, registry *HandlerRegistry, persistence Persistence, identity Identity, policy Policy, stats *ServerStats) *ProtocolEngine {
	textConn := textproto.NewConn(conn)
	writer := bufio.NewWriter(conn)
	framing := NewFraming(textConn, writer)
	session := NewClientSession(framing, registry, persistence, identity, policy, stats)
	return &ProtocolEngine{session: session}
}

// Run executes the engine lifecycle described in spec.md §4.3: bootstrap,
// greet, loop, and always-run finalization. It returns true if the
// connection ended gracefully (EOF or QUIT) and false if it was
// terminated by a protocol or I/O failure.
func (e *ProtocolEngine) Run() (graceful bool) {
	s := e.session
	defer func() {
		if r := recover(); r != nil {
			log.Printf("nntp: panic in connection handler: %v", r)
			s.framing.writeResponseLine(CodeCommandNotRecognized, "Internal error")
			graceful = false
		}
		s.persistence.Commit()
		s.framing.Close()
	}()

	if err := e.bootstrap(); err != nil {
		log.Printf("nntp: startup bootstrap failed: %v", err)
	}

	if err := e.greet(); err != nil {
		return false
	}

	for {
		if err := s.framing.Flush(); err != nil {
			return false
		}
		s.persistence.Commit()

		line, err := s.framing.readLine()
		if err != nil {
			return errors.Is(err, io.EOF) // EOF: graceful; any other read error is an I/O failure
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		fields := strings.Fields(line)
		verb := Verb(strings.ToUpper(fields[0]))
		args := fields[1:]

		handler, ok := s.registry.Lookup(verb)
		if !ok {
			s.framing.writeResponseLine(CodeCommandNotRecognized, "Command not recognized")
			return false
		}

		s.requestArgs = args
		if s.stats != nil {
			s.stats.CommandExecuted(string(verb))
		}
		ok2 := handler(s)

		if verb == VerbQuit {
			return ok2
		}
		if !ok2 {
			return false
		}
	}
}

// bootstrap runs once per session (spec.md §6.5): ensure the local log
// group exists and append a single startup article to it.
func (e *ProtocolEngine) bootstrap() error {
	s := e.session
	host := s.identity.HostIdentifier()
	groupName, err := ParseNewsgroupName(fmt.Sprintf(localLogGroupFormat, sanitizeForGroupName(host)))
	if err != nil {
		return err
	}

	group, ok := s.persistence.GetGroupByName(groupName)
	if !ok {
		group, err = s.persistence.AddGroup(groupName, "Server activity log", PostingProhibited)
		if err != nil {
			return err
		}
	}

	now := time.Now().UTC()
	dateStr := now.Format(time.RFC1123Z)
	bodyText := fmt.Sprintf("Server started at %s\n", dateStr)

	headersMap := map[string][]string{
		"Newsgroups": {groupName.String()},
		"Subject":    {"Server activity log"},
		"From":       {host},
		"Date":       {dateStr},
		"Path":       {host + "!not-for-email"},
	}
	msgID, err := s.identity.CreateMessageID(nil)
	if err != nil {
		return err
	}
	headersMap["Message-ID"] = []string{msgID.String()}

	headers, err := NewArticleHeaders(headersMap)
	if err != nil {
		return err
	}

	group.SetPostingMode(PostingAllowed)
	err = group.AddArticle(msgID, headers, strings.NewReader(bodyText), false)
	group.SetPostingMode(PostingProhibited)
	return err
}

func sanitizeForGroupName(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '+' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	if b.Len() == 0 {
		return "server"
	}
	return b.String()
}

// greet sends the 200/201 greeting (spec.md §4.3 step 2, §6.3).
func (e *ProtocolEngine) greet() error {
	s := e.session
	code := CodePostingProhibited
	if s.policy.IsPostingAllowed("") {
		code = CodePostingAllowed
	}
	return s.framing.writeResponseLine(code, s.serverProduct, s.serverVersion)
}
