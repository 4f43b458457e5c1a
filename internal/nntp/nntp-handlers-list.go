package nntp

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/postus-nntp/postus/internal/wildmat"
)

// handleList implements LIST [ACTIVE|NEWSGROUPS [wildmat]] (spec.md §4.4).
func (s *ClientSession) handleList() bool {
	sub := "ACTIVE"
	rest := s.requestArgs
	if len(rest) > 0 {
		sub = strings.ToUpper(rest[0])
		rest = rest[1:]
	}
	switch sub {
	case "ACTIVE":
		return s.listActive()
	case "NEWSGROUPS":
		pattern := ""
		if len(rest) > 0 {
			pattern = rest[0]
		}
		return s.listNewsgroups(pattern)
	default:
		return s.respond(CodeCommandUnavailable, "Unknown LIST variant")
	}
}

func (s *ClientSession) listActive() bool {
	if err := s.framing.writeResponseLine(CodeListFollows, "List of newsgroups follows"); err != nil {
		return false
	}
	for _, g := range s.persistence.ListAllGroups(false, false) {
		if g.Ignored() {
			continue
		}
		m := g.Metrics()
		line := fmt.Sprintf("%s %d %d %s", g.Name().String(), int64(m.High), int64(m.Low), g.PostingMode().statusChar())
		if err := s.framing.writeRaw(line); err != nil {
			return false
		}
	}
	return s.framing.writeDotTerminator() == nil
}

func (s *ClientSession) listNewsgroups(pattern string) bool {
	if err := s.framing.writeResponseLine(CodeListFollows, "List of newsgroups follows"); err != nil {
		return false
	}
	for _, g := range s.persistence.ListAllGroups(false, false) {
		if g.Ignored() {
			continue
		}
		name := g.Name().String()
		if pattern != "" && !wildmat.Match(pattern, name) {
			continue
		}
		line := name + "\t" + sanitizeDataLine(g.Description())
		if err := s.framing.writeRaw(line); err != nil {
			return false
		}
	}
	return s.framing.writeDotTerminator() == nil
}

// parseNNTPDateTime parses the 8-digit date / 6-digit time pair used by
// NEWGROUPS and NEWNEWS, with an optional trailing "GMT"/dists args
// ignored as equivalent (both are always interpreted as UTC).
func parseNNTPDateTime(date, clock string) (time.Time, error) {
	if len(date) != 8 {
		return time.Time{}, fmt.Errorf("invalid date %q", date)
	}
	if len(clock) != 6 {
		return time.Time{}, fmt.Errorf("invalid time %q", clock)
	}
	if _, err := strconv.Atoi(date); err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", date)
	}
	if _, err := strconv.Atoi(clock); err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q", clock)
	}
	t, err := time.ParseInLocation("20060102150405", date+clock, time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

// handleNewgroups implements NEWGROUPS date time [GMT] [dists] (spec.md §4.4).
func (s *ClientSession) handleNewgroups() bool {
	if len(s.requestArgs) < 2 {
		return s.respond(CodeSyntaxError, "NEWGROUPS requires date and time")
	}
	since, err := parseNNTPDateTime(s.requestArgs[0], s.requestArgs[1])
	if err != nil {
		return s.respond(CodeSyntaxError, "Invalid date/time")
	}

	if err := s.framing.writeResponseLine(CodeNewGroupsFollows, "List of new newsgroups follows"); err != nil {
		return false
	}
	for _, g := range s.persistence.ListAllGroupsAddedSince(since) {
		if g.Ignored() {
			continue
		}
		m := g.Metrics()
		line := fmt.Sprintf("%s %d %d %s", g.Name().String(), int64(m.High), int64(m.Low), g.PostingMode().statusChar())
		if err := s.framing.writeRaw(line); err != nil {
			return false
		}
	}
	return s.framing.writeDotTerminator() == nil
}

// handleNewnews implements NEWNEWS wildmat date time [GMT] [dists]
// (spec.md §4.4), de-duplicating message-ids across matching groups while
// preserving first-occurrence order.
func (s *ClientSession) handleNewnews() bool {
	if len(s.requestArgs) < 3 {
		return s.respond(CodeSyntaxError, "NEWNEWS requires wildmat, date, and time")
	}
	pattern := s.requestArgs[0]
	since, err := parseNNTPDateTime(s.requestArgs[1], s.requestArgs[2])
	if err != nil {
		return s.respond(CodeSyntaxError, "Invalid date/time")
	}

	if err := s.framing.writeResponseLine(CodeNewNewsFollows, "List of new articles follows"); err != nil {
		return false
	}
	seen := make(map[MessageId]bool)
	for _, g := range s.persistence.ListAllGroups(false, false) {
		if g.Ignored() || !wildmat.Match(pattern, g.Name().String()) {
			continue
		}
		for _, na := range g.ArticlesSince(since) {
			if na.Article == nil || seen[na.Article.ID] {
				continue
			}
			seen[na.Article.ID] = true
			if err := s.framing.writeRaw(na.Article.ID.String()); err != nil {
				return false
			}
		}
	}
	return s.framing.writeDotTerminator() == nil
}
