package nntp

import "fmt"

// handleGroup implements GROUP <name> (spec.md §4.4).
func (s *ClientSession) handleGroup() bool {
	if len(s.requestArgs) != 1 {
		return s.respond(CodeSyntaxError, "GROUP requires exactly one argument")
	}
	name, err := ParseNewsgroupName(s.requestArgs[0])
	if err != nil {
		return s.respond(CodeSyntaxError, "Invalid newsgroup name")
	}
	group, ok := s.persistence.GetGroupByName(name)
	if !ok || group.Ignored() {
		return s.respond(CodeNoSuchGroup, "No such newsgroup")
	}

	s.selectGroup(group)
	m := group.Metrics()
	return s.respond(CodeGroupSelected, fmt.Sprintf("%d %d %d %s", int64(m.Count), int64(m.Low), int64(m.High), name.String()))
}

// handleListgroup implements LISTGROUP [name] (spec.md §4.4). With an
// argument, it looks the group up without altering the selected group.
func (s *ClientSession) handleListgroup() bool {
	var group Newsgroup
	var name NewsgroupName

	switch len(s.requestArgs) {
	case 0:
		if s.selectedGroup == nil {
			return s.respond(CodeNoGroupSelected, "No newsgroup selected")
		}
		group = s.selectedGroup
		name = group.Name()
	case 1:
		parsed, err := ParseNewsgroupName(s.requestArgs[0])
		if err != nil {
			return s.respond(CodeSyntaxError, "Invalid newsgroup name")
		}
		g, ok := s.persistence.GetGroupByName(parsed)
		if !ok || g.Ignored() {
			return s.respond(CodeNoSuchGroup, "No such newsgroup")
		}
		group, name = g, parsed
	default:
		return s.respond(CodeSyntaxError, "LISTGROUP takes at most one argument")
	}

	m := group.Metrics()
	if err := s.framing.writeResponseLine(CodeGroupSelected, fmt.Sprintf("%d %d %d %s", int64(m.Count), int64(m.Low), int64(m.High), name.String())); err != nil {
		return false
	}
	if m.Count > 0 {
		for _, na := range group.ArticlesNumbered(m.Low, m.High) {
			if err := s.framing.writeRaw(fmt.Sprintf("%d", int64(na.Number))); err != nil {
				return false
			}
		}
	}
	return s.framing.writeDotTerminator() == nil
}
