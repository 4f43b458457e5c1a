package nntp

import "fmt"

// handleNext implements NEXT: advance the cursor to the next higher
// article (spec.md §4.4).
func (s *ClientSession) handleNext() bool {
	if s.selectedGroup == nil {
		return s.respond(CodeNoGroupSelected, "No newsgroup selected")
	}
	if !s.haveCurrent {
		return s.respond(CodeNoCurrentArticle, "Current article number is invalid")
	}
	next, ok := s.selectedGroup.GotoNext(s.currentArticle)
	if !ok {
		return s.respond(CodeNoNextArticle, "No next article in this group")
	}
	article, ok := s.selectedGroup.GetArticleNumbered(next)
	if !ok {
		return s.respond(CodeNoNextArticle, "No next article in this group")
	}
	s.setCurrentArticle(next)
	return s.respond(CodeArticleExists, fmt.Sprintf("%d %s", int64(next), article.ID.String()))
}

// handleLast implements LAST: move the cursor to the next lower article
// (spec.md §4.4).
func (s *ClientSession) handleLast() bool {
	if s.selectedGroup == nil {
		return s.respond(CodeNoGroupSelected, "No newsgroup selected")
	}
	if !s.haveCurrent {
		return s.respond(CodeNoCurrentArticle, "Current article number is invalid")
	}
	prev, ok := s.selectedGroup.GotoPrevious(s.currentArticle)
	if !ok {
		return s.respond(CodeNoPrevArticle, "No previous article in this group")
	}
	article, ok := s.selectedGroup.GetArticleNumbered(prev)
	if !ok {
		return s.respond(CodeNoPrevArticle, "No previous article in this group")
	}
	s.setCurrentArticle(prev)
	return s.respond(CodeArticleExists, fmt.Sprintf("%d %s", int64(prev), article.ID.String()))
}
