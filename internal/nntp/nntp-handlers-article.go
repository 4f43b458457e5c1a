package nntp

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// articleKind selects which sections of an article ARTICLE/HEAD/BODY/STAT
// emit, per spec.md §4.4.
type articleKind int

const (
	kindArticle articleKind = iota // headers + body
	kindHead                      // headers only
	kindBody                      // body only
	kindStat                      // status only
)

// handleArticle, handleHead, handleBody, handleStat all share the lookup
// logic in retrieveArticle, differing only in which parts of the article
// they emit and which reply code they use.
func (s *ClientSession) handleArticle() bool { return s.retrieveArticle(kindArticle) }
func (s *ClientSession) handleHead() bool    { return s.retrieveArticle(kindHead) }
func (s *ClientSession) handleBody() bool    { return s.retrieveArticle(kindBody) }
func (s *ClientSession) handleStat() bool    { return s.retrieveArticle(kindStat) }

// retrieveArticle implements the shared ARTICLE/HEAD/BODY/STAT logic of
// spec.md §4.4: 0 args uses the current article; a "<...>" argument looks
// up by message-id without touching the cursor; a numeric argument looks
// up by number within the selected group.
func (s *ClientSession) retrieveArticle(kind articleKind) bool {
	var (
		article *Article
		number  ArticleNumber
	)

	switch len(s.requestArgs) {
	case 0:
		if s.selectedGroup == nil {
			return s.respond(CodeNoGroupSelected, "No newsgroup selected")
		}
		if !s.haveCurrent {
			return s.respond(CodeNoCurrentArticle, "Current article number is invalid")
		}
		a, ok := s.selectedGroup.GetArticleNumbered(s.currentArticle)
		if !ok {
			return s.respond(CodeNoCurrentArticle, "Current article number is invalid")
		}
		article, number = a, s.currentArticle

	case 1:
		arg := s.requestArgs[0]
		if IsMessageIdForm(arg) {
			id, err := ParseMessageId(arg)
			if err != nil {
				return s.respond(CodeNoSuchArticleID, "No article with that message-id")
			}
			a, ok := s.persistence.GetArticle(id)
			if !ok {
				return s.respond(CodeNoSuchArticleID, "No article with that message-id")
			}
			article = a
			number = 0
			if s.selectedGroup != nil {
				if n, ok := s.selectedGroup.GetArticleNumber(id); ok {
					number = n
				}
			}
			// Message-id lookups never move the cursor (spec.md §8 invariant).
		} else {
			if s.selectedGroup == nil {
				return s.respond(CodeNoGroupSelected, "No newsgroup selected")
			}
			n, err := strconv.ParseInt(arg, 10, 64)
			if err != nil {
				return s.respond(CodeSyntaxError, "Invalid article number")
			}
			a, ok := s.selectedGroup.GetArticleNumbered(ArticleNumber(n))
			if !ok {
				return s.respond(CodeNoSuchArticleNumber, "No article with that number")
			}
			article, number = a, ArticleNumber(n)
		}

	default:
		return s.respond(CodeSyntaxError, "Too many arguments")
	}

	return s.sendArticle(kind, article, number)
}

func (s *ClientSession) sendArticle(kind articleKind, article *Article, number ArticleNumber) bool {
	var code int
	var label string
	switch kind {
	case kindArticle:
		code, label = CodeArticleFollows, "Article follows"
	case kindHead:
		code, label = CodeHeadFollows, "Headers follow"
	case kindBody:
		code, label = CodeBodyFollows, "Body follows"
	case kindStat:
		code, label = CodeArticleExists, "Article exists"
	}

	if err := s.framing.writeResponseLine(code, fmt.Sprintf("%d %s %s", int64(number), article.ID.String(), label)); err != nil {
		return false
	}
	if kind == kindStat {
		return true
	}

	if kind == kindArticle || kind == kindHead {
		for _, line := range article.Headers.RenderLines() {
			if err := s.framing.writeDataLine(line); err != nil {
				return false
			}
		}
	}
	if kind == kindArticle {
		if err := s.framing.writeDataLine(""); err != nil {
			return false
		}
	}
	if kind == kindArticle || kind == kindBody {
		if article.Open != nil {
			r, err := article.Open()
			if err != nil {
				return false
			}
			if err := s.copyBodyVerbatim(r); err != nil {
				return false
			}
		}
	}
	return s.framing.writeDotTerminator() == nil
}

// copyBodyVerbatim writes the stored body exactly as transmitted: the
// body is already dot-stuffed in storage (spec.md §9 design note), so no
// further stuffing happens here, only CRLF line framing.
func (s *ClientSession) copyBodyVerbatim(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		if err := s.framing.writeRaw(scanner.Text()); err != nil {
			return err
		}
	}
	return scanner.Err()
}
