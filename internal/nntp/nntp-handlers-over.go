package nntp

import (
	"fmt"
	"strconv"
	"strings"
)

// handleOver implements OVER and its literal alias XOVER (spec.md §4.4).
func (s *ClientSession) handleOver() bool {
	switch len(s.requestArgs) {
	case 0:
		if s.selectedGroup == nil {
			return s.respond(CodeNoGroupSelected, "No newsgroup selected")
		}
		if !s.haveCurrent {
			return s.respond(CodeNoCurrentArticle, "Current article number is invalid")
		}
		article, ok := s.selectedGroup.GetArticleNumbered(s.currentArticle)
		if !ok {
			return s.respond(CodeNoCurrentArticle, "Current article number is invalid")
		}
		return s.sendOverview([]NumberedArticle{{Number: s.currentArticle, Article: article}})

	case 1:
		arg := s.requestArgs[0]
		if IsMessageIdForm(arg) {
			id, err := ParseMessageId(arg)
			if err != nil {
				return s.respond(CodeNoSuchArticleID, "No article with that message-id")
			}
			article, ok := s.persistence.GetArticle(id)
			if !ok {
				return s.respond(CodeNoSuchArticleID, "No article with that message-id")
			}
			number := ArticleNumber(0)
			if s.selectedGroup != nil {
				if n, ok := s.selectedGroup.GetArticleNumber(id); ok {
					number = n
				}
			}
			return s.sendOverview([]NumberedArticle{{Number: number, Article: article}})
		}

		if s.selectedGroup == nil {
			return s.respond(CodeNoGroupSelected, "No newsgroup selected")
		}
		low, high, err := parseOverviewRange(arg, s.selectedGroup.Metrics().High)
		if err != nil {
			return s.respond(CodeSyntaxError, err.Error())
		}
		articles := s.selectedGroup.ArticlesNumbered(low, high)
		if len(articles) == 0 {
			return s.respond(CodeNoSuchArticleNumber, "No articles in range")
		}
		return s.sendOverview(articles)

	default:
		return s.respond(CodeSyntaxError, "Too many arguments")
	}
}

// parseOverviewRange accepts "n", "n-", and "n-m". A leading "-m" open
// range is rejected with 501 per spec.md §4.4 and the Open Question in §9.
func parseOverviewRange(spec string, groupHigh ArticleNumber) (low, high ArticleNumber, err error) {
	if strings.HasPrefix(spec, "-") {
		return 0, 0, fmt.Errorf("invalid range: leading '-m' form not supported")
	}
	if !strings.Contains(spec, "-") {
		n, perr := strconv.ParseInt(spec, 10, 64)
		if perr != nil {
			return 0, 0, fmt.Errorf("invalid article number")
		}
		return ArticleNumber(n), ArticleNumber(n), nil
	}
	parts := strings.SplitN(spec, "-", 2)
	lowN, perr := strconv.ParseInt(parts[0], 10, 64)
	if perr != nil {
		return 0, 0, fmt.Errorf("invalid range start")
	}
	if parts[1] == "" {
		return ArticleNumber(lowN), groupHigh, nil
	}
	highN, perr := strconv.ParseInt(parts[1], 10, 64)
	if perr != nil {
		return 0, 0, fmt.Errorf("invalid range end")
	}
	return ArticleNumber(lowN), ArticleNumber(highN), nil
}

// sendOverview writes the 224 reply and one tab-separated overview line
// per article, per spec.md §4.4.
func (s *ClientSession) sendOverview(articles []NumberedArticle) bool {
	if err := s.framing.writeResponseLine(CodeOverviewFollows, "Overview information follows"); err != nil {
		return false
	}
	for _, na := range articles {
		if err := s.framing.writeRaw(formatOverviewLine(na)); err != nil {
			return false
		}
	}
	return s.framing.writeDotTerminator() == nil
}

// formatOverviewLine renders one overview line: number, subject, from,
// date, message-id, references, bytes, lines — tab separated, with
// CR/LF/TAB in any field converted to a single space.
func formatOverviewLine(na NumberedArticle) string {
	h := na.Article.Headers
	references := strings.Join(h.All("References"), " ")
	fields := []string{
		strconv.FormatInt(int64(na.Number), 10),
		sanitizeDataLine(h.Get("Subject")),
		sanitizeDataLine(h.Get("From")),
		sanitizeDataLine(h.Get("Date")),
		na.Article.ID.String(),
		sanitizeDataLine(references),
		strconv.Itoa(na.Article.Bytes),
		strconv.Itoa(na.Article.Lines),
	}
	return strings.Join(fields, "\t")
}
