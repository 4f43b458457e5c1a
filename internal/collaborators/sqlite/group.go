package sqlite

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/postus-nntp/postus/internal/nntp"
)

// group is the sqlite-backed nntp.Newsgroup implementation. Article bodies
// are read through the backend's articles table; group_articles maps this
// group's local numbering onto message-ids.
type group struct {
	backend     *Backend
	name        nntp.NewsgroupName
	description string
	createdAt   time.Time

	mode    nntp.PostingMode
	ignored bool
}

func (g *group) Name() nntp.NewsgroupName      { return g.name }
func (g *group) Description() string           { return g.description }
func (g *group) CreatedAt() time.Time          { return g.createdAt }
func (g *group) PostingMode() nntp.PostingMode { return g.mode }

func (g *group) SetPostingMode(m nntp.PostingMode) {
	g.mode = m
	g.backend.db.Exec(`UPDATE groups SET mode = ? WHERE name = ?`, int(m), g.name.String())
}

func (g *group) Ignored() bool { return g.ignored }

func (g *group) SetIgnored(v bool) {
	g.ignored = v
	ival := 0
	if v {
		ival = 1
	}
	g.backend.db.Exec(`UPDATE groups SET ignored = ? WHERE name = ?`, ival, g.name.String())
}

func (g *group) Metrics() nntp.NewsgroupMetrics {
	row := g.backend.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MIN(ga.number), 0), COALESCE(MAX(ga.number), -1)
		 FROM group_articles ga JOIN articles a ON a.message_id = ga.message_id
		 WHERE ga.group_name = ? AND a.rejected = 0`, g.name.String())
	var count int64
	var low, high int64
	if err := row.Scan(&count, &low, &high); err != nil {
		return nntp.NewsgroupMetrics{Count: 0, Low: nntp.LowWhenEmpty, High: nntp.HighWhenEmpty}
	}
	if count == 0 {
		return nntp.NewsgroupMetrics{Count: 0, Low: nntp.LowWhenEmpty, High: nntp.HighWhenEmpty}
	}
	return nntp.NewsgroupMetrics{Count: nntp.ArticleNumber(count), Low: nntp.ArticleNumber(low), High: nntp.ArticleNumber(high)}
}

func (g *group) GetArticleNumbered(n nntp.ArticleNumber) (*nntp.Article, bool) {
	row := g.backend.db.QueryRow(`SELECT message_id FROM group_articles WHERE group_name = ? AND number = ?`, g.name.String(), int64(n))
	var raw string
	if err := row.Scan(&raw); err != nil {
		return nil, false
	}
	return g.backend.GetArticle(nntp.MessageId(raw))
}

func (g *group) GetArticleNumber(id nntp.MessageId) (nntp.ArticleNumber, bool) {
	row := g.backend.db.QueryRow(`SELECT number FROM group_articles WHERE group_name = ? AND message_id = ?`, g.name.String(), id.String())
	var n int64
	if err := row.Scan(&n); err != nil {
		return 0, false
	}
	return nntp.ArticleNumber(n), true
}

func (g *group) ArticlesNumbered(low, high nntp.ArticleNumber) []nntp.NumberedArticle {
	rows, err := g.backend.db.Query(
		`SELECT number, message_id FROM group_articles WHERE group_name = ? AND number >= ? AND number <= ? ORDER BY number ASC`,
		g.name.String(), int64(low), int64(high))
	if err != nil {
		return nil
	}
	defer rows.Close()
	var out []nntp.NumberedArticle
	for rows.Next() {
		var n int64
		var raw string
		if err := rows.Scan(&n, &raw); err != nil {
			continue
		}
		article, ok := g.backend.GetArticle(nntp.MessageId(raw))
		if !ok {
			continue
		}
		out = append(out, nntp.NumberedArticle{Number: nntp.ArticleNumber(n), Article: article})
	}
	return out
}

func (g *group) ArticlesSince(t time.Time) []nntp.NumberedArticle {
	rows, err := g.backend.db.Query(
		`SELECT ga.number, ga.message_id FROM group_articles ga
		 JOIN articles a ON a.message_id = ga.message_id
		 WHERE ga.group_name = ? AND a.created_at >= ? AND a.rejected = 0
		 ORDER BY ga.number ASC`,
		g.name.String(), t.Unix())
	if err != nil {
		return nil
	}
	defer rows.Close()
	var out []nntp.NumberedArticle
	for rows.Next() {
		var n int64
		var raw string
		if err := rows.Scan(&n, &raw); err != nil {
			continue
		}
		article, ok := g.backend.GetArticle(nntp.MessageId(raw))
		if !ok {
			continue
		}
		out = append(out, nntp.NumberedArticle{Number: nntp.ArticleNumber(n), Article: article})
	}
	return out
}

func (g *group) AddArticle(id nntp.MessageId, headers *nntp.ArticleHeaders, body io.Reader, rejected bool) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	text := string(data)
	headerBlob, err := encodeHeaders(headers)
	if err != nil {
		return err
	}

	g.backend.mu.Lock()
	defer g.backend.mu.Unlock()

	rejectedInt := 0
	if rejected {
		rejectedInt = 1
	}
	_, err = g.backend.db.Exec(
		`INSERT OR IGNORE INTO articles(message_id, headers, body, bytes, lines, created_at, rejected)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id.String(), headerBlob, text, len(text), strings.Count(text, "\n")+1, time.Now().UTC().Unix(), rejectedInt)
	if err != nil {
		return fmt.Errorf("sqlite: insert article: %w", err)
	}

	row := g.backend.db.QueryRow(`SELECT COALESCE(MAX(number), 0) + 1 FROM group_articles WHERE group_name = ?`, g.name.String())
	var next int64
	if err := row.Scan(&next); err != nil {
		return err
	}
	_, err = g.backend.db.Exec(`INSERT INTO group_articles(group_name, number, message_id) VALUES (?, ?, ?)`,
		g.name.String(), next, id.String())
	if err != nil {
		return fmt.Errorf("sqlite: insert group_articles: %w", err)
	}
	return nil
}

func (g *group) GotoNext(cur nntp.ArticleNumber) (nntp.ArticleNumber, bool) {
	row := g.backend.db.QueryRow(
		`SELECT ga.number FROM group_articles ga JOIN articles a ON a.message_id = ga.message_id
		 WHERE ga.group_name = ? AND ga.number > ? AND a.rejected = 0 ORDER BY ga.number ASC LIMIT 1`,
		g.name.String(), int64(cur))
	var n int64
	if err := row.Scan(&n); err != nil {
		return 0, false
	}
	return nntp.ArticleNumber(n), true
}

func (g *group) GotoPrevious(cur nntp.ArticleNumber) (nntp.ArticleNumber, bool) {
	row := g.backend.db.QueryRow(
		`SELECT ga.number FROM group_articles ga JOIN articles a ON a.message_id = ga.message_id
		 WHERE ga.group_name = ? AND ga.number < ? AND a.rejected = 0 ORDER BY ga.number DESC LIMIT 1`,
		g.name.String(), int64(cur))
	var n int64
	if err := row.Scan(&n); err != nil {
		return 0, false
	}
	return nntp.ArticleNumber(n), true
}

// encodeHeaders/decodeHeaders persist an ArticleHeaders as a flat ordered
// name/values JSON document. nntp.ArticleHeaders deliberately exposes no
// internal field access, so round-tripping goes through its public
// Names/All accessors and NewArticleHeaders constructor.
type headerDoc struct {
	Names  []string            `json:"names"`
	Values map[string][]string `json:"values"`
}

func encodeHeaders(h *nntp.ArticleHeaders) (string, error) {
	doc := headerDoc{Names: h.Names(), Values: make(map[string][]string)}
	for _, name := range doc.Names {
		doc.Values[name] = h.All(name)
	}
	blob, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	return string(blob), nil
}

func decodeHeaders(blob string) (*nntp.ArticleHeaders, error) {
	var doc headerDoc
	if err := json.Unmarshal([]byte(blob), &doc); err != nil {
		return nil, err
	}
	return nntp.NewArticleHeaders(doc.Values)
}
