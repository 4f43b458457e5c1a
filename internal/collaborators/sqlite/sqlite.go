// Package sqlite provides a github.com/mattn/go-sqlite3-backed
// implementation of nntp.Persistence, for deployments that need articles
// and group state to survive a restart. Grounded on the teacher's
// internal/database package (OpenDatabase/initMainDB connection-string
// conventions and its WAL-mode pragmas), adapted to the single-file,
// single-connection shape this domain needs rather than the teacher's
// per-group sharded database pool.
package sqlite

import (
	"database/sql"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/postus-nntp/postus/internal/nntp"
)

const schema = `
CREATE TABLE IF NOT EXISTS articles (
	message_id TEXT PRIMARY KEY,
	headers    TEXT NOT NULL,
	body       TEXT NOT NULL,
	bytes      INTEGER NOT NULL,
	lines      INTEGER NOT NULL,
	created_at INTEGER NOT NULL,
	rejected   INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS groups (
	name        TEXT PRIMARY KEY,
	description TEXT NOT NULL DEFAULT '',
	mode        INTEGER NOT NULL DEFAULT 0,
	ignored     INTEGER NOT NULL DEFAULT 0,
	created_at  INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS group_articles (
	group_name TEXT NOT NULL,
	number     INTEGER NOT NULL,
	message_id TEXT NOT NULL,
	PRIMARY KEY (group_name, number)
);
CREATE INDEX IF NOT EXISTS idx_group_articles_msgid ON group_articles(group_name, message_id);
CREATE TABLE IF NOT EXISTS peers (
	name     TEXT PRIMARY KEY,
	host     TEXT NOT NULL,
	port     INTEGER NOT NULL,
	priority INTEGER NOT NULL,
	posting  INTEGER NOT NULL
);
`

// Backend is the SQLite-backed nntp.Persistence implementation. One
// *sql.DB serializes all access; SQLite's own file locking makes a
// connection pool of size 1 the simplest correct choice for a
// single-process news server.
type Backend struct {
	db *sql.DB
	mu sync.Mutex

	groupsMu sync.Mutex
	groups   map[string]*group // cached handles, keyed by lower-cased name
}

// Open creates or opens the sqlite3 database file at path, matching the
// teacher's WAL-mode connection string convention.
func Open(path string) (*Backend, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_timeout=5000&_fk=true")
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	return &Backend{db: db, groups: make(map[string]*group)}, nil
}

func (b *Backend) Init() error {
	_, err := b.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("sqlite: init schema: %w", err)
	}
	rows, err := b.db.Query(`SELECT name, description, mode, ignored, created_at FROM groups`)
	if err != nil {
		return fmt.Errorf("sqlite: preload groups: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var name, description string
		var mode, ignored int
		var createdUnix int64
		if err := rows.Scan(&name, &description, &mode, &ignored, &createdUnix); err != nil {
			return err
		}
		parsed, err := nntp.ParseNewsgroupName(name)
		if err != nil {
			continue
		}
		b.groups[strings.ToLower(name)] = &group{
			backend:     b,
			name:        parsed,
			description: description,
			mode:        nntp.PostingMode(mode),
			ignored:     ignored != 0,
			createdAt:   time.Unix(createdUnix, 0).UTC(),
		}
	}
	return rows.Err()
}

func (b *Backend) Commit() error { return nil }
func (b *Backend) Close() error  { return b.db.Close() }

func (b *Backend) HasArticle(id nntp.MessageId) bool {
	var n int
	row := b.db.QueryRow(`SELECT COUNT(*) FROM articles WHERE message_id = ? AND rejected = 0`, id.String())
	if err := row.Scan(&n); err != nil {
		return false
	}
	return n > 0
}

func (b *Backend) GetArticle(id nntp.MessageId) (*nntp.Article, bool) {
	return b.loadArticle(id, false)
}

func (b *Backend) loadArticle(id nntp.MessageId, allowRejected bool) (*nntp.Article, bool) {
	row := b.db.QueryRow(`SELECT headers, body, bytes, lines, created_at, rejected FROM articles WHERE message_id = ?`, id.String())
	var headerBlob, body string
	var bytesLen, lines int
	var createdUnix int64
	var rejected int
	if err := row.Scan(&headerBlob, &body, &bytesLen, &lines, &createdUnix, &rejected); err != nil {
		return nil, false
	}
	if rejected != 0 && !allowRejected {
		return nil, false
	}
	headers, err := decodeHeaders(headerBlob)
	if err != nil {
		return nil, false
	}
	a := &nntp.Article{
		ID:      id,
		Headers: headers,
		Created: time.Unix(createdUnix, 0).UTC(),
		Bytes:   bytesLen,
		Lines:   lines,
	}
	a.Open = func() (io.Reader, error) { return strings.NewReader(body), nil }
	return a, true
}

func (b *Backend) IsRejectedArticle(id nntp.MessageId) bool {
	var n int
	row := b.db.QueryRow(`SELECT COUNT(*) FROM articles WHERE message_id = ? AND rejected = 1`, id.String())
	if err := row.Scan(&n); err != nil {
		return false
	}
	return n > 0
}

func (b *Backend) RejectArticle(id nntp.MessageId) {
	b.db.Exec(`UPDATE articles SET rejected = 1 WHERE message_id = ?`, id.String())
}

func (b *Backend) GetArticleIdsAfter(t time.Time) []nntp.MessageId {
	rows, err := b.db.Query(`SELECT message_id FROM articles WHERE created_at >= ? AND rejected = 0`, t.Unix())
	if err != nil {
		return nil
	}
	defer rows.Close()
	var ids []nntp.MessageId
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			continue
		}
		ids = append(ids, nntp.MessageId(raw))
	}
	return ids
}

func (b *Backend) AddGroup(name nntp.NewsgroupName, description string, mode nntp.PostingMode) (nntp.Newsgroup, error) {
	b.groupsMu.Lock()
	defer b.groupsMu.Unlock()
	key := strings.ToLower(name.String())
	if g, ok := b.groups[key]; ok {
		return g, nil
	}
	now := time.Now().UTC()
	_, err := b.db.Exec(`INSERT OR IGNORE INTO groups(name, description, mode, ignored, created_at) VALUES (?, ?, ?, 0, ?)`,
		name.String(), description, int(mode), now.Unix())
	if err != nil {
		return nil, fmt.Errorf("sqlite: insert group: %w", err)
	}
	g := &group{backend: b, name: name, description: description, mode: mode, createdAt: now}
	b.groups[key] = g
	return g, nil
}

func (b *Backend) GetGroupByName(name nntp.NewsgroupName) (nntp.Newsgroup, bool) {
	b.groupsMu.Lock()
	defer b.groupsMu.Unlock()
	g, ok := b.groups[strings.ToLower(name.String())]
	if !ok {
		return nil, false
	}
	return g, true
}

func (b *Backend) ListAllGroups(subscribedOnly, includeIgnored bool) []nntp.Newsgroup {
	b.groupsMu.Lock()
	defer b.groupsMu.Unlock()
	var out []nntp.Newsgroup
	for _, g := range b.groups {
		if g.ignored && !includeIgnored {
			continue
		}
		out = append(out, g)
	}
	return out
}

// ListAllGroupsAddedSince boundary: inclusive (>=), matching the memory
// backend and the decision recorded in SPEC_FULL.md.
func (b *Backend) ListAllGroupsAddedSince(t time.Time) []nntp.Newsgroup {
	b.groupsMu.Lock()
	defer b.groupsMu.Unlock()
	var out []nntp.Newsgroup
	for _, g := range b.groups {
		if !g.createdAt.Before(t) {
			out = append(out, g)
		}
	}
	return out
}

func (b *Backend) AddPeer(p nntp.Peer) error {
	posting := 0
	if p.Posting {
		posting = 1
	}
	_, err := b.db.Exec(`INSERT INTO peers(name, host, port, priority, posting) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET host=excluded.host, port=excluded.port, priority=excluded.priority, posting=excluded.posting`,
		p.Name, p.Host, p.Port, p.Priority, posting)
	return err
}

func (b *Backend) RemovePeer(name string) error {
	res, err := b.db.Exec(`DELETE FROM peers WHERE name = ?`, name)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("no such peer %q", name)
	}
	return nil
}

func (b *Backend) GetPeers() []nntp.Peer {
	rows, err := b.db.Query(`SELECT name, host, port, priority, posting FROM peers`)
	if err != nil {
		return nil
	}
	defer rows.Close()
	var out []nntp.Peer
	for rows.Next() {
		var p nntp.Peer
		var posting int
		if err := rows.Scan(&p.Name, &p.Host, &p.Port, &p.Priority, &posting); err != nil {
			continue
		}
		p.Posting = posting != 0
		out = append(out, p)
	}
	return out
}
