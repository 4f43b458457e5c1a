package nntp

import (
	"io"
	"sort"
	"strings"
	"testing"
	"time"
)

// testCollaborators is a minimal, self-contained Persistence/Identity/
// Policy implementation used only by this package's engine-level scenario
// tests (nntp-scenarios_test.go). It
// intentionally avoids importing internal/collaborators/memory, which
// itself imports this package.
type testCollaborators struct {
	groups  map[string]*testGroup
	byID    map[MessageId]*Article
	rejectd map[MessageId]bool
}

type testGroup struct {
	backend     *testCollaborators
	name        NewsgroupName
	description string
	mode        PostingMode
	ignored     bool
	createdAt   time.Time
	numbered    map[ArticleNumber]MessageId
	next        ArticleNumber
}

func newTestCollaborators() *testCollaborators {
	return &testCollaborators{
		groups:  make(map[string]*testGroup),
		byID:    make(map[MessageId]*Article),
		rejectd: make(map[MessageId]bool),
	}
}

func (c *testCollaborators) Init() error   { return nil }
func (c *testCollaborators) Commit() error { return nil }
func (c *testCollaborators) Close() error  { return nil }

func (c *testCollaborators) HasArticle(id MessageId) bool {
	_, ok := c.byID[id]
	return ok && !c.rejectd[id]
}
func (c *testCollaborators) GetArticle(id MessageId) (*Article, bool) {
	a, ok := c.byID[id]
	if !ok || c.rejectd[id] {
		return nil, false
	}
	return a, true
}
func (c *testCollaborators) IsRejectedArticle(id MessageId) bool { return c.rejectd[id] }
func (c *testCollaborators) RejectArticle(id MessageId)          { c.rejectd[id] = true }
func (c *testCollaborators) GetArticleIdsAfter(t time.Time) []MessageId {
	var ids []MessageId
	for id, a := range c.byID {
		if !a.Created.Before(t) {
			ids = append(ids, id)
		}
	}
	return ids
}

func (c *testCollaborators) AddGroup(name NewsgroupName, description string, mode PostingMode) (Newsgroup, error) {
	key := strings.ToLower(name.String())
	if g, ok := c.groups[key]; ok {
		return g, nil
	}
	g := &testGroup{backend: c, name: name, description: description, mode: mode, createdAt: time.Now().UTC(), numbered: make(map[ArticleNumber]MessageId)}
	c.groups[key] = g
	return g, nil
}
func (c *testCollaborators) GetGroupByName(name NewsgroupName) (Newsgroup, bool) {
	g, ok := c.groups[strings.ToLower(name.String())]
	if !ok {
		return nil, false
	}
	return g, true
}
func (c *testCollaborators) ListAllGroups(subscribedOnly, includeIgnored bool) []Newsgroup {
	var out []Newsgroup
	for _, g := range c.groups {
		if g.ignored && !includeIgnored {
			continue
		}
		out = append(out, g)
	}
	return out
}
func (c *testCollaborators) ListAllGroupsAddedSince(t time.Time) []Newsgroup {
	var out []Newsgroup
	for _, g := range c.groups {
		if !g.createdAt.Before(t) {
			out = append(out, g)
		}
	}
	return out
}
func (c *testCollaborators) AddPeer(p Peer) error          { return nil }
func (c *testCollaborators) RemovePeer(name string) error  { return nil }
func (c *testCollaborators) GetPeers() []Peer              { return nil }

func (g *testGroup) Name() NewsgroupName          { return g.name }
func (g *testGroup) Description() string          { return g.description }
func (g *testGroup) CreatedAt() time.Time         { return g.createdAt }
func (g *testGroup) PostingMode() PostingMode     { return g.mode }
func (g *testGroup) SetPostingMode(m PostingMode) { g.mode = m }
func (g *testGroup) Ignored() bool                { return g.ignored }
func (g *testGroup) SetIgnored(v bool)            { g.ignored = v }
func (g *testGroup) Metrics() NewsgroupMetrics {
	if len(g.numbered) == 0 {
		return NewsgroupMetrics{Count: 0, Low: LowWhenEmpty, High: HighWhenEmpty}
	}
	var low, high ArticleNumber
	first := true
	for n := range g.numbered {
		if first || n < low {
			low = n
		}
		if first || n > high {
			high = n
		}
		first = false
	}
	return NewsgroupMetrics{Count: ArticleNumber(len(g.numbered)), Low: low, High: high}
}

func (g *testGroup) GetArticleNumbered(n ArticleNumber) (*Article, bool) {
	id, ok := g.numbered[n]
	if !ok {
		return nil, false
	}
	return g.backend.GetArticle(id)
}
func (g *testGroup) GetArticleNumber(id MessageId) (ArticleNumber, bool) {
	for n, existing := range g.numbered {
		if existing == id {
			return n, true
		}
	}
	return 0, false
}
func (g *testGroup) ArticlesNumbered(low, high ArticleNumber) []NumberedArticle {
	var out []NumberedArticle
	for n, id := range g.numbered {
		if n >= low && n <= high {
			a, _ := g.backend.GetArticle(id)
			out = append(out, NumberedArticle{Number: n, Article: a})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}
func (g *testGroup) ArticlesSince(t time.Time) []NumberedArticle {
	var out []NumberedArticle
	for n, id := range g.numbered {
		a, ok := g.backend.GetArticle(id)
		if ok && !a.Created.Before(t) {
			out = append(out, NumberedArticle{Number: n, Article: a})
		}
	}
	return out
}
func (g *testGroup) AddArticle(id MessageId, headers *ArticleHeaders, body io.Reader, rejected bool) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	text := string(data)
	a := &Article{ID: id, Headers: headers, Created: time.Now().UTC(), Bytes: len(text), Lines: strings.Count(text, "\n") + 1}
	a.Open = func() (io.Reader, error) { return strings.NewReader(text), nil }
	g.backend.byID[id] = a
	g.backend.rejectd[id] = rejected
	g.next++
	g.numbered[g.next] = id
	return nil
}
func (g *testGroup) GotoNext(cur ArticleNumber) (ArticleNumber, bool) {
	best, found := ArticleNumber(0), false
	for n := range g.numbered {
		if n > cur && (!found || n < best) {
			best, found = n, true
		}
	}
	return best, found
}
func (g *testGroup) GotoPrevious(cur ArticleNumber) (ArticleNumber, bool) {
	best, found := ArticleNumber(0), false
	for n := range g.numbered {
		if n < cur && (!found || n > best) {
			best, found = n, true
		}
	}
	return best, found
}

type testPolicy struct {
	postingAllowed bool
}

func (p testPolicy) IsPostingAllowed(subject string) bool       { return p.postingAllowed }
func (p testPolicy) IsIHaveTransferAllowed(subject string) bool { return true }
func (p testPolicy) IsNewsgroupAllowed(name NewsgroupName, mode PostingMode, estCount int, peer string) bool {
	return true
}
func (p testPolicy) IsArticleAllowed(id MessageId, headers *ArticleHeaders, body []byte, destination NewsgroupName, mode PostingMode, subject string) bool {
	return mode != PostingProhibited
}

type testIdentity struct {
	host string
	n    int
}

func (i *testIdentity) HostIdentifier() string { return i.host }
func (i *testIdentity) CreateMessageID(headers *ArticleHeaders) (MessageId, error) {
	i.n++
	return ParseMessageId("<test-" + strings.Repeat("x", i.n) + "@" + i.host + ">")
}

func mustTestHeaders(t *testing.T, raw map[string][]string) *ArticleHeaders {
	t.Helper()
	h, err := NewArticleHeaders(raw)
	if err != nil {
		t.Fatalf("NewArticleHeaders: %v", err)
	}
	return h
}
