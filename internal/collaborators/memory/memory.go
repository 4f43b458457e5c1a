// Package memory provides a goroutine-safe, in-process implementation of
// the nntp.Persistence, nntp.Identity, and nntp.Policy collaborator
// interfaces, used for tests and for quick-start deployments
// (cmd/nntpd -backend=memory). Grounded on the shapes of the teacher's
// internal/models.Newsgroup/Article/Overview structs, simplified down to
// what the core protocol engine's interfaces actually need.
package memory

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/postus-nntp/postus/internal/nntp"
)

// Backend is the in-memory Persistence implementation.
type Backend struct {
	mu     sync.RWMutex
	groups map[string]*group // keyed by lower-cased name
	byID   map[nntp.MessageId]*storedArticle
	rejected map[nntp.MessageId]bool
	peers  []nntp.Peer
}

// New builds an empty in-memory backend.
func New() *Backend {
	return &Backend{
		groups:   make(map[string]*group),
		byID:     make(map[nntp.MessageId]*storedArticle),
		rejected: make(map[nntp.MessageId]bool),
	}
}

func (b *Backend) Init() error  { return nil }
func (b *Backend) Commit() error { return nil }
func (b *Backend) Close() error  { return nil }

type storedArticle struct {
	article  nntp.Article
	rejected bool
	groups   map[string]nntp.ArticleNumber // group key -> number within that group
}

func (b *Backend) HasArticle(id nntp.MessageId) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	a, ok := b.byID[id]
	return ok && !a.rejected
}

func (b *Backend) GetArticle(id nntp.MessageId) (*nntp.Article, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	a, ok := b.byID[id]
	if !ok || a.rejected {
		return nil, false
	}
	article := a.article
	return &article, true
}

func (b *Backend) IsRejectedArticle(id nntp.MessageId) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rejected[id]
}

func (b *Backend) RejectArticle(id nntp.MessageId) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rejected[id] = true
}

func (b *Backend) GetArticleIdsAfter(t time.Time) []nntp.MessageId {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var ids []nntp.MessageId
	for id, a := range b.byID {
		if !a.rejected && !a.article.Created.Before(t) {
			ids = append(ids, id)
		}
	}
	return ids
}

func (b *Backend) AddGroup(name nntp.NewsgroupName, description string, mode nntp.PostingMode) (nntp.Newsgroup, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	key := strings.ToLower(name.String())
	if g, ok := b.groups[key]; ok {
		return g, nil
	}
	g := &group{
		backend:     b,
		name:        name,
		description: description,
		mode:        mode,
		createdAt:   now(),
		articles:    make(map[nntp.ArticleNumber]nntp.MessageId),
	}
	b.groups[key] = g
	return g, nil
}

func (b *Backend) GetGroupByName(name nntp.NewsgroupName) (nntp.Newsgroup, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	g, ok := b.groups[strings.ToLower(name.String())]
	if !ok {
		return nil, false
	}
	return g, true
}

func (b *Backend) ListAllGroups(subscribedOnly, includeIgnored bool) []nntp.Newsgroup {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var out []nntp.Newsgroup
	for _, g := range b.groups {
		if g.ignored && !includeIgnored {
			continue
		}
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// listAllGroupsAddedSince boundary: inclusive (>=), per the Open Question
// decision recorded in SPEC_FULL.md.
func (b *Backend) ListAllGroupsAddedSince(t time.Time) []nntp.Newsgroup {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var out []nntp.Newsgroup
	for _, g := range b.groups {
		if !g.createdAt.Before(t) {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

func (b *Backend) AddPeer(p nntp.Peer) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, existing := range b.peers {
		if existing.Name == p.Name {
			b.peers[i] = p
			return nil
		}
	}
	b.peers = append(b.peers, p)
	return nil
}

func (b *Backend) RemovePeer(name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, existing := range b.peers {
		if existing.Name == name {
			b.peers = append(b.peers[:i], b.peers[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("no such peer %q", name)
}

func (b *Backend) GetPeers() []nntp.Peer {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]nntp.Peer(nil), b.peers...)
}

// isRejected reports whether id is a stored-but-rejected article, which
// Metrics/ArticlesNumbered/GotoNext/GotoPrevious must treat as unservable.
func (b *Backend) isRejected(id nntp.MessageId) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	a, ok := b.byID[id]
	return ok && a.rejected
}

// now is a seam so tests can't accidentally depend on wall-clock ordering
// across fast successive AddGroup calls; production uses time.Now.
var now = time.Now

// group is the in-memory nntp.Newsgroup implementation.
type group struct {
	backend     *Backend
	name        nntp.NewsgroupName
	description string
	createdAt   time.Time

	mu       sync.RWMutex
	mode     nntp.PostingMode
	ignored  bool
	articles map[nntp.ArticleNumber]nntp.MessageId
	nextNum  nntp.ArticleNumber
}

func (g *group) Name() nntp.NewsgroupName   { return g.name }
func (g *group) Description() string        { return g.description }
func (g *group) CreatedAt() time.Time       { return g.createdAt }
func (g *group) PostingMode() nntp.PostingMode {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.mode
}
func (g *group) SetPostingMode(m nntp.PostingMode) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.mode = m
}
func (g *group) Ignored() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.ignored
}
func (g *group) SetIgnored(v bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.ignored = v
}

func (g *group) Metrics() nntp.NewsgroupMetrics {
	g.mu.RLock()
	nums := make([]nntp.ArticleNumber, 0, len(g.articles))
	for n, id := range g.articles {
		if !g.backend.isRejected(id) {
			nums = append(nums, n)
		}
	}
	g.mu.RUnlock()
	if len(nums) == 0 {
		return nntp.NewsgroupMetrics{Count: 0, Low: nntp.LowWhenEmpty, High: nntp.HighWhenEmpty}
	}
	low, high := nums[0], nums[0]
	for _, n := range nums {
		if n < low {
			low = n
		}
		if n > high {
			high = n
		}
	}
	return nntp.NewsgroupMetrics{Count: nntp.ArticleNumber(len(nums)), Low: low, High: high}
}

func (g *group) GetArticleNumbered(n nntp.ArticleNumber) (*nntp.Article, bool) {
	g.mu.RLock()
	id, ok := g.articles[n]
	g.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return g.backend.GetArticle(id)
}

func (g *group) GetArticleNumber(id nntp.MessageId) (nntp.ArticleNumber, bool) {
	g.backend.mu.RLock()
	a, ok := g.backend.byID[id]
	g.backend.mu.RUnlock()
	if !ok {
		return 0, false
	}
	key := strings.ToLower(g.name.String())
	n, ok := a.groups[key]
	return n, ok
}

func (g *group) ArticlesNumbered(low, high nntp.ArticleNumber) []nntp.NumberedArticle {
	g.mu.RLock()
	defer g.mu.RUnlock()
	var nums []nntp.ArticleNumber
	for n := range g.articles {
		if n >= low && n <= high {
			nums = append(nums, n)
		}
	}
	sort.Slice(nums, func(i, j int) bool { return nums[i] < nums[j] })
	out := make([]nntp.NumberedArticle, 0, len(nums))
	for _, n := range nums {
		article, ok := g.backend.GetArticle(g.articles[n])
		if !ok {
			// Rejected: not servable over OVER/XOVER/LISTGROUP.
			continue
		}
		out = append(out, nntp.NumberedArticle{Number: n, Article: article})
	}
	return out
}

func (g *group) ArticlesSince(t time.Time) []nntp.NumberedArticle {
	all := g.ArticlesNumbered(nntp.ArticleNumber(1), nntp.ArticleNumber(1<<62))
	var out []nntp.NumberedArticle
	for _, na := range all {
		if na.Article != nil && !na.Article.Created.Before(t) {
			out = append(out, na)
		}
	}
	return out
}

func (g *group) AddArticle(id nntp.MessageId, headers *nntp.ArticleHeaders, body io.Reader, rejected bool) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	text := string(data)

	g.backend.mu.Lock()
	a, exists := g.backend.byID[id]
	if !exists {
		a = &storedArticle{
			article: nntp.Article{
				ID:      id,
				Headers: headers,
				Created: now(),
				Bytes:   len(text),
				Lines:   strings.Count(text, "\n") + 1,
			},
			groups: make(map[string]nntp.ArticleNumber),
		}
		a.article.Open = func() (io.Reader, error) { return strings.NewReader(text), nil }
		g.backend.byID[id] = a
	}
	a.rejected = rejected
	g.backend.mu.Unlock()

	g.mu.Lock()
	defer g.mu.Unlock()
	g.nextNum++
	num := g.nextNum
	g.articles[num] = id
	a.groups[strings.ToLower(g.name.String())] = num
	return nil
}

func (g *group) GotoNext(cur nntp.ArticleNumber) (nntp.ArticleNumber, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	best, found := nntp.ArticleNumber(0), false
	for n, id := range g.articles {
		if n > cur && (!found || n < best) && !g.backend.isRejected(id) {
			best, found = n, true
		}
	}
	return best, found
}

func (g *group) GotoPrevious(cur nntp.ArticleNumber) (nntp.ArticleNumber, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	best, found := nntp.ArticleNumber(0), false
	for n, id := range g.articles {
		if n < cur && (!found || n > best) && !g.backend.isRejected(id) {
			best, found = n, true
		}
	}
	return best, found
}
