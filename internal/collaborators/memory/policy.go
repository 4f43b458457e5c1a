package memory

import (
	"sync"

	"github.com/postus-nntp/postus/internal/nntp"
)

// OpenPolicy is a permissive nntp.Policy reference implementation: posting,
// transfer and newsgroup creation are allowed for every subject not blocked
// with DenyPeer, and per-article admission also refuses Prohibited
// destination groups and bodies longer than maxArticleLen. Grounded on the
// teacher's default-allow posture in its auth manager before per-peer ACLs
// are layered on.
type OpenPolicy struct {
	mu            sync.RWMutex
	deniedPeers   map[string]bool
	maxArticleLen int
}

// NewOpenPolicy builds a permissive Policy. maxArticleLen of 0 means
// unbounded.
func NewOpenPolicy(maxArticleLen int) *OpenPolicy {
	return &OpenPolicy{
		deniedPeers:   make(map[string]bool),
		maxArticleLen: maxArticleLen,
	}
}

// DenyPeer blocks a named peer from posting or transferring, for tests and
// administrative callers.
func (p *OpenPolicy) DenyPeer(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.deniedPeers[name] = true
}

func (p *OpenPolicy) AllowPeer(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.deniedPeers, name)
}

func (p *OpenPolicy) isDenied(peer string) bool {
	if peer == "" {
		return false
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.deniedPeers[peer]
}

func (p *OpenPolicy) IsPostingAllowed(subject string) bool {
	return !p.isDenied(subject)
}

func (p *OpenPolicy) IsIHaveTransferAllowed(subject string) bool {
	return !p.isDenied(subject)
}

func (p *OpenPolicy) IsNewsgroupAllowed(name nntp.NewsgroupName, mode nntp.PostingMode, estCount int, peer string) bool {
	return !p.isDenied(peer)
}

func (p *OpenPolicy) IsArticleAllowed(id nntp.MessageId, headers *nntp.ArticleHeaders, body []byte, destination nntp.NewsgroupName, mode nntp.PostingMode, subject string) bool {
	if p.isDenied(subject) {
		return false
	}
	if mode == nntp.PostingProhibited {
		return false
	}
	if p.maxArticleLen > 0 && len(body) > p.maxArticleLen {
		return false
	}
	return true
}
