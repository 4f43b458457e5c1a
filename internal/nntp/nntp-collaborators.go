package nntp

import (
	"io"
	"time"
)

// NewsgroupMetrics is the {count, low, high} snapshot of a group, computed
// fresh on each call. An empty group reports count=0, low=LowWhenEmpty,
// high=HighWhenEmpty.
type NewsgroupMetrics struct {
	Count ArticleNumber
	Low   ArticleNumber
	High  ArticleNumber
}

// PostingMode is a per-group policy: Allowed, Moderated, or Prohibited.
type PostingMode int

const (
	PostingAllowed PostingMode = iota
	PostingModerated
	PostingProhibited
)

func (m PostingMode) statusChar() string {
	switch m {
	case PostingAllowed:
		return "y"
	case PostingModerated:
		return "m"
	default:
		return "n"
	}
}

// Article is the collaborator-owned representation of a stored article:
// one MessageId, one ArticleHeaders, one lazily readable body. The body is
// stored already in transmission form (dot-stuffed), so ARTICLE/BODY
// re-emit it verbatim; only POST/IHAVE un-stuff on receive.
type Article struct {
	ID      MessageId
	Headers *ArticleHeaders
	Open    func() (io.Reader, error)
	Created time.Time
	Bytes   int // transmission-form body size, for overview lines
	Lines   int // transmission-form body line count, for overview lines
}

// Newsgroup is the collaborator-owned handle to one newsgroup's article
// store and cursor. The cursor (current article) is session-owned per
// DESIGN FLAG #4 in spec.md §9: the engine passes the session's current
// article number explicitly into gotoNext/gotoPrevious rather than
// trusting mutable state inside the collaborator.
type Newsgroup interface {
	Name() NewsgroupName
	Description() string
	CreatedAt() time.Time
	PostingMode() PostingMode
	SetPostingMode(PostingMode)
	Ignored() bool
	SetIgnored(bool)

	Metrics() NewsgroupMetrics

	// GetArticleNumbered returns the article stored at n in this group.
	GetArticleNumbered(n ArticleNumber) (*Article, bool)
	// GetArticleNumber returns the number an already-known article holds
	// in this group, or ok=false if it isn't in this group at all.
	GetArticleNumber(id MessageId) (n ArticleNumber, ok bool)
	// ArticlesNumbered returns articles in [low, high], ascending.
	ArticlesNumbered(low, high ArticleNumber) []NumberedArticle
	// ArticlesSince returns every article created at or after t.
	ArticlesSince(t time.Time) []NumberedArticle
	// AddArticle stores a new article under the group's next article number, marking it
	// rejected (retained for history/dedup, not served) when rejected.
	AddArticle(id MessageId, headers *ArticleHeaders, body io.Reader, rejected bool) error

	// GotoNext returns the next higher article number after cur, if any.
	GotoNext(cur ArticleNumber) (next ArticleNumber, ok bool)
	// GotoPrevious returns the next lower article number before cur, if any.
	GotoPrevious(cur ArticleNumber) (prev ArticleNumber, ok bool)
}

// NumberedArticle pairs a stored article with its number in one group.
type NumberedArticle struct {
	Number  ArticleNumber
	Article *Article
}

// Peer is a feed/transfer peer record (spec.md §6.6 addPeer/removePeer/getPeers).
type Peer struct {
	Name     string
	Host     string
	Port     int
	Priority int
	Posting  bool
}

// Persistence is the storage collaborator: articles, newsgroups, and
// peers. A session owns exactly one Persistence instance for its lifetime
// (spec.md §5: "no sharing of session state").
type Persistence interface {
	Init() error
	Commit() error
	Close() error

	HasArticle(id MessageId) bool
	GetArticle(id MessageId) (*Article, bool)
	IsRejectedArticle(id MessageId) bool
	RejectArticle(id MessageId)
	GetArticleIdsAfter(t time.Time) []MessageId

	AddGroup(name NewsgroupName, description string, mode PostingMode) (Newsgroup, error)
	GetGroupByName(name NewsgroupName) (Newsgroup, bool)
	ListAllGroups(subscribedOnly, includeIgnored bool) []Newsgroup
	ListAllGroupsAddedSince(t time.Time) []Newsgroup

	AddPeer(p Peer) error
	RemovePeer(name string) error
	GetPeers() []Peer
}

// Identity is the consulted collaborator for the server's own host
// identifier and for minting the Message-ID of the startup log article
// (spec.md §6.5). POST and IHAVE keep the Message-ID the article carries.
type Identity interface {
	HostIdentifier() string
	CreateMessageID(headers *ArticleHeaders) (MessageId, error)
}

// Policy is consulted for every admission decision the engine cannot make
// on its own: posting, transfer, newsgroup creation/acceptance, and
// per-article admission into a given destination group.
type Policy interface {
	IsPostingAllowed(subject string) bool
	IsIHaveTransferAllowed(subject string) bool
	IsNewsgroupAllowed(name NewsgroupName, mode PostingMode, estCount int, peer string) bool
	IsArticleAllowed(id MessageId, headers *ArticleHeaders, body []byte, destination NewsgroupName, mode PostingMode, subject string) bool
}
