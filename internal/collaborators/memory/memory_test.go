package memory

import (
	"strings"
	"testing"
	"time"

	"github.com/postus-nntp/postus/internal/nntp"
)

func mustGroupName(t *testing.T, raw string) nntp.NewsgroupName {
	t.Helper()
	name, err := nntp.ParseNewsgroupName(raw)
	if err != nil {
		t.Fatalf("ParseNewsgroupName(%q): %v", raw, err)
	}
	return name
}

func mustMessageID(t *testing.T, raw string) nntp.MessageId {
	t.Helper()
	id, err := nntp.ParseMessageId(raw)
	if err != nil {
		t.Fatalf("ParseMessageId(%q): %v", raw, err)
	}
	return id
}

func mustHeaders(t *testing.T, raw map[string][]string) *nntp.ArticleHeaders {
	t.Helper()
	h, err := nntp.NewArticleHeaders(raw)
	if err != nil {
		t.Fatalf("NewArticleHeaders: %v", err)
	}
	return h
}

func TestBackendAddGroupIsIdempotent(t *testing.T) {
	b := New()
	name := mustGroupName(t, "example.test")
	g1, err := b.AddGroup(name, "a test group", nntp.PostingAllowed)
	if err != nil {
		t.Fatalf("AddGroup: %v", err)
	}
	g2, err := b.AddGroup(name, "different description", nntp.PostingModerated)
	if err != nil {
		t.Fatalf("AddGroup (second): %v", err)
	}
	if g1 != g2 {
		t.Fatalf("AddGroup should return the same handle for an existing group")
	}
	if g1.PostingMode() != nntp.PostingAllowed {
		t.Fatalf("second AddGroup call must not overwrite existing group metadata")
	}
}

func TestGroupAddArticleAndNavigate(t *testing.T) {
	b := New()
	name := mustGroupName(t, "example.test")
	g, err := b.AddGroup(name, "a test group", nntp.PostingAllowed)
	if err != nil {
		t.Fatalf("AddGroup: %v", err)
	}

	id1 := mustMessageID(t, "<1@example.test>")
	id2 := mustMessageID(t, "<2@example.test>")
	headers := mustHeaders(t, map[string][]string{
		"Message-ID": {"<1@example.test>"},
		"Newsgroups": {"example.test"},
		"Subject":    {"first"},
		"From":       {"a@example.test"},
		"Date":       {"Mon, 01 Jan 2024 00:00:00 +0000"},
		"Path":       {"example.test!not-for-email"},
	})
	if err := g.AddArticle(id1, headers, strings.NewReader("body one"), false); err != nil {
		t.Fatalf("AddArticle: %v", err)
	}
	headers2 := mustHeaders(t, map[string][]string{
		"Message-ID": {"<2@example.test>"},
		"Newsgroups": {"example.test"},
		"Subject":    {"second"},
		"From":       {"a@example.test"},
		"Date":       {"Mon, 01 Jan 2024 00:00:00 +0000"},
		"Path":       {"example.test!not-for-email"},
	})
	if err := g.AddArticle(id2, headers2, strings.NewReader("body two"), false); err != nil {
		t.Fatalf("AddArticle: %v", err)
	}

	metrics := g.Metrics()
	if metrics.Count != 2 || metrics.Low != 1 || metrics.High != 2 {
		t.Fatalf("unexpected metrics: %+v", metrics)
	}

	next, ok := g.GotoNext(0)
	if !ok || next != 1 {
		t.Fatalf("GotoNext(0) = %v, %v; want 1, true", next, ok)
	}
	next, ok = g.GotoNext(1)
	if !ok || next != 2 {
		t.Fatalf("GotoNext(1) = %v, %v; want 2, true", next, ok)
	}
	_, ok = g.GotoNext(2)
	if ok {
		t.Fatalf("GotoNext(2) should have no successor")
	}

	prev, ok := g.GotoPrevious(2)
	if !ok || prev != 1 {
		t.Fatalf("GotoPrevious(2) = %v, %v; want 1, true", prev, ok)
	}

	a, ok := g.GetArticleNumbered(1)
	if !ok || a.ID != id1 {
		t.Fatalf("GetArticleNumbered(1) = %+v, %v", a, ok)
	}
	n, ok := g.GetArticleNumber(id2)
	if !ok || n != 2 {
		t.Fatalf("GetArticleNumber(id2) = %v, %v; want 2, true", n, ok)
	}
}

func TestBackendRejectedArticleNotServed(t *testing.T) {
	b := New()
	id := mustMessageID(t, "<1@example.test>")
	b.RejectArticle(id)
	if !b.IsRejectedArticle(id) {
		t.Fatalf("expected article to be marked rejected")
	}
	if b.HasArticle(id) {
		t.Fatalf("a rejected-but-never-stored article must not read back as present")
	}
}

func TestListAllGroupsAddedSinceIsInclusive(t *testing.T) {
	b := New()
	cutoff := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	old := now
	defer func() { now = old }()

	now = func() time.Time { return cutoff }
	if _, err := b.AddGroup(mustGroupName(t, "on.boundary"), "", nntp.PostingAllowed); err != nil {
		t.Fatalf("AddGroup: %v", err)
	}
	now = func() time.Time { return cutoff.Add(-time.Hour) }
	if _, err := b.AddGroup(mustGroupName(t, "before.boundary"), "", nntp.PostingAllowed); err != nil {
		t.Fatalf("AddGroup: %v", err)
	}

	groups := b.ListAllGroupsAddedSince(cutoff)
	if len(groups) != 1 || groups[0].Name().String() != "on.boundary" {
		t.Fatalf("expected only the group created exactly at cutoff, got %+v", groups)
	}
}

func TestOpenPolicyDeniesArticlesOverMaxLength(t *testing.T) {
	p := NewOpenPolicy(4)
	name := mustGroupName(t, "example.test")
	id := mustMessageID(t, "<1@example.test>")
	headers := mustHeaders(t, map[string][]string{
		"Message-ID": {"<1@example.test>"},
		"Newsgroups": {"example.test"},
		"Subject":    {"s"},
		"From":       {"a@example.test"},
		"Date":       {"Mon, 01 Jan 2024 00:00:00 +0000"},
		"Path":       {"example.test!not-for-email"},
	})
	if p.IsArticleAllowed(id, headers, []byte("too long"), name, nntp.PostingAllowed, "") {
		t.Fatalf("expected article over max length to be denied")
	}
	if !p.IsArticleAllowed(id, headers, []byte("ok"), name, nntp.PostingAllowed, "") {
		t.Fatalf("expected short article to be allowed")
	}
}

func TestOpenPolicyDenyPeer(t *testing.T) {
	p := NewOpenPolicy(0)
	p.DenyPeer("bad-peer")
	if p.IsPostingAllowed("bad-peer") {
		t.Fatalf("expected denied peer to be rejected")
	}
	if !p.IsPostingAllowed("good-peer") {
		t.Fatalf("expected unlisted peer to be allowed")
	}
	p.AllowPeer("bad-peer")
	if !p.IsPostingAllowed("bad-peer") {
		t.Fatalf("expected peer to be allowed again after AllowPeer")
	}
}

func TestSimpleIdentityMintsUniqueIDs(t *testing.T) {
	id := NewSimpleIdentity("news.example.test")
	a, err := id.CreateMessageID(nil)
	if err != nil {
		t.Fatalf("CreateMessageID: %v", err)
	}
	b, err := id.CreateMessageID(nil)
	if err != nil {
		t.Fatalf("CreateMessageID: %v", err)
	}
	if a == b {
		t.Fatalf("expected distinct message-ids, got %q twice", a)
	}
	if !strings.HasSuffix(string(a), "@news.example.test>") {
		t.Fatalf("expected host suffix in minted id, got %q", a)
	}
}
