package memory

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/postus-nntp/postus/internal/nntp"
)

// SimpleIdentity is a minimal nntp.Identity implementation that mints
// Message-IDs from a counter plus the configured host identifier.
// Grounded on the teacher's history.GenerateMessageID pattern, simplified
// to remove the hashing scheme that depended on the deleted database
// package.
type SimpleIdentity struct {
	host    string
	counter int64
}

// NewSimpleIdentity builds an Identity that mints Message-IDs under host.
func NewSimpleIdentity(host string) *SimpleIdentity {
	return &SimpleIdentity{host: host}
}

func (id *SimpleIdentity) HostIdentifier() string { return id.host }

func (id *SimpleIdentity) CreateMessageID(headers *nntp.ArticleHeaders) (nntp.MessageId, error) {
	n := atomic.AddInt64(&id.counter, 1)
	raw := fmt.Sprintf("<%d.%d@%s>", time.Now().UnixNano(), n, id.host)
	return nntp.ParseMessageId(raw)
}
