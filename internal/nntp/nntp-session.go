package nntp

// ClientSession is the per-connection state described in spec.md §3: at
// most one selected group, a session-owned current-article cursor (moved
// out of the collaborator per the REDESIGN FLAG in spec.md §9), the
// collaborator handles bound for this connection's lifetime, and the
// argument vector of the request currently being handled.
//
// A ClientSession is owned by exactly one worker for the life of one TCP
// connection; nothing here is shared across connections (spec.md §5).
type ClientSession struct {
	framing     *Framing
	registry    *HandlerRegistry
	persistence Persistence
	identity    Identity
	policy      Policy

	selectedGroup  Newsgroup
	currentArticle ArticleNumber
	haveCurrent    bool

	requestArgs []string
	authToken   string // reserved: AUTHINFO is an explicit Non-goal, unused today

	serverProduct string
	serverVersion string
	stats         *ServerStats
}

// NewClientSession wires one connection's collaborators and framing into
// a session ready to be driven by a ProtocolEngine.
func NewClientSession(framing *Framing, registry *HandlerRegistry, persistence Persistence, identity Identity, policy Policy, stats *ServerStats) *ClientSession {
	return &ClientSession{
		framing:       framing,
		registry:      registry,
		persistence:   persistence,
		identity:      identity,
		policy:        policy,
		serverProduct: ServerProductName,
		serverVersion: ServerProductVersion,
		stats:         stats,
	}
}

// setCurrentArticle sets the session's cursor to n. Clearing happens by
// selecting a group with no valid article (see selectGroup).
func (s *ClientSession) setCurrentArticle(n ArticleNumber) {
	s.currentArticle = n
	s.haveCurrent = true
}

func (s *ClientSession) clearCurrentArticle() {
	s.currentArticle = 0
	s.haveCurrent = false
}

// selectGroup sets the session's selected group and resets the cursor to
// the group's lowest article (or clears it if the group is empty), per
// spec.md §4.4 GROUP.
func (s *ClientSession) selectGroup(g Newsgroup) {
	s.selectedGroup = g
	metrics := g.Metrics()
	if metrics.Count == 0 {
		s.clearCurrentArticle()
		return
	}
	s.setCurrentArticle(metrics.Low)
}
