// Package statusweb provides a small read-only HTTP surface reporting
// server status, connection counts, and newsgroup metrics. It never
// speaks NNTP and never accepts posts; authentication (when an admin
// password hash is configured) gates nothing but the extra per-group
// detail view. Grounded on the teacher's internal/web package: the
// gin.Default()+secure.New() middleware stack and trusted-proxy setup
// from webserver_core_routes.go, trimmed down from a full article-reading
// front end to a status dashboard.
package statusweb

import (
	"net/http"

	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/postus-nntp/postus/internal/config"
	"github.com/postus-nntp/postus/internal/nntp"
)

// Server is the status web surface.
type Server struct {
	cfg         *config.MainConfig
	stats       *nntp.ServerStats
	persistence nntp.Persistence
	router      *gin.Engine
}

// New builds a status web surface bound to the given config, stats, and
// persistence collaborator.
func New(cfg *config.MainConfig, stats *nntp.ServerStats, persistence nntp.Persistence) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.Default()
	router.SetTrustedProxies([]string{"127.0.0.1", "::1"})
	router.Use(secure.New(secure.Config{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}))

	s := &Server{cfg: cfg, stats: stats, persistence: persistence, router: router}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	s.router.GET("/status", s.statusJSON)
	s.router.GET("/status/groups", s.requireAdmin(), s.groupsJSON)
}

// Run blocks serving the status surface on the configured listen address.
func (s *Server) Run() error {
	return s.router.Run(s.cfg.StatusWeb.ListenAddr)
}

func (s *Server) statusJSON(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"product":            nntp.ServerProductName,
		"version":            nntp.ServerProductVersion,
		"uptime_seconds":     s.stats.GetUptime().Seconds(),
		"active_connections": s.stats.GetActiveConnections(),
		"total_connections":  s.stats.GetTotalConnections(),
		"command_counts":     s.stats.GetAllCommandCounts(),
	})
}

func (s *Server) groupsJSON(c *gin.Context) {
	groups := s.persistence.ListAllGroups(false, true)
	out := make([]gin.H, 0, len(groups))
	for _, g := range groups {
		metrics := g.Metrics()
		out = append(out, gin.H{
			"name":        g.Name().String(),
			"description": g.Description(),
			"posting":     g.PostingMode(),
			"count":       metrics.Count,
			"low":         metrics.Low,
			"high":        metrics.High,
		})
	}
	c.JSON(http.StatusOK, gin.H{"groups": out})
}

// requireAdmin gates a route behind HTTP Basic auth checked against the
// configured bcrypt admin password hash. When no hash is configured, the
// admin surface is disabled entirely (404) rather than left open.
func (s *Server) requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.cfg.StatusWeb.AdminPassHash == "" {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}
		user, pass, ok := c.Request.BasicAuth()
		if !ok || user != s.cfg.StatusWeb.AdminUser {
			c.Header("WWW-Authenticate", `Basic realm="postus-status"`)
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.StatusWeb.AdminPassHash), []byte(pass)); err != nil {
			c.Header("WWW-Authenticate", `Basic realm="postus-status"`)
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.Next()
	}
}
