// Command nntpd runs the Postus NNTP server as a standalone process.
// Grounded on the teacher's cmd/nntp-server/main.go flag/signal/shutdown
// conventions, adapted to the pluggable-backend architecture described in
// SPEC_FULL.md.
package main

import (
	"flag"
	"log"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	prof "github.com/go-while/go-cpu-mem-profiler"

	"github.com/postus-nntp/postus/internal/collaborators/memory"
	"github.com/postus-nntp/postus/internal/collaborators/sqlite"
	"github.com/postus-nntp/postus/internal/config"
	"github.com/postus-nntp/postus/internal/nntp"
	"github.com/postus-nntp/postus/internal/statusweb"
)

var (
	hostnameFlag   string
	portFlag       int
	maxConnsFlag   int
	backendFlag    string
	sqlitePathFlag string
	statusAddrFlag string
	profAddrFlag   string
)

var appVersion = "-unset-"

func main() {
	config.AppVersion = appVersion
	log.Printf("[nntpd]: starting Postus NNTP server (version: %s)", config.AppVersion)

	cfg := config.NewDefaultConfig()

	flag.StringVar(&hostnameFlag, "hostname", "", "server hostname, used for Path headers and Identity.HostIdentifier (required)")
	flag.IntVar(&portFlag, "port", cfg.Server.NNTP.Port, "NNTP TCP port")
	flag.IntVar(&maxConnsFlag, "maxconnections", cfg.Server.NNTP.MaxConns, "maximum concurrent connections")
	flag.StringVar(&backendFlag, "backend", cfg.Backend.Driver, "persistence backend: memory or sqlite")
	flag.StringVar(&sqlitePathFlag, "sqlite-path", cfg.Backend.SQLitePath, "sqlite database file (when -backend=sqlite)")
	flag.StringVar(&statusAddrFlag, "status-addr", "", "enable the read-only status HTTP surface on this address (e.g. :8980)")
	flag.StringVar(&profAddrFlag, "pprof-addr", "", "enable CPU/memory profiling web UI on this address (debug only)")
	flag.Parse()

	if hostnameFlag == "" {
		log.Fatalf("[nntpd]: -hostname must be set")
	}
	if maxConnsFlag <= 0 {
		log.Fatalf("[nntpd]: -maxconnections must be greater than 0")
	}

	cfg.Lock()
	cfg.Server.Hostname = hostnameFlag
	cfg.Server.NNTP.Port = portFlag
	cfg.Server.NNTP.MaxConns = maxConnsFlag
	cfg.Backend.Driver = backendFlag
	cfg.Backend.SQLitePath = sqlitePathFlag
	if statusAddrFlag != "" {
		cfg.StatusWeb.Enabled = true
		cfg.StatusWeb.ListenAddr = statusAddrFlag
	}
	cfg.Unlock()

	if profAddrFlag != "" {
		p := prof.NewProf()
		go p.PprofWeb(profAddrFlag)
		p.StartMemProfile(5*time.Minute, 30*time.Second)
		log.Printf("[nntpd]: profiling web UI listening on %s", profAddrFlag)
	}

	persistence, err := openBackend(cfg.Backend)
	if err != nil {
		log.Fatalf("[nntpd]: failed to open backend: %v", err)
	}
	if err := persistence.Init(); err != nil {
		log.Fatalf("[nntpd]: failed to initialize backend: %v", err)
	}
	defer persistence.Close()

	identity := memory.NewSimpleIdentity(cfg.Server.Hostname)
	policy := memory.NewOpenPolicy(cfg.Server.NNTP.MaxArtSize)
	stats := nntp.NewServerStats()
	registry := nntp.NewHandlerRegistry()

	listener, err := net.Listen("tcp", formatAddr(cfg.Server.NNTP.Port))
	if err != nil {
		log.Fatalf("[nntpd]: failed to listen on port %d: %v", cfg.Server.NNTP.Port, err)
	}
	log.Printf("[nntpd]: listening for NNTP connections on %s", listener.Addr())

	if cfg.StatusWeb.Enabled {
		web := statusweb.New(cfg, stats, persistence)
		go func() {
			if err := web.Run(); err != nil {
				log.Printf("[nntpd]: status web surface stopped: %v", err)
			}
		}()
		log.Printf("[nntpd]: status web surface listening on %s", cfg.StatusWeb.ListenAddr)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Printf("[nntpd]: shutdown signal received, closing listener")
		listener.Close()
	}()

	acceptLoop(listener, registry, persistence, identity, policy, stats, cfg.Server.NNTP.MaxConns)
	log.Printf("[nntpd]: server stopped")
}

func acceptLoop(listener net.Listener, registry *nntp.HandlerRegistry, persistence nntp.Persistence, identity nntp.Identity, policy nntp.Policy, stats *nntp.ServerStats, maxConns int) {
	semaphore := make(chan struct{}, maxConns)
	for {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		select {
		case semaphore <- struct{}{}:
		default:
			log.Printf("[nntpd]: connection limit (%d) reached, rejecting %s", maxConns, conn.RemoteAddr())
			conn.Close()
			continue
		}
		stats.ConnectionStarted()
		go func() {
			defer func() {
				<-semaphore
				stats.ConnectionEnded()
			}()
			engine := nntp.NewProtocolEngine(conn, registry, persistence, identity, policy, stats)
			engine.Run()
		}()
	}
}

func openBackend(cfg config.BackendConfig) (nntp.Persistence, error) {
	switch cfg.Driver {
	case "sqlite":
		return sqlite.Open(cfg.SQLitePath)
	default:
		return memory.New(), nil
	}
}

func formatAddr(port int) string {
	return ":" + strconv.Itoa(port)
}
