// Command nntpadm administers feed peers and the status web admin
// password against a Postus backend. Grounded on the teacher's
// cmd/usermgr/main.go flag layout and its term.ReadPassword/bcrypt
// password-entry flow, adapted from web users to NNTP feed peers.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"syscall"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"

	"github.com/postus-nntp/postus/internal/collaborators/memory"
	"github.com/postus-nntp/postus/internal/collaborators/sqlite"
	"github.com/postus-nntp/postus/internal/config"
	"github.com/postus-nntp/postus/internal/nntp"
)

var appVersion = "-unset-"

func main() {
	config.AppVersion = appVersion
	log.Printf("Postus peer administration tool (version: %s)", config.AppVersion)

	var (
		addPeer      = flag.Bool("add-peer", false, "Add or update a feed peer")
		removePeer   = flag.Bool("remove-peer", false, "Remove a feed peer")
		listPeers    = flag.Bool("list-peers", false, "List configured feed peers")
		hashAdminPwd = flag.Bool("hash-admin-password", false, "Prompt for and bcrypt-hash a status web admin password")
		name         = flag.String("name", "", "Peer name")
		host         = flag.String("host", "", "Peer host")
		port         = flag.Int("port", 119, "Peer port")
		priority     = flag.Int("priority", 0, "Peer priority, lower values preferred")
		posting      = flag.Bool("posting", true, "Whether this peer may post/transfer articles")
		backend      = flag.String("backend", "memory", "Persistence backend: memory or sqlite")
		sqlitePath   = flag.String("sqlite-path", "data/postus.sq3", "sqlite database file (when -backend=sqlite)")
	)
	flag.Parse()

	if *hashAdminPwd {
		if err := hashAdminPassword(); err != nil {
			log.Fatalf("failed to hash admin password: %v", err)
		}
		return
	}

	if !*addPeer && !*removePeer && !*listPeers {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	persistence, err := openBackend(*backend, *sqlitePath)
	if err != nil {
		log.Fatalf("failed to open backend: %v", err)
	}
	if err := persistence.Init(); err != nil {
		log.Fatalf("failed to initialize backend: %v", err)
	}
	defer persistence.Close()

	switch {
	case *addPeer:
		if *name == "" || *host == "" {
			log.Fatal("-name and -host are required for -add-peer")
		}
		err := persistence.AddPeer(nntp.Peer{Name: *name, Host: *host, Port: *port, Priority: *priority, Posting: *posting})
		if err != nil {
			log.Fatalf("failed to add peer: %v", err)
		}
		fmt.Printf("peer %q added\n", *name)

	case *removePeer:
		if *name == "" {
			log.Fatal("-name is required for -remove-peer")
		}
		if err := persistence.RemovePeer(*name); err != nil {
			log.Fatalf("failed to remove peer: %v", err)
		}
		fmt.Printf("peer %q removed\n", *name)

	case *listPeers:
		peers := persistence.GetPeers()
		if len(peers) == 0 {
			fmt.Println("no peers configured")
			return
		}
		for _, p := range peers {
			fmt.Printf("%-20s %s:%d priority=%d posting=%v\n", p.Name, p.Host, p.Port, p.Priority, p.Posting)
		}
	}
}

func openBackend(driver, sqlitePath string) (nntp.Persistence, error) {
	switch driver {
	case "sqlite":
		return sqlite.Open(sqlitePath)
	default:
		return memory.New(), nil
	}
}

func hashAdminPassword() error {
	fmt.Print("Enter admin password: ")
	password, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return fmt.Errorf("failed to read password: %v", err)
	}
	fmt.Println()

	fmt.Print("Confirm admin password: ")
	confirm, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return fmt.Errorf("failed to read password confirmation: %v", err)
	}
	fmt.Println()

	if string(password) != string(confirm) {
		return fmt.Errorf("passwords do not match")
	}
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}

	hashed, err := bcrypt.GenerateFromPassword(password, bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %v", err)
	}
	fmt.Printf("\nbcrypt hash (put this in StatusWeb.AdminPassHash):\n%s\n", hashed)
	return nil
}
