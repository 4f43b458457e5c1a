// Package config provides configuration management for the NNTP server.
package config

import (
	"log"
	"sync"
	"time"
)

var AppVersion = "-unset-" // set at build time via -ldflags

const (
	// NNTP protocol constants
	DOT  = "."
	CR   = "\r"
	LF   = "\n"
	CRLF = CR + LF

	DefaultConnectTimeout = 30 * time.Second
	DefaultMaxArticleSize = 32 * 1024 // 'N' KB max article size

	// NNTPServerMaxConns is the default concurrent connection ceiling.
	NNTPServerMaxConns = 500
)

// MainConfig holds the main configuration for the server.
type MainConfig struct {
	mux sync.Mutex `json:"-"`

	Server     ServerConfig    `json:"server"`
	Backend    BackendConfig   `json:"backend"`
	StatusWeb  StatusWebConfig `json:"status_web"`
	AppVersion string          `json:"app_version"`
}

// ServerConfig holds NNTP server listener configuration.
type ServerConfig struct {
	Hostname string `json:"hostname"` // used for NNTP Path headers and Identity.HostIdentifier
	NNTP     struct {
		Enabled    bool   `json:"enabled"`
		Port       int    `json:"port"`
		TLSPort    int    `json:"tls_port"`
		MaxConns   int    `json:"max_connections"`
		TLSCert    string `json:"tls_cert"`
		TLSKey     string `json:"tls_key"`
		MaxArtSize int    `json:"max_article_size"`
	} `json:"nntp"`
}

// BackendConfig selects and configures the Persistence collaborator.
type BackendConfig struct {
	Driver     string `json:"driver"` // "memory" or "sqlite"
	SQLitePath string `json:"sqlite_path"`
}

// StatusWebConfig holds the optional read-only HTTP status surface.
type StatusWebConfig struct {
	Enabled       bool   `json:"enabled"`
	ListenAddr    string `json:"listen_addr"`
	AdminUser     string `json:"admin_user"`
	AdminPassHash string `json:"admin_pass_hash"` // bcrypt hash, empty disables admin login
}

// NewDefaultConfig returns a configuration with sensible defaults.
func NewDefaultConfig() *MainConfig {
	if AppVersion == "-unset-" {
		log.Printf("config.AppVersion is unset, using default")
	}
	cfg := &MainConfig{
		AppVersion: AppVersion,
		Server: ServerConfig{
			NNTP: struct {
				Enabled    bool   `json:"enabled"`
				Port       int    `json:"port"`
				TLSPort    int    `json:"tls_port"`
				MaxConns   int    `json:"max_connections"`
				TLSCert    string `json:"tls_cert"`
				TLSKey     string `json:"tls_key"`
				MaxArtSize int    `json:"max_article_size"`
			}{
				Enabled:    true,
				Port:       1119,
				TLSPort:    0,
				MaxConns:   NNTPServerMaxConns,
				MaxArtSize: DefaultMaxArticleSize,
			},
		},
		Backend: BackendConfig{
			Driver:     "memory",
			SQLitePath: "data/postus.sq3",
		},
		StatusWeb: StatusWebConfig{
			Enabled:    false,
			ListenAddr: ":8980",
		},
	}
	return cfg
}

// Lock/Unlock expose the config mutex for callers that mutate it after
// flag parsing (matches the teacher's convention of a config-owned mutex
// rather than a package-level one).
func (c *MainConfig) Lock()   { c.mux.Lock() }
func (c *MainConfig) Unlock() { c.mux.Unlock() }
