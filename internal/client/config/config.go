package config

import (
	"time"

	"github.com/dmitrijs2005/medkeeper/internal/common"
)

// MemoryEndpoint selects the in-process backend instead of a gRPC server.
const MemoryEndpoint = "memory"

// Config holds runtime settings for the MedKeeper CLI.
//
// Fields:
//   - ServerEndpointAddr: host:port of the backend gRPC endpoint, or MemoryEndpoint.
//   - OnlineCheckInterval: how often the client probes server reachability.
//   - AdherenceWindowDays: length of the trailing progress window.
//   - LocalDBPath: SQLite file holding the saved session.
type Config struct {
	ServerEndpointAddr  string
	OnlineCheckInterval time.Duration
	AdherenceWindowDays int
	LocalDBPath         string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.OnlineCheckInterval = 3 * time.Second
	c.AdherenceWindowDays = common.DefaultAdherenceWindowDays
	c.LocalDBPath = "medkeeper.db"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
