package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/medkeeper/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string   address and port of the backend server, or "memory"
//	-i int      online check interval in seconds
//	-w int      adherence window in days
//	-f string   local SQLite file
//
// Only the flags above are kept from os.Args (see flagx.FilterArgs).
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-i", "-w", "-f"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.IntVar(&cfg.AdherenceWindowDays, "w", cfg.AdherenceWindowDays, "adherence window (in days)")
	fs.StringVar(&cfg.LocalDBPath, "f", cfg.LocalDBPath, "local database file")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
}
