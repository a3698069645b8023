package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/medkeeper/internal/flagx"
	"github.com/dmitrijs2005/medkeeper/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Intervals
// accept "3s" or integer nanoseconds.
type JsonConfig struct {
	ServerEndpointAddr  string         `json:"server_endpoint_addr"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	AdherenceWindowDays int            `json:"adherence_window_days"`
	LocalDBPath         string         `json:"local_db_path"`
}

// parseJson overlays Config with values loaded from the file named by
// -c/-config (or MEDKEEPER_CONFIG). Keys missing from the file keep their
// current value. Read or unmarshal errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	jc := JsonConfig{
		ServerEndpointAddr:  cfg.ServerEndpointAddr,
		OnlineCheckInterval: timex.Duration{Duration: cfg.OnlineCheckInterval},
		AdherenceWindowDays: cfg.AdherenceWindowDays,
		LocalDBPath:         cfg.LocalDBPath,
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	cfg.ServerEndpointAddr = jc.ServerEndpointAddr
	cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	cfg.AdherenceWindowDays = jc.AdherenceWindowDays
	cfg.LocalDBPath = jc.LocalDBPath
}
