// Package config loads runtime configuration for the MedKeeper CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c, -config or MEDKEEPER_CONFIG.
//  3. Command-line flags, which override earlier values.
//
// # JSON schema
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "online_check_interval": "3s",
//	  "adherence_window_days": 28,
//	  "local_db_path": "medkeeper.db"
//	}
package config
