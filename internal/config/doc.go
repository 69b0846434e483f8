// Package config handles configuration loading for care-gateway.
//
// # Overview
//
// Configuration is loaded from YAML or TOML files with environment variable
// expansion. Every required value can also be supplied directly through the
// environment, so a file-less deployment works.
//
// # Configuration File
//
// Default locations (in order):
//
//  1. Path from CARE_GATEWAY_CONFIG environment variable
//  2. $XDG_CONFIG_HOME/care-gateway/gateway.yaml
//  3. ~/.config/care-gateway/gateway.yaml
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	datastore:
//	  api_key: "${DATASTORE_API_KEY}"
//
// Syntax: ${VAR_NAME}
//
// # Required Keys
//
// Four values are required before the server starts:
//
//	DATASTORE_URL          remote data store endpoint
//	DATASTORE_API_KEY      remote data store access key
//	DOCTOR_API_KEY         doctor-directory API key
//	SKIN_ANALYSIS_API_KEY  image-analysis API key
//
// Validate reports every missing key at once. Setting datastore.path
// switches to a local SQLite database and lifts the first two requirements.
//
// # Configuration Sections
//
//	server:
//	  http_addr: "localhost:8080"
//
//	datastore:
//	  url: "https://example.supabase.co"
//	  api_key: "${DATASTORE_API_KEY}"
//	  path: ""              # set for local SQLite mode
//
//	providers:
//	  doctor_api_key: "${DOCTOR_API_KEY}"
//	  skin_api_key: "${SKIN_ANALYSIS_API_KEY}"
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
package config
