// Package config loads runtime configuration for the wms CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional TOML file (see parseTOML), usually given with -c / --config.
//  3. Optional .env file, then the process environment (prefix WMS_).
//  4. Command-line flags, applied by the CLI on top of the loaded value.
//
// # TOML schema
//
// Durations accept strings like "30s":
//
//	api_url = "https://wms.example.com"
//	store_type = "sqlite"
//	store_path = "/var/lib/wms/client.db"
//	request_timeout = "30s"
//	log_level = "info"
//	mirror_max_records = 5000
//
//	[backup]
//	bucket = "wms-backups"
//	region = "eu-central-1"
//
// # Environment
//
// WMS_API_URL, WMS_STORE, WMS_STORE_PATH, WMS_REDIS_ADDR, WMS_REDIS_PASSWORD,
// WMS_REDIS_DB, WMS_REQUEST_TIMEOUT, WMS_LOG_LEVEL, WMS_LOG_FORMAT,
// WMS_MIRROR_MAX_RECORDS, WMS_UPLOADS_MAX_ENTRIES and WMS_BACKUP_* for the
// backup section (BUCKET, REGION, ENDPOINT, ACCESS_KEY, SECRET_KEY, PREFIX,
// PATH_STYLE).
package config
