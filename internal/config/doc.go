// Package config loads the viewer's TOML configuration.
//
// The file lives at ~/.config/aws-multi-log-viewer/config.toml unless a path
// is given. A missing file is not an error; defaults apply. Zero or empty
// values also fall back to defaults.
//
//	region = "ap-northeast-1"
//	profile = "dev"
//	group_prefix = "/aws/lambda/"
//	tick_rate_ms = 250
//	tail_interval_ms = 1000
//	fetch_limit = 50
//	tail_lookback_sec = 300
//	display_path = "message"
//	log_file = "~/.cache/aws-multi-log-viewer/viewer.log"
//	fold_sidebar = false
//
// Command-line flags override the file; see the cmd package.
package config
