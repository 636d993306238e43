// Package config provides configuration for Blocknest.
//
// Configuration is read from a TOML or YAML file (chosen by extension) and
// then overridden by BLOCKNEST_ environment variables:
//
//	[engine]
//	max_undo_entries = 1000
//	strict_invariants = false
//
//	[log]
//	level = "info"      # debug, info, warn, error
//	format = "console"  # console or json
//
//	[html]
//	task_list_attr = "task-list"
//	pretty = false
//
// A variable such as BLOCKNEST_LOG_LEVEL=debug sets log.level. A missing
// file is not an error; the defaults apply.
//
// Watcher reloads the file when it changes on disk.
package config
