// Package config loads and merges prr configuration from multiple sources.
//
// Precedence (highest to lowest):
//  1. CLI flags
//  2. Environment variables (PRR_TOKEN or GITHUB_TOKEN, PRR_WORKDIR, PRR_URL, PRR_EDITOR)
//  3. A .prr.toml file in the current directory or any parent
//  4. Config file ($XDG_CONFIG_HOME/prr/config.toml)
//  5. Built-in defaults
//
// The config file is TOML:
//
//	[prr]
//	token = "ghp_..."
//	workdir = "/home/me/reviews"
//
//	[cache]
//	enabled = true
//	ttl_seconds = 86400
//
// A .prr.toml names the repository bare PR numbers refer to, and may move the
// workdir for that checkout:
//
//	[local]
//	repository = "danobi/prr"
//	workdir = ".reviews"
//
// Use [Load] to obtain a merged [Config], [Init] to write a starter config
// file, and [Set] to update a single key in the config file.
package config
