// Package config loads shadowboard settings from a TOML file.
//
// The file selects a branding profile, toggles features per profile, and
// configures the artifact cache and the HTTP server. A missing file is not
// an error: [Default] is used instead.
//
//	profile = "alternate"
//
//	[profiles.alternate]
//	title = "Shadowboard Template"
//	organization = "Acme Foam Works"
//	url = "acme.example"
//	logo = "acme.png"
//	tiled_printing = false
//
//	[cache]
//	backend = "redis"
//	addr = "localhost:6379"
//	ttl = "24h"
package config
