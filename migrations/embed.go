// Package migrations embeds the versioned PostgreSQL schema migrations.
package migrations

import "embed"

// FS holds the up/down SQL files, named <version>_<title>.<up|down>.sql.
//
//go:embed *.sql
var FS embed.FS
