// Package migrations embeds the schema migration files applied by the
// SQLite store on open.
package migrations

import "embed"

// FS holds every SQL migration, embedded at compile time.
//
//go:embed *.sql
var FS embed.FS
