// Package migrations embeds the SQL schema migrations.
package migrations

import "embed"

// FS contains the migration files, applied on startup when
// database.migrate is enabled.
//
//go:embed *.sql
var FS embed.FS
