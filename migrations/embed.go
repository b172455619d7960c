// Package migrations embeds the lampd SQL schema into the binary.
package migrations

import "embed"

// FS holds the forward migrations at its root. Pass it to database.DB.Migrate.
//
//go:embed *.sql
var FS embed.FS
