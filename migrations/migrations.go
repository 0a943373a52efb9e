// Package migrations embeds the ordered SQL schema migrations.
package migrations

import "embed"

//go:embed sqlite/*.sql
var FS embed.FS
