// Package migrations embeds the goose SQL migrations of the postgres schema.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS

// Dir is the directory of FS that holds the migrations.
const Dir = "."
