package migrations

import "embed"

// FS holds the SQL migration files, applied with golang-migrate at startup.
//
//go:embed *.sql
var FS embed.FS
