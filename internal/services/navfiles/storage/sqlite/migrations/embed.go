package migrations

import "embed"

// FS contains embedded SQLite migrations for the revision ledger.
//
//go:embed *.sql
var FS embed.FS
