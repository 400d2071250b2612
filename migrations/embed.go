package migrations

import "embed"

// FS holds the versioned SQL files (V<version>__<name>.sql).
//
//go:embed *.sql
var FS embed.FS
