package migrations

import "embed"

// FS migraciones SQL embebidas, aplicadas en orden de nombre.
//
//go:embed *.sql
var FS embed.FS
