// Package migrations ships the trip store schema as goose SQL migrations.
// The API server applies them at startup and the repository integration
// tests apply them to a scratch database.
package migrations

import "embed"

// FS is the migration source handed to goose.NewProvider.
//
//go:embed *.sql
var FS embed.FS
