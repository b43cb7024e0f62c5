// Package schemas embeds the SQL migrations applied by database.Migrate.
package schemas

import "embed"

// Migrations contains all SQL migration files.
//
//go:embed migrations/*.sql
var Migrations embed.FS
