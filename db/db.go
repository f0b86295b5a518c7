// Package db embeds the goose SQL migrations so binaries and tests can apply
// them without a checkout of the repository.
package db

import "embed"

// Migrations holds migrations/*.sql. Pass "migrations" as the goose dir.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory inside Migrations that goose reads.
const MigrationsDir = "migrations"
