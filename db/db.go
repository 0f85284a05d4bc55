package db

import "embed"

// Migrations holds the idempotent schema statements, one directory per dialect.
//
//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var Migrations embed.FS
