// Package migrations embeds the schema for every supported store. Each
// dialect has its own directory, named after config's driver names.
package migrations

import "embed"

//go:embed mysql/*.sql sqlite/*.sql postgres/*.sql
var Migrations embed.FS
