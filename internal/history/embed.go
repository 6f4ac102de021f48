package history

import "embed"

// migrationsFS embeds the schema migration files applied by Open. Grounded
// on the teacher's embed-then-apply convention for static assets shipped
// inside the binary (internal/templates's go:embed directive), reused
// here for SQL instead of YAML templates.
//
//go:embed migrations/*.sql
var migrationsFS embed.FS
