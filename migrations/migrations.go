// Package migrations embeds the SQL schema so the server and the migrate
// CLI apply the same files without depending on the working directory.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
