package migrations

import "embed"

// FS holds the SQL migration files embedded at build time. The iofs
// driver of golang-migrate reads them from here when applying schema
// changes.
//
//go:embed *.sql
var FS embed.FS

// Version is the schema version the application expects.
const Version = 1
