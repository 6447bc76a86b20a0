package migrations

import "embed"

// Embedded per-dialect migration sources; go:embed cannot reach ../ so the
// dialect folders live under this package.
//
//go:embed *
var FS embed.FS
