package appfs

import "embed"

// FS holds the assets shipped with the binaries.
//
//go:embed templates
var FS embed.FS
