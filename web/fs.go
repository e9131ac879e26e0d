package web

import "embed"

// Files carries the app's HTML templates,
// laid out the way warden's defaults expect.
//
//go:embed tmpl
var Files embed.FS
