// Package web embeds the HTML templates and static assets served by the
// application, so the binary ships self-contained.
package web

import "embed"

//go:embed templates static
var FS embed.FS
