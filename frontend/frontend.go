// Package frontend embeds the overlay page loaded by every overlay window.
package frontend

import "embed"

// Assets is served by the Wails asset handler. Each overlay window loads
// index.html with its window name in the query string and paints the frames
// emitted for that name.
//
//go:embed all:dist
var Assets embed.FS
