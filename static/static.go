package static

import "embed"

//go:embed app.js style.css
var FS embed.FS
