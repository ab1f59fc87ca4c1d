// Package web embeds the annotator UI. The page is the view collaborator:
// it renders PDF pages and captures label/comment events, and talks to the
// core only through the JSON API.
package web

import "embed"

//go:embed static
var Static embed.FS
