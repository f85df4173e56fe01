package web

import "embed"

// TemplatesFS embeds the page templates. Each page defines "title" and
// "content" for layout.html.
//
//go:embed templates/*.html
var TemplatesFS embed.FS

// StaticFS embeds static assets.
//
//go:embed static/*
var StaticFS embed.FS
