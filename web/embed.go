// Package web bundles the HTML templates and static assets into the binary.
package web

import "embed"

// Templates holds the layouts, partials and pages parsed by view.NewEngine.
//
//go:embed templates/**/*.html
var Templates embed.FS

// Static is served under /static/.
//
//go:embed static/**/*
var Static embed.FS
