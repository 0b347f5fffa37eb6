package app

import (
	"log"
	"mime"

	"github.com/vr-inventory/vr-inventory/internal/export"
)

// Minimal container images ship without /etc/mime.types, so the types the
// app serves are registered explicitly.
func init() {
	for ext, typ := range map[string]string{
		".css":  "text/css; charset=utf-8",
		".xlsx": export.ContentType,
	} {
		registerMimeType(ext, typ)
	}
}

func registerMimeType(ext, typ string) {
	if mime.TypeByExtension(ext) != "" {
		return
	}
	if err := mime.AddExtensionType(ext, typ); err != nil {
		log.Printf("app: register MIME type for %s: %v", ext, err)
	}
}
