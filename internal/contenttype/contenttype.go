// Package contenttype maps file names to MIME types for uploaded objects.
package contenttype

import (
	"mime"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/input-output-hk/catalyst-forge-libs/aws/s3deploy/deploytypes"
)

// webTypes pins the types of common web assets so results do not depend on
// the host's mime.types files.
var webTypes = map[string]string{
	".html":        "text/html",
	".htm":         "text/html",
	".css":         "text/css",
	".js":          "application/javascript",
	".mjs":         "application/javascript",
	".cjs":         "application/javascript",
	".json":        "application/json",
	".map":         "application/json",
	".webmanifest": "application/manifest+json",
	".xml":         "application/xml",
	".txt":         "text/plain",
	".md":          "text/markdown",
	".csv":         "text/csv",
	".svg":         "image/svg+xml",
	".png":         "image/png",
	".jpg":         "image/jpeg",
	".jpeg":        "image/jpeg",
	".gif":         "image/gif",
	".webp":        "image/webp",
	".avif":        "image/avif",
	".ico":         "image/x-icon",
	".woff":        "font/woff",
	".woff2":       "font/woff2",
	".ttf":         "font/ttf",
	".otf":         "font/otf",
	".eot":         "application/vnd.ms-fontobject",
	".wasm":        "application/wasm",
	".pdf":         "application/pdf",
	".zip":         "application/zip",
	".gz":          "application/gzip",
	".mp4":         "video/mp4",
	".webm":        "video/webm",
	".mp3":         "audio/mpeg",
	".wav":         "audio/wav",
}

// Resolve returns the content type for filename: the extension table first,
// then groupDefault, then application/octet-stream.
func Resolve(filename, groupDefault string) string {
	return ResolveContent(filename, groupDefault, nil, false)
}

// ResolveContent is Resolve with optional content sniffing. When sniff is set
// and the extension is unknown, body is inspected before falling back to
// groupDefault.
func ResolveContent(filename, groupDefault string, body []byte, sniff bool) string {
	if ct := FromExtension(filename); ct != "" {
		return ct
	}
	if sniff && len(body) > 0 {
		if mt := mimetype.Detect(body); mt != nil && mt.String() != deploytypes.DefaultContentType {
			return mt.String()
		}
	}
	if groupDefault != "" {
		return groupDefault
	}
	return deploytypes.DefaultContentType
}

// FromExtension looks up the type registered for the file extension, or "".
func FromExtension(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return ""
	}
	if ct, ok := webTypes[ext]; ok {
		return ct
	}
	return mime.TypeByExtension(ext)
}
