// Package mimetype holds the fixed extension to Content-Type table used for
// every file the server sends.
package mimetype

import "path"

// Table maps a file extension, leading dot included, to the Content-Type
// value served for files carrying that extension. The empty string key is
// the fallback for names with no extension or one the table does not know.
type Table map[string]string

// Default returns the extension table the server runs with. It is built
// once at startup and never mutated afterwards, so lookups are safe from
// concurrent requests without synchronization.
func Default() Table {
	return Table{
		".html": "text/html",
		".css":  "text/css",
		".js":   "application/javascript",
		".json": "application/json",
		".png":  "image/png",
		".jpg":  "image/jpeg",
		".jpeg": "image/jpeg",
		".gif":  "image/gif",
		".svg":  "image/svg+xml",
		".ico":  "image/x-icon",
		".mp3":  "audio/mpeg",
		".wav":  "audio/wav",
		"":      "application/octet-stream",
	}
}

// ContentType resolves the Content-Type for a file name. The extension is
// everything after the final dot of the base name, case preserved; names
// without a dot, or with an extension the table does not list, resolve to
// the empty extension fallback.
func (t Table) ContentType(name string) string {
	if typ, ok := t[path.Ext(name)]; ok {
		return typ
	}
	return t[""]
}
