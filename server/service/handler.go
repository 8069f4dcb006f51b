// Package service assembles the HTTP handler: the standard library file
// server wrapped with Content-Type resolution, CORS header injection, and
// access logging.
package service

import (
	"net/http"
	"path"
	"strings"

	"github.com/felixge/httpsnoop"
	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/assetserve/assetserve/server/mimetype"
)

// MakeHandler builds the full request handling stack, outermost first:
// request logging, CORS header injection, Content-Type resolution, then
// http.FileServer over fsys. Path containment is the file server's own;
// nothing here touches the OS filesystem directly.
func MakeHandler(fsys http.FileSystem, table mimetype.Table, logger kitlog.Logger) http.Handler {
	var h http.Handler = http.FileServer(fsys)
	h = withContentType(fsys, table, h)
	h = withCORS(h)
	h = withRequestLogging(logger, h)
	return h
}

// withCORS sets the permissive cross origin header on the header map before
// any write happens, so every outcome carries it, error responses included.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		next.ServeHTTP(w, r)
	})
}

// withContentType resolves the Content-Type of the file the request will
// land on, reading through the same http.FileSystem the file server serves
// from. When the request does not land on a regular file (directory
// listing, redirect, miss) the header is left for the file server to fill
// in with its defaults.
func withContentType(fsys http.FileSystem, table mimetype.Table, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if name, ok := resolveFile(fsys, r.URL.Path); ok {
			w.Header().Set("Content-Type", table.ContentType(name))
		}
		next.ServeHTTP(w, r)
	})
}

// resolveFile reports the base name of the regular file the file server
// would serve for the request path: the file itself, or the directory's
// index.html when the path names a directory.
func resolveFile(fsys http.FileSystem, urlPath string) (string, bool) {
	if !strings.HasPrefix(urlPath, "/") {
		urlPath = "/" + urlPath
	}
	clean := path.Clean(urlPath)

	f, err := fsys.Open(clean)
	if err != nil {
		return "", false
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return "", false
	}
	if fi.Mode().IsRegular() {
		return fi.Name(), true
	}
	if fi.IsDir() && strings.HasSuffix(urlPath, "/") {
		idx, err := fsys.Open(path.Join(clean, "index.html"))
		if err != nil {
			return "", false
		}
		defer idx.Close()
		ifi, err := idx.Stat()
		if err != nil || !ifi.Mode().IsRegular() {
			return "", false
		}
		return ifi.Name(), true
	}
	return "", false
}

// withRequestLogging emits one access log line per request, success or
// error, with the final status and byte count captured from the response.
func withRequestLogging(logger kitlog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(next, w, r)
		level.Info(logger).Log(
			"remote", r.RemoteAddr,
			"method", r.Method,
			"path", r.URL.Path,
			"status", m.Code,
			"size", m.Written,
			"took", m.Duration,
		)
	})
}
