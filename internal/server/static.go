package server

import (
	"os"
	"path/filepath"

	"github.com/mhoffman/alfred/internal/wire"
)

// fallbackHTML is served when no index file exists on disk, so the
// public paths always answer with something renderable.
const fallbackHTML = `<!DOCTYPE html>
<html>
<head><title>Alfred</title></head>
<body>
<h1>Alfred</h1>
<p>The web assets are not installed. API endpoints are available under /api/.</p>
</body>
</html>`

// serveIndex returns the assistant's web page, trying each candidate
// location in order before giving up and using the inline fallback.
func (s *Server) serveIndex() *wire.Response {
	candidates := []string{
		filepath.Join(s.webDir, "index-notion.html"),
		filepath.Join(s.webDir, "index.html"),
		filepath.Join("web", "index.html"),
	}

	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		return wire.HTML(200, string(data))
	}

	return wire.HTML(200, fallbackHTML)
}
