package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mhoffman/alfred/internal/wire"
)

// HandlerFunc turns a parsed request into a response. A returned error
// becomes a 500; the connection is always answered once routing starts.
type HandlerFunc func(ctx context.Context, req *wire.Request) (*wire.Response, error)

// Router maps exact (method, path) pairs to handlers. No pattern
// matching, no path parameters. The table is built once at startup and
// never mutated afterwards.
type Router struct {
	routes map[string]HandlerFunc
	public map[string]bool
}

func NewRouter() *Router {
	return &Router{
		routes: make(map[string]HandlerFunc),
		public: make(map[string]bool),
	}
}

// Handle registers a handler for an exact method and path.
func (r *Router) Handle(method, path string, h HandlerFunc) {
	r.routes[method+" "+path] = h
}

// Public marks paths as exempt from authentication.
func (r *Router) Public(paths ...string) {
	for _, p := range paths {
		r.public[p] = true
	}
}

// IsPublic reports whether a path skips authentication.
func (r *Router) IsPublic(path string) bool {
	return r.public[path]
}

// Dispatch routes the request. Unmatched routes get a 404; a handler
// error or panic gets a 500 carrying the message, so a downstream
// failure never leaves the connection unanswered.
func (r *Router) Dispatch(ctx context.Context, req *wire.Request) *wire.Response {
	h, ok := r.routes[req.Method+" "+req.Path]
	if !ok {
		return wire.Error(404, fmt.Sprintf("not found: %s %s", req.Method, req.Path))
	}

	resp, err := invoke(ctx, h, req)
	if err != nil {
		body, _ := json.Marshal(map[string]string{
			"error":    err.Error(),
			"response": err.Error(),
		})
		return &wire.Response{
			StatusCode: 500,
			Headers:    map[string]string{"Content-Type": "application/json"},
			Body:       body,
		}
	}
	return resp
}

// invoke runs the handler with panic containment.
func invoke(ctx context.Context, h HandlerFunc, req *wire.Request) (resp *wire.Response, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return h(ctx, req)
}
