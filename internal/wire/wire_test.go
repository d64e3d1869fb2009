package wire

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"testing"
)

// chunkReader serves one predefined chunk per Read call, like a socket
// whose bytes arrive in bursts.
type chunkReader struct {
	chunks [][]byte
	reads  int
}

func (c *chunkReader) Read(p []byte) (int, error) {
	if len(c.chunks) == 0 {
		return 0, io.EOF
	}
	c.reads++
	chunk := c.chunks[0]
	c.chunks = c.chunks[1:]
	return copy(p, chunk), nil
}

func TestReadRequest(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		method  string
		path    string
		query   map[string]string
		headers map[string]string
		body    string
	}{
		{
			name:   "simple GET",
			raw:    "GET /api/health HTTP/1.1\r\nHost: localhost\r\n\r\n",
			method: "GET",
			path:   "/api/health",
		},
		{
			name:   "query string percent-decoded",
			raw:    "GET /api/query?q=what%20is%20due&day=today HTTP/1.1\r\n\r\n",
			method: "GET",
			path:   "/api/query",
			query:  map[string]string{"q": "what is due", "day": "today"},
		},
		{
			name:   "malformed query pairs dropped",
			raw:    "GET /api/calendar?day=mon&bare&a=b=c HTTP/1.1\r\n\r\n",
			method: "GET",
			path:   "/api/calendar",
			query:  map[string]string{"day": "mon"},
		},
		{
			name:    "header names lowercased",
			raw:     "GET / HTTP/1.1\r\nX-Api-Key: s3cret\r\nContent-Type: application/json\r\n\r\n",
			method:  "GET",
			path:    "/",
			headers: map[string]string{"x-api-key": "s3cret", "content-type": "application/json"},
		},
		{
			name:    "header line without separator ignored",
			raw:     "GET / HTTP/1.1\r\ngarbage-line\r\nHost: x\r\n\r\n",
			method:  "GET",
			path:    "/",
			headers: map[string]string{"host": "x"},
		},
		{
			name:    "body in first chunk",
			raw:     "POST /api/agent/teach HTTP/1.1\r\nContent-Length: 15\r\n\r\n{\"skill\":\"sum\"}",
			method:  "POST",
			path:    "/api/agent/teach",
			headers: map[string]string{"content-length": "15"},
			body:    "{\"skill\":\"sum\"}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := ReadRequest(strings.NewReader(tt.raw))
			if err != nil {
				t.Fatalf("ReadRequest returned error: %v", err)
			}
			if req.Method != tt.method {
				t.Errorf("method = %q, want %q", req.Method, tt.method)
			}
			if req.Path != tt.path {
				t.Errorf("path = %q, want %q", req.Path, tt.path)
			}
			for k, v := range tt.query {
				if req.Query[k] != v {
					t.Errorf("query[%q] = %q, want %q", k, req.Query[k], v)
				}
			}
			if len(req.Query) != len(tt.query) {
				t.Errorf("query has %d entries, want %d", len(req.Query), len(tt.query))
			}
			for k, v := range tt.headers {
				if req.Headers[k] != v {
					t.Errorf("headers[%q] = %q, want %q", k, req.Headers[k], v)
				}
			}
			if string(req.Body) != tt.body {
				t.Errorf("body = %q, want %q", req.Body, tt.body)
			}
		})
	}
}

func TestReadRequestRejectsGarbage(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty stream", ""},
		{"single token", "GET\r\n\r\n"},
		{"no header terminator", "GET / HTTP/1.1\r\nHost: x\r\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadRequest(strings.NewReader(tt.raw)); err == nil {
				t.Fatalf("ReadRequest(%q) succeeded, want error", tt.raw)
			}
		})
	}
}

func TestReadRequestBodyContinuation(t *testing.T) {
	// Headers declare 500 body bytes but only 100 arrive with them; the
	// decoder must issue one supplemental read for the remaining 400.
	head := "POST /api/todos/scan HTTP/1.1\r\nContent-Length: 500\r\n\r\n"
	first := bytes.Repeat([]byte("a"), 100)
	rest := bytes.Repeat([]byte("b"), 400)

	conn := &chunkReader{chunks: [][]byte{append([]byte(head), first...), rest}}
	req, err := ReadRequest(conn)
	if err != nil {
		t.Fatalf("ReadRequest returned error: %v", err)
	}
	if len(req.Body) != 500 {
		t.Fatalf("body length = %d, want 500", len(req.Body))
	}
	if conn.reads != 2 {
		t.Errorf("connection read %d times, want 2", conn.reads)
	}
	if !bytes.Equal(req.Body[:100], first) || !bytes.Equal(req.Body[100:], rest) {
		t.Errorf("body bytes do not match the two chunks")
	}
}

func TestReadRequestTruncatedBody(t *testing.T) {
	raw := "POST / HTTP/1.1\r\nContent-Length: 50\r\n\r\nshort"
	if _, err := ReadRequest(strings.NewReader(raw)); err == nil {
		t.Fatal("expected error for body shorter than Content-Length")
	}
}

func TestResponseEncode(t *testing.T) {
	resp := JSON(200, map[string]string{"status": "ok"})
	raw := string(resp.Encode())

	if !strings.HasPrefix(raw, "HTTP/1.1 200 OK\r\n") {
		t.Errorf("status line missing, got %q", raw)
	}
	if !strings.Contains(raw, "Content-Type: application/json\r\n") {
		t.Errorf("content type missing, got %q", raw)
	}
	wantBody := `{"status":"ok"}`
	if !strings.Contains(raw, "Content-Length: 15\r\n") {
		t.Errorf("content length missing, got %q", raw)
	}
	if !strings.HasSuffix(raw, "\r\n\r\n"+wantBody) {
		t.Errorf("body not terminated correctly, got %q", raw)
	}
}

func TestResponseEncodeReasonPhrases(t *testing.T) {
	tests := []struct {
		code   int
		reason string
	}{
		{200, "OK"},
		{400, "Bad Request"},
		{401, "Unauthorized"},
		{404, "Not Found"},
		{500, "Internal Server Error"},
		{418, "Unknown"},
	}

	for _, tt := range tests {
		resp := &Response{StatusCode: tt.code}
		raw := string(resp.Encode())
		want := fmt.Sprintf("HTTP/1.1 %d %s\r\n", tt.code, tt.reason)
		if !strings.HasPrefix(raw, want) {
			t.Errorf("Encode(%d) = %q, want prefix %q", tt.code, raw, want)
		}
	}
}

func TestResponseEncodeKeepsExplicitContentLength(t *testing.T) {
	resp := &Response{
		StatusCode: 200,
		Headers:    map[string]string{"Content-Length": "2"},
		Body:       []byte("ok"),
	}
	raw := string(resp.Encode())
	if strings.Count(raw, "Content-Length") != 1 {
		t.Errorf("Content-Length emitted more than once: %q", raw)
	}
}

func TestErrorResponseBody(t *testing.T) {
	resp := Error(404, "not found: GET /nope")
	var body map[string]string
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		t.Fatalf("error body is not JSON: %v", err)
	}
	if body["error"] != "not found: GET /nope" {
		t.Errorf("error field = %q", body["error"])
	}
}
