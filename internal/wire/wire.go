// Package wire implements byte-level HTTP/1.1 request decoding and
// response encoding for the embedded server. It performs no network
// I/O of its own beyond the reads the caller hands it.
package wire

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
)

// readChunk is the size of the initial read issued for a connection.
// Headers must fit in this chunk; bodies may spill past it.
const readChunk = 4096

// ErrNoRequest is returned when the connection yields nothing that can
// be interpreted as an HTTP request. Callers close the connection
// silently in that case.
var ErrNoRequest = errors.New("no request")

// Request is one parsed HTTP request. Header names are lowercased;
// query values are percent-decoded. Immutable after ReadRequest.
type Request struct {
	Method  string
	Path    string
	Headers map[string]string
	Query   map[string]string
	Body    []byte
}

// Header looks up a header by its lowercase name.
func (r *Request) Header(name string) string {
	return r.Headers[strings.ToLower(name)]
}

// ReadRequest reads and parses a single request from conn.
//
// The read strategy is two-phase: one initial read of up to readChunk
// bytes covers the request line, headers and whatever body bytes
// arrived with them. If Content-Length says the body is still short,
// exactly one supplemental read fills the remaining byte count. Bodies
// that need more than that are out of contract.
func ReadRequest(conn io.Reader) (*Request, error) {
	buf := make([]byte, readChunk)
	n, err := conn.Read(buf)
	if n == 0 {
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("read request: %w", err)
		}
		return nil, ErrNoRequest
	}
	raw := buf[:n]

	headerEnd := bytes.Index(raw, []byte("\r\n\r\n"))
	if headerEnd < 0 {
		return nil, ErrNoRequest
	}

	lines := strings.Split(string(raw[:headerEnd]), "\r\n")
	method, path, query, err := parseRequestLine(lines[0])
	if err != nil {
		return nil, err
	}

	req := &Request{
		Method:  method,
		Path:    path,
		Query:   query,
		Headers: parseHeaders(lines[1:]),
	}

	body := raw[headerEnd+4:]
	if cl := req.Headers["content-length"]; cl != "" {
		want, err := strconv.Atoi(cl)
		if err == nil && want > len(body) {
			rest := make([]byte, want-len(body))
			if _, err := io.ReadFull(conn, rest); err != nil {
				return nil, fmt.Errorf("read body: %w", err)
			}
			body = append(body, rest...)
		}
	}
	if len(body) > 0 {
		req.Body = body
	}

	return req, nil
}

// parseRequestLine decomposes "METHOD PATH[?QUERY] VERSION". Anything
// with fewer than two space-separated tokens is not a request.
func parseRequestLine(line string) (method, path string, query map[string]string, err error) {
	parts := strings.Split(line, " ")
	if len(parts) < 2 {
		return "", "", nil, ErrNoRequest
	}

	method = parts[0]
	target := parts[1]

	path = target
	rawQuery := ""
	if i := strings.Index(target, "?"); i >= 0 {
		path = target[:i]
		rawQuery = target[i+1:]
	}

	return method, path, parseQuery(rawQuery), nil
}

// parseQuery splits a raw query string into a map. Only pairs with
// exactly one "=" are kept; a malformed pair is dropped rather than
// failing the whole request.
func parseQuery(rawQuery string) map[string]string {
	query := make(map[string]string)
	if rawQuery == "" {
		return query
	}

	for _, pair := range strings.Split(rawQuery, "&") {
		if strings.Count(pair, "=") != 1 {
			continue
		}
		kv := strings.SplitN(pair, "=", 2)
		value, err := url.QueryUnescape(kv[1])
		if err != nil {
			continue
		}
		query[kv[0]] = value
	}

	return query
}

// parseHeaders consumes header lines up to the blank line. Names are
// lowercased so lookups don't depend on client casing; lines without
// the ": " separator are ignored.
func parseHeaders(lines []string) map[string]string {
	headers := make(map[string]string)
	for _, line := range lines {
		if line == "" {
			break
		}
		kv := strings.SplitN(line, ": ", 2)
		if len(kv) != 2 {
			continue
		}
		headers[strings.ToLower(kv[0])] = kv[1]
	}
	return headers
}
