package wire

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// reasonPhrases covers the status codes the server actually emits.
var reasonPhrases = map[int]string{
	200: "OK",
	400: "Bad Request",
	401: "Unauthorized",
	404: "Not Found",
	500: "Internal Server Error",
}

// Response is one HTTP response ready for encoding. Header emission
// order follows map iteration and is not guaranteed.
type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
}

// JSON builds a response by marshaling v as the body.
func JSON(status int, v any) *Response {
	body, err := json.Marshal(v)
	if err != nil {
		return Error(500, fmt.Sprintf("encode response: %v", err))
	}
	return &Response{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       body,
	}
}

// Error builds a JSON response carrying the message under an "error" key.
func Error(status int, msg string) *Response {
	body, _ := json.Marshal(map[string]string{"error": msg})
	return &Response{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       body,
	}
}

// HTML builds a text/html response.
func HTML(status int, body string) *Response {
	return &Response{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "text/html; charset=utf-8"},
		Body:       []byte(body),
	}
}

// Encode serializes the response: status line, headers, an injected
// Content-Length when a body exists and none was set, blank line, body.
func (r *Response) Encode() []byte {
	var buf bytes.Buffer

	reason, ok := reasonPhrases[r.StatusCode]
	if !ok {
		reason = "Unknown"
	}
	fmt.Fprintf(&buf, "HTTP/1.1 %d %s\r\n", r.StatusCode, reason)

	hasLength := false
	for k, v := range r.Headers {
		if k == "Content-Length" {
			hasLength = true
		}
		fmt.Fprintf(&buf, "%s: %s\r\n", k, v)
	}
	if len(r.Body) > 0 && !hasLength {
		fmt.Fprintf(&buf, "Content-Length: %d\r\n", len(r.Body))
	}

	buf.WriteString("\r\n")
	buf.Write(r.Body)
	return buf.Bytes()
}
