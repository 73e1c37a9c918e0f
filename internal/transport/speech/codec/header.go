package codec

import (
	"strings"
)

const crlf = "\r\n"

// Header names, in the order they are written.
const (
	HeaderPath        = "Path"
	HeaderRequestID   = "X-RequestId"
	HeaderTimestamp   = "X-Timestamp"
	HeaderContentType = "Content-Type"
)

// Header is a single "Name: Value" line.
type Header struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Headers is an ordered header set. Order is part of the wire format.
type Headers []Header

// Get returns the first value stored under name.
func (h Headers) Get(name string) (string, bool) {
	for _, header := range h {
		if header.Name == name {
			return header.Value, true
		}
	}
	return "", false
}

// Index returns the position of name, or -1.
func (h Headers) Index(name string) int {
	for i, header := range h {
		if header.Name == name {
			return i
		}
	}
	return -1
}

// Len returns the byte length of the rendered header block.
func (h Headers) Len() int {
	n := 0
	for _, header := range h {
		n += len(header.Name) + len(": ") + len(header.Value) + len(crlf)
	}
	return n
}

// AppendTo renders the header block onto dst.
func (h Headers) AppendTo(dst []byte) []byte {
	for _, header := range h {
		dst = append(dst, header.Name...)
		dst = append(dst, ": "...)
		dst = append(dst, header.Value...)
		dst = append(dst, crlf...)
	}
	return dst
}

// String renders the header block.
func (h Headers) String() string {
	return string(h.AppendTo(make([]byte, 0, h.Len())))
}

func (h Headers) validate() error {
	for _, header := range h {
		if strings.ContainsAny(header.Value, "\r\n") {
			return &InvariantError{Field: header.Name, Reason: "header value contains CR or LF"}
		}
	}
	return nil
}

func buildHeaders(path string, sessionID string, timestamp string, contentType string) (Headers, error) {
	if sessionID == "" {
		return nil, &InvariantError{Field: HeaderRequestID, Reason: "session id is empty"}
	}
	headers := make(Headers, 0, 4)
	headers = append(headers,
		Header{Name: HeaderPath, Value: path},
		Header{Name: HeaderRequestID, Value: sessionID},
		Header{Name: HeaderTimestamp, Value: timestamp},
	)
	if contentType != "" {
		headers = append(headers, Header{Name: HeaderContentType, Value: contentType})
	}
	if err := headers.validate(); err != nil {
		return nil, err
	}
	return headers, nil
}
