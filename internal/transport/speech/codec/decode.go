package codec

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"
)

// ParseText splits a text frame into its headers and body.
func ParseText(data []byte) (Headers, []byte, error) {
	block, body, ok := bytes.Cut(data, []byte(crlf+crlf))
	if !ok {
		return nil, nil, fmt.Errorf("%w: missing header separator", ErrMalformedFrame)
	}
	headers, err := parseHeaderLines(string(block) + crlf)
	if err != nil {
		return nil, nil, err
	}
	return headers, body, nil
}

// ParseBinary splits a binary frame into its headers and payload.
func ParseBinary(data []byte) (Headers, []byte, error) {
	if len(data) < binaryPrefixSize {
		return nil, nil, fmt.Errorf("%w: binary frame too short", ErrMalformedFrame)
	}
	headerLen := int(binary.BigEndian.Uint16(data[0:binaryPrefixSize]))
	if headerLen > len(data)-binaryPrefixSize {
		return nil, nil, fmt.Errorf("%w: header length %d exceeds frame", ErrMalformedFrame, headerLen)
	}
	headers, err := parseHeaderLines(string(data[binaryPrefixSize : binaryPrefixSize+headerLen]))
	if err != nil {
		return nil, nil, err
	}
	return headers, data[binaryPrefixSize+headerLen:], nil
}

// Parse dispatches on the message type.
func Parse(frame Frame) (Headers, []byte, error) {
	switch frame.Type {
	case TextMessage:
		return ParseText(frame.Data)
	case BinaryMessage:
		return ParseBinary(frame.Data)
	default:
		return nil, nil, fmt.Errorf("%w: unsupported message type %s", ErrMalformedFrame, frame.Type)
	}
}

func parseHeaderLines(block string) (Headers, error) {
	if block == "" {
		return Headers{}, nil
	}
	if !strings.HasSuffix(block, crlf) {
		return nil, fmt.Errorf("%w: header block not CRLF terminated", ErrMalformedFrame)
	}
	lines := strings.Split(strings.TrimSuffix(block, crlf), crlf)
	headers := make(Headers, 0, len(lines))
	for _, line := range lines {
		name, value, ok := strings.Cut(line, ": ")
		if !ok || name == "" {
			return nil, fmt.Errorf("%w: bad header line %q", ErrMalformedFrame, line)
		}
		headers = append(headers, Header{Name: name, Value: value})
	}
	return headers, nil
}
