// Package codec encodes speech service requests into WebSocket frames.
//
// Configuration and context requests become text frames:
//
//	Path: speech.config\r\n
//	X-RequestId: <session>\r\n
//	X-Timestamp: 2024-01-01T00:00:00.000Z\r\n
//	Content-Type: application/json\r\n
//	\r\n
//	{"json":"body"}
//
// Audio requests become binary frames: a big-endian uint16 header length,
// the header block, then the raw audio bytes.
//
// Encoding is stateless and safe for concurrent use.
package codec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/bytedance/sonic"
)

// MaxHeaderLength is the largest header block a binary frame can describe.
const MaxHeaderLength = math.MaxUint16

const binaryPrefixSize = 2

// MessageType is the WebSocket message kind of a frame. The values are the
// RFC 6455 data opcodes.
type MessageType int

const (
	// TextMessage is a UTF-8 text frame.
	TextMessage MessageType = 1
	// BinaryMessage is a binary frame.
	BinaryMessage MessageType = 2
)

func (t MessageType) String() string {
	switch t {
	case TextMessage:
		return "text"
	case BinaryMessage:
		return "binary"
	default:
		return fmt.Sprintf("MessageType(%d)", int(t))
	}
}

// Frame is one encoded message. The caller owns Data.
type Frame struct {
	Type MessageType
	Data []byte
}

// Marshaler serializes text frame payloads.
type Marshaler func(v any) ([]byte, error)

// Encoder turns requests into frames.
type Encoder struct {
	clock   Clock
	marshal Marshaler
}

// Option configures an Encoder.
type Option func(*Encoder)

// WithClock sets the clock used for X-Timestamp.
func WithClock(clock Clock) Option {
	return func(e *Encoder) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// WithMarshaler replaces the JSON serializer for text payloads.
func WithMarshaler(marshal Marshaler) Option {
	return func(e *Encoder) {
		if marshal != nil {
			e.marshal = marshal
		}
	}
}

// NewEncoder creates an encoder using the wall clock and sonic's
// encoding/json compatible configuration.
func NewEncoder(opts ...Option) *Encoder {
	e := &Encoder{
		clock:   SystemClock{},
		marshal: sonic.ConfigStd.Marshal,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var defaultEncoder = NewEncoder()

// Encode encodes req with the default encoder.
func Encode(req Request) (Frame, error) {
	return defaultEncoder.Encode(req)
}

// Encode produces exactly one frame for req. On error no frame is returned.
func (e *Encoder) Encode(req Request) (Frame, error) {
	timestamp := FormatTimestamp(e.clock.Now())

	switch r := req.(type) {
	case ConfigUpdate:
		return e.encodeText(PathSpeechConfig, r.SessionID, timestamp, r.Payload)
	case *ConfigUpdate:
		if r == nil {
			return Frame{}, ErrUnknownRequest
		}
		return e.encodeText(PathSpeechConfig, r.SessionID, timestamp, r.Payload)
	case ContextUpdate:
		return e.encodeText(PathSpeechContext, r.SessionID, timestamp, r.Payload)
	case *ContextUpdate:
		if r == nil {
			return Frame{}, ErrUnknownRequest
		}
		return e.encodeText(PathSpeechContext, r.SessionID, timestamp, r.Payload)
	case AudioStart:
		return encodeAudioStart(r, timestamp)
	case *AudioStart:
		if r == nil {
			return Frame{}, ErrUnknownRequest
		}
		return encodeAudioStart(*r, timestamp)
	case AudioChunk:
		return encodeBinary(PathAudio, r.SessionID, timestamp, "", r.Payload)
	case *AudioChunk:
		if r == nil {
			return Frame{}, ErrUnknownRequest
		}
		return encodeBinary(PathAudio, r.SessionID, timestamp, "", r.Payload)
	default:
		return Frame{}, fmt.Errorf("%w: %T", ErrUnknownRequest, req)
	}
}

func encodeAudioStart(r AudioStart, timestamp string) (Frame, error) {
	if r.ContentType == "" {
		return Frame{}, &InvariantError{Field: HeaderContentType, Reason: "audio content type is empty"}
	}
	return encodeBinary(PathAudio, r.SessionID, timestamp, r.ContentType, r.Payload)
}

func (e *Encoder) encodeText(path string, sessionID string, timestamp string, payload any) (Frame, error) {
	headers, err := buildHeaders(path, sessionID, timestamp, ContentTypeJSON)
	if err != nil {
		return Frame{}, err
	}

	var body []byte
	if payload != nil {
		body, err = e.marshal(payload)
		if err != nil {
			return Frame{}, &SerializationError{Path: path, Err: err}
		}
		if bytes.ContainsAny(body, "\r\n") {
			return Frame{}, &SerializationError{Path: path, Err: errors.New("payload contains raw CR or LF")}
		}
	}

	data := make([]byte, 0, headers.Len()+len(crlf)+len(body))
	data = headers.AppendTo(data)
	data = append(data, crlf...)
	data = append(data, body...)
	return Frame{Type: TextMessage, Data: data}, nil
}

func encodeBinary(path string, sessionID string, timestamp string, contentType string, payload []byte) (Frame, error) {
	headers, err := buildHeaders(path, sessionID, timestamp, contentType)
	if err != nil {
		return Frame{}, err
	}

	headerLen := headers.Len()
	if headerLen > MaxHeaderLength {
		return Frame{}, &HeaderOverflowError{Length: headerLen}
	}

	data := make([]byte, binaryPrefixSize, binaryPrefixSize+headerLen+len(payload))
	binary.BigEndian.PutUint16(data[0:binaryPrefixSize], uint16(headerLen))
	data = headers.AppendTo(data)
	data = append(data, payload...)
	return Frame{Type: BinaryMessage, Data: data}, nil
}
