package codec

import (
	"bytes"
	"errors"
	"testing"
)

func TestParseTextRoundTrip(t *testing.T) {
	frame, err := testEncoder().Encode(ConfigUpdate{SessionID: "abc", Payload: map[string]bool{"ok": true}})
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	headers, body, err := ParseText(frame.Data)
	if err != nil {
		t.Fatalf("ParseText returned error: %v", err)
	}
	if len(headers) != 4 {
		t.Fatalf("header count=%d, want 4", len(headers))
	}
	if id, _ := headers.Get(HeaderRequestID); id != "abc" {
		t.Fatalf("X-RequestId=%q, want %q", id, "abc")
	}
	if string(body) != `{"ok":true}` {
		t.Fatalf("body=%q", body)
	}
	if headers.String()+"\r\n"+string(body) != string(frame.Data) {
		t.Fatal("re-rendered frame differs from the encoded one")
	}
}

func TestParseBinaryRoundTrip(t *testing.T) {
	payload := []byte{0, 1, 2, 3, 4}
	frame, err := testEncoder().Encode(AudioStart{SessionID: "abc", ContentType: "audio/x-wav", Payload: payload})
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	headers, got, err := ParseBinary(frame.Data)
	if err != nil {
		t.Fatalf("ParseBinary returned error: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("payload=%v, want %v", got, payload)
	}
	if headers.Len() != len(frame.Data)-2-len(payload) {
		t.Fatalf("header length=%d, want %d", headers.Len(), len(frame.Data)-2-len(payload))
	}
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name  string
		frame Frame
	}{
		{name: "text without separator", frame: Frame{Type: TextMessage, Data: []byte("Path: a\r\n")}},
		{name: "text bad header line", frame: Frame{Type: TextMessage, Data: []byte("Path\r\n\r\n{}")}},
		{name: "binary too short", frame: Frame{Type: BinaryMessage, Data: []byte{0}}},
		{name: "binary length exceeds frame", frame: Frame{Type: BinaryMessage, Data: []byte{0, 10, 'P'}}},
		{name: "binary unterminated header", frame: Frame{Type: BinaryMessage, Data: append([]byte{0, 7}, "Path: a"...)}},
		{name: "unknown type", frame: Frame{Type: MessageType(9)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := Parse(tt.frame); !errors.Is(err, ErrMalformedFrame) {
				t.Fatalf("Parse error=%v, want ErrMalformedFrame", err)
			}
		})
	}
}

func TestParseBinaryEmptyHeaderBlock(t *testing.T) {
	headers, payload, err := ParseBinary([]byte{0, 0, 9})
	if err != nil {
		t.Fatalf("ParseBinary returned error: %v", err)
	}
	if len(headers) != 0 {
		t.Fatalf("headers=%v, want none", headers)
	}
	if !bytes.Equal(payload, []byte{9}) {
		t.Fatalf("payload=%v, want [9]", payload)
	}
}
