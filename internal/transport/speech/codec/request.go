package codec

const (
	// PathSpeechConfig is the Path header for configuration updates.
	PathSpeechConfig = "speech.config"
	// PathSpeechContext is the Path header for context updates.
	PathSpeechContext = "speech.context"
	// PathAudio is the Path header for audio start and audio chunks.
	PathAudio = "audio"

	// ContentTypeJSON is the Content-Type of every text frame body.
	ContentTypeJSON = "application/json"
)

// Request is one outbound message. Only the four request types in this
// package implement it.
type Request interface {
	request()
}

// ConfigUpdate sends the client/device configuration as a text frame.
type ConfigUpdate struct {
	SessionID string
	Payload   any
}

// ContextUpdate sends the recognition context as a text frame.
type ContextUpdate struct {
	SessionID string
	Payload   any
}

// AudioStart opens an audio stream. ContentType describes the audio format
// and Payload usually carries the container header (e.g. the WAV header).
type AudioStart struct {
	SessionID   string
	ContentType string
	Payload     []byte
}

// AudioChunk carries audio bytes. A nil or empty Payload ends the stream.
type AudioChunk struct {
	SessionID string
	Payload   []byte
}

func (ConfigUpdate) request()  {}
func (ContextUpdate) request() {}
func (AudioStart) request()    {}
func (AudioChunk) request()    {}

// IsEndOfStream reports whether the chunk terminates the audio stream.
func (c AudioChunk) IsEndOfStream() bool {
	return len(c.Payload) == 0
}
