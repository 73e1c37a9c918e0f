package speech

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/saker-ai/speech-frames/internal/transport/speech/codec"
)

const (
	defaultChunkSize = 3200
	handshakeTimeout = 10 * time.Second
)

// Conn is the websocket connection frames are written to. *websocket.Conn
// satisfies it.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Clock supplies X-Timestamp values.
type Clock interface {
	Now() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithSessionID fixes the X-RequestId of every request.
func WithSessionID(sessionID string) Option {
	return func(c *Client) {
		if id := strings.TrimSpace(sessionID); id != "" {
			c.sessionID = id
		}
	}
}

// WithClock replaces the wall clock used for X-Timestamp.
func WithClock(clock Clock) Option {
	return func(c *Client) {
		if clock != nil {
			c.encoder = codec.NewEncoder(codec.WithClock(clock))
		}
	}
}

// Client writes the requests of one recognition session to a connection.
// It is safe for concurrent use.
type Client struct {
	conn      Conn
	encoder   *codec.Encoder
	logger    *zap.Logger
	sessionID string

	writeMu sync.Mutex
	closed  bool
}

// NewSessionID returns a 32 character hex request id.
func NewSessionID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Dial opens a websocket to url. The connection is not retried.
func Dial(ctx context.Context, url string, header http.Header) (*websocket.Conn, error) {
	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: handshakeTimeout,
	}
	conn, _, err := dialer.DialContext(ctx, url, header)
	if err != nil {
		return nil, &ConnectionError{Op: "dial", URL: url, Err: err}
	}
	return conn, nil
}

// NewClient creates a client writing to conn.
func NewClient(conn Conn, logger *zap.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Client{
		conn:      conn,
		encoder:   codec.NewEncoder(),
		logger:    logger,
		sessionID: NewSessionID(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SessionID returns the X-RequestId used by this client.
func (c *Client) SessionID() string {
	return c.sessionID
}

// SendConfig sends a speech.config request.
func (c *Client) SendConfig(ctx context.Context, payload any) error {
	return c.send(ctx, codec.PathSpeechConfig, codec.ConfigUpdate{SessionID: c.sessionID, Payload: payload})
}

// SendContext sends a speech.context request.
func (c *Client) SendContext(ctx context.Context, payload any) error {
	return c.send(ctx, codec.PathSpeechContext, codec.ContextUpdate{SessionID: c.sessionID, Payload: payload})
}

// StartAudio opens the audio stream with the given content type.
func (c *Client) StartAudio(ctx context.Context, contentType string, header []byte) error {
	if err := c.send(ctx, codec.PathAudio, codec.AudioStart{
		SessionID:   c.sessionID,
		ContentType: contentType,
		Payload:     header,
	}); err != nil {
		return err
	}
	c.logger.Info("speech audio started",
		zap.String("session_id", c.sessionID),
		zap.String("content_type", contentType),
		zap.Int("bytes", len(header)),
	)
	return nil
}

// SendAudio sends one audio chunk. Empty chunks are skipped; use EndAudio
// to terminate the stream.
func (c *Client) SendAudio(ctx context.Context, chunk []byte) error {
	if len(chunk) == 0 {
		return nil
	}
	return c.send(ctx, codec.PathAudio, codec.AudioChunk{SessionID: c.sessionID, Payload: chunk})
}

// EndAudio sends the empty chunk that ends the audio stream.
func (c *Client) EndAudio(ctx context.Context) error {
	if err := c.send(ctx, codec.PathAudio, codec.AudioChunk{SessionID: c.sessionID}); err != nil {
		return err
	}
	c.logger.Info("speech audio ended", zap.String("session_id", c.sessionID))
	return nil
}

// StreamAudio sends r as one audio stream: the first chunk opens it, the
// following chunks carry the rest, and an empty chunk closes it.
func (c *Client) StreamAudio(ctx context.Context, contentType string, r io.Reader, chunkSize int) error {
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	buf := acquireChunk(chunkSize)
	defer releaseChunk(buf)

	started := false
	for {
		n, readErr := io.ReadFull(r, buf)
		if n > 0 {
			var err error
			if !started {
				err = c.StartAudio(ctx, contentType, buf[:n])
				started = true
			} else {
				err = c.SendAudio(ctx, buf[:n])
			}
			if err != nil {
				return err
			}
		}
		if readErr == nil {
			continue
		}
		if !errors.Is(readErr, io.EOF) && !errors.Is(readErr, io.ErrUnexpectedEOF) {
			return readErr
		}
		break
	}
	if !started {
		if err := c.StartAudio(ctx, contentType, nil); err != nil {
			return err
		}
	}
	return c.EndAudio(ctx)
}

// Close closes the underlying connection. Later sends fail with ErrClosed.
func (c *Client) Close() error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

func (c *Client) send(ctx context.Context, path string, req codec.Request) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	frame, err := c.encoder.Encode(req)
	if err != nil {
		return &SendError{Op: "encode", Path: path, Err: err}
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	// codec.MessageType values are the websocket opcodes.
	if err := c.conn.WriteMessage(int(frame.Type), frame.Data); err != nil {
		c.logger.Warn("speech frame write failed",
			zap.String("session_id", c.sessionID),
			zap.String("path", path),
			zap.Error(err),
		)
		return &SendError{Op: "write", Path: path, Err: err}
	}
	c.logger.Debug("speech frame sent",
		zap.String("session_id", c.sessionID),
		zap.String("path", path),
		zap.Stringer("message_type", frame.Type),
		zap.Int("bytes", len(frame.Data)),
	)
	return nil
}
