package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/saker-ai/speech-frames/internal/transport/speech/codec"
)

// Request kinds accepted by the frame inspector.
const (
	KindConfig     = "config"
	KindContext    = "context"
	KindAudioStart = "audio_start"
	KindAudioChunk = "audio_chunk"
)

// EncodeRequest describes one request to encode. Audio is base64 in JSON.
type EncodeRequest struct {
	Kind        string          `json:"kind" binding:"required"`
	SessionID   string          `json:"session_id"`
	ContentType string          `json:"content_type,omitempty"`
	Payload     json.RawMessage `json:"payload,omitempty"`
	Audio       []byte          `json:"audio,omitempty"`
}

// EncodeResponse describes the encoded frame.
type EncodeResponse struct {
	MessageType   string        `json:"message_type"`
	HeaderLength  int           `json:"header_length"`
	PayloadLength int           `json:"payload_length"`
	Headers       codec.Headers `json:"headers"`
	Frame         []byte        `json:"frame"`
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// NewRouter builds the frame inspector routes.
func NewRouter(encoder *codec.Encoder, logger *zap.Logger) *gin.Engine {
	if encoder == nil {
		encoder = codec.NewEncoder()
	}
	router := gin.New()
	router.RedirectTrailingSlash = false
	router.RedirectFixedPath = false
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.POST("/v1/frames", func(c *gin.Context) {
		var req EncodeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		speechReq, err := req.toRequest()
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		frame, err := encoder.Encode(speechReq)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: err.Error(), Kind: errorKind(err)})
			return
		}
		headers, body, err := codec.Parse(frame)
		if err != nil {
			c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusOK, EncodeResponse{
			MessageType:   frame.Type.String(),
			HeaderLength:  headers.Len(),
			PayloadLength: len(body),
			Headers:       headers,
			Frame:         frame.Data,
		})
	})

	return router
}

func (r EncodeRequest) toRequest() (codec.Request, error) {
	var payload any
	if len(r.Payload) > 0 {
		payload = r.Payload
	}
	switch r.Kind {
	case KindConfig:
		return codec.ConfigUpdate{SessionID: r.SessionID, Payload: payload}, nil
	case KindContext:
		return codec.ContextUpdate{SessionID: r.SessionID, Payload: payload}, nil
	case KindAudioStart:
		return codec.AudioStart{SessionID: r.SessionID, ContentType: r.ContentType, Payload: r.Audio}, nil
	case KindAudioChunk:
		return codec.AudioChunk{SessionID: r.SessionID, Payload: r.Audio}, nil
	default:
		return nil, errors.New("unknown kind: " + r.Kind)
	}
}

func errorKind(err error) string {
	var overflow *codec.HeaderOverflowError
	var serialization *codec.SerializationError
	switch {
	case errors.Is(err, codec.ErrInvariant):
		return "invariant"
	case errors.As(err, &overflow):
		return "header_overflow"
	case errors.As(err, &serialization):
		return "serialization"
	default:
		return ""
	}
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		if logger == nil {
			return
		}
		logger.Info("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("client_ip", c.ClientIP()),
			zap.Int("status", c.Writer.Status()),
			zap.Int("bytes", c.Writer.Size()),
			zap.Duration("latency", latency),
		)
	}
}
