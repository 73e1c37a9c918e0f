package runtime

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	appconfig "github.com/saker-ai/speech-frames/internal/config"
	apphttp "github.com/saker-ai/speech-frames/internal/http"
	applogger "github.com/saker-ai/speech-frames/internal/logger"
	"github.com/saker-ai/speech-frames/internal/transport/speech/codec"
)

// Server runs the frame inspector.
type Server struct {
	cfg    appconfig.Config
	logger *zap.Logger
	server *http.Server

	mu       sync.Mutex
	listener net.Listener
}

// New loads configPath (empty means conf.yaml discovery) and builds the server.
func New(configPath string) (*Server, error) {
	cfg, err := appconfig.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("load speech config: %w", err)
	}

	logger, err := applogger.New(cfg.Log)
	if err != nil {
		logger, _ = zap.NewProduction()
	}
	logger.Info("speech config loaded",
		zap.String("config_path", configPath),
		zap.String("root_dir", cfg.RootDir),
		zap.String("http_addr", cfg.HTTPAddr),
		zap.String("log_level", cfg.Log.Level),
	)

	return NewWithConfig(cfg, logger), nil
}

// NewWithConfig builds the server from an already loaded config.
func NewWithConfig(cfg appconfig.Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	router := apphttp.NewRouter(codec.NewEncoder(), logger)
	return &Server{
		cfg:    cfg,
		logger: logger,
		server: &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Logger returns the server logger.
func (s *Server) Logger() *zap.Logger {
	return s.logger
}

// Run serves until Shutdown. It returns nil after a clean shutdown.
func (s *Server) Run() error {
	if s == nil || s.server == nil {
		return nil
	}
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	s.logger.Info("starting frame inspector", zap.String("addr", ln.Addr().String()))
	return ignoreServerClosed(s.server.Serve(ln))
}

// Addr returns the listening address once Run has started, otherwise the
// configured one.
func (s *Server) Addr() string {
	if s == nil || s.server == nil {
		return ""
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.server.Addr
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	return ignoreServerClosed(s.server.Shutdown(ctx))
}

func ignoreServerClosed(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
