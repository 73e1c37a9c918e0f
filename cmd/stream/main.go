package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	appconfig "github.com/saker-ai/speech-frames/internal/config"
	applogger "github.com/saker-ai/speech-frames/internal/logger"
	"github.com/saker-ai/speech-frames/pkg/speech"
)

func main() {
	configPath := ""
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	cfg, err := appconfig.LoadConfig(configPath)
	if err != nil {
		fallback, _ := zap.NewProduction()
		defer fallback.Sync()
		fallback.Fatal("failed to load config", zap.Error(err))
	}

	logger, err := applogger.New(cfg.Log)
	if err != nil {
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg.Service, logger); err != nil {
		logger.Error("speech stream failed", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, svc appconfig.ServiceConfig, logger *zap.Logger) error {
	if svc.Endpoint == "" {
		return errors.New("service.endpoint is empty")
	}
	if svc.AudioFile == "" {
		return errors.New("service.audio_file is empty")
	}

	contextOpts := svc.ContextOptions()
	if svc.ContextFile != "" {
		fileOpts, err := speech.LoadContextFile(svc.ContextFile)
		if err != nil {
			return err
		}
		contextOpts = mergeContextOptions(contextOpts, fileOpts)
	}

	audio, err := os.Open(svc.AudioFile)
	if err != nil {
		return fmt.Errorf("open audio file: %w", err)
	}
	defer audio.Close()

	conn, err := speech.Dial(ctx, svc.Endpoint, svc.DialHeader())
	if err != nil {
		return err
	}
	client := speech.NewClient(conn, logger)
	defer client.Close()

	logger.Info("speech stream connected",
		zap.String("endpoint", svc.Endpoint),
		zap.String("session_id", client.SessionID()),
		zap.String("audio_file", svc.AudioFile),
	)

	if err := client.SendConfig(ctx, speech.NewSpeechConfig(svc.Device, svc.RecognitionMode)); err != nil {
		return err
	}
	if err := client.SendContext(ctx, speech.NewSpeechContext(contextOpts)); err != nil {
		return err
	}
	return client.StreamAudio(ctx, svc.ContentType, audio, svc.ChunkSize)
}

// mergeContextOptions lets non-empty file values win over config values.
func mergeContextOptions(base speech.ContextOptions, file speech.ContextOptions) speech.ContextOptions {
	if file.Language != "" {
		base.Language = file.Language
	}
	if file.Mode != "" {
		base.Mode = file.Mode
	}
	if file.OutputFormat != "" {
		base.OutputFormat = file.OutputFormat
	}
	if len(file.CandidateLanguages) > 0 {
		base.CandidateLanguages = file.CandidateLanguages
	}
	if len(file.Phrases) > 0 {
		base.Phrases = file.Phrases
	}
	return base
}
