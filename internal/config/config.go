package config

import (
	"bytes"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	appdefaults "github.com/saker-ai/speech-frames/config"
	"github.com/saker-ai/speech-frames/internal/logger"
	"github.com/saker-ai/speech-frames/pkg/speech"
)

const envPrefix = "speech"

// ServiceConfig describes the remote speech service and what to send to it.
type ServiceConfig struct {
	Endpoint           string            `mapstructure:"endpoint"`
	DialHeaders        map[string]string `mapstructure:"dial_headers"`
	Language           string            `mapstructure:"language"`
	RecognitionMode    string            `mapstructure:"recognition_mode"`
	OutputFormat       string            `mapstructure:"output_format"`
	CandidateLanguages []string          `mapstructure:"candidate_languages"`
	Phrases            []string          `mapstructure:"phrases"`
	ContentType        string            `mapstructure:"content_type"`
	ChunkSize          int               `mapstructure:"chunk_size"`
	AudioFile          string            `mapstructure:"audio_file"`
	ContextFile        string            `mapstructure:"context_file"`
	Device             speech.Device     `mapstructure:"device"`
}

// Config is the application configuration.
type Config struct {
	RootDir  string        `mapstructure:"-"`
	HTTPAddr string        `mapstructure:"http_addr"`
	Service  ServiceConfig `mapstructure:"service"`
	Log      logger.Config `mapstructure:"log"`
}

// Load reads conf.yaml from the resolved root directory, if present.
func Load() (Config, error) {
	rootDir, err := resolveRootDir()
	if err != nil {
		return Config{}, err
	}
	loadDotEnv(rootDir)

	v, err := newViper()
	if err != nil {
		return Config{}, err
	}
	v.SetConfigName("conf")
	v.SetConfigType("yaml")
	v.AddConfigPath(rootDir)

	if err := v.MergeInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, err
		}
	}
	return decode(v, rootDir)
}

// LoadConfig reads the config file at configPath. An empty path falls back
// to Load.
func LoadConfig(configPath string) (Config, error) {
	path := strings.TrimSpace(configPath)
	if path == "" {
		return Load()
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return Config{}, err
	}

	rootDir := strings.TrimSpace(os.Getenv("SPEECH_ROOT_DIR"))
	if rootDir == "" {
		rootDir = filepath.Dir(absPath)
		if filepath.Base(rootDir) == "config" {
			rootDir = filepath.Dir(rootDir)
		}
	}
	loadDotEnv(rootDir)

	v, err := newViper()
	if err != nil {
		return Config{}, err
	}
	v.SetConfigFile(absPath)
	if err := v.MergeInConfig(); err != nil {
		return Config{}, err
	}
	return decode(v, rootDir)
}

// DialHeader converts the configured dial headers.
func (c ServiceConfig) DialHeader() http.Header {
	header := http.Header{}
	for name, value := range c.DialHeaders {
		header.Set(name, value)
	}
	return header
}

// ContextOptions returns the speech.context settings from the config.
func (c ServiceConfig) ContextOptions() speech.ContextOptions {
	return speech.ContextOptions{
		Language:           c.Language,
		Mode:               c.RecognitionMode,
		OutputFormat:       c.OutputFormat,
		CandidateLanguages: c.CandidateLanguages,
		Phrases:            c.Phrases,
	}
}

func newViper() (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(appdefaults.Default)); err != nil {
		return nil, fmt.Errorf("load embedded config: %w", err)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v, nil
}

func decode(v *viper.Viper, rootDir string) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	cfg.RootDir = rootDir
	derivePaths(&cfg)
	if cfg.Service.ChunkSize <= 0 {
		cfg.Service.ChunkSize = 3200
	}
	return cfg, nil
}

func loadDotEnv(rootDir string) {
	// A missing .env is normal.
	_ = godotenv.Load(filepath.Join(rootDir, ".env"))
}

func resolveRootDir() (string, error) {
	if root := strings.TrimSpace(os.Getenv("SPEECH_ROOT_DIR")); root != "" {
		return filepath.Abs(root)
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	dir := wd
	for i := 0; i < 6; i++ {
		if fileExists(filepath.Join(dir, "conf.yaml")) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return wd, nil
}

func derivePaths(cfg *Config) {
	cfg.Service.AudioFile = resolvePath(cfg.RootDir, cfg.Service.AudioFile)
	cfg.Service.ContextFile = resolvePath(cfg.RootDir, cfg.Service.ContextFile)
}

func resolvePath(rootDir string, configured string) string {
	path := strings.TrimSpace(configured)
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(rootDir, path)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
