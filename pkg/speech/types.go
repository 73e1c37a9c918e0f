package speech

import (
	"runtime"
	"strings"
)

const (
	sdkName    = "SpeechSDK"
	sdkVersion = "1.0.0"
	sdkBuild   = "Go"
)

// Recognition modes.
const (
	ModeInteractive  = "interactive"
	ModeConversation = "conversation"
	ModeDictation    = "dictation"
)

// Output formats.
const (
	OutputSimple   = "simple"
	OutputDetailed = "detailed"
)

// Device describes the audio source reported in speech.config.
type Device struct {
	Manufacturer  string `mapstructure:"manufacturer" yaml:"manufacturer"`
	Model         string `mapstructure:"model" yaml:"model"`
	Connectivity  string `mapstructure:"connectivity" yaml:"connectivity"`
	Type          string `mapstructure:"type" yaml:"type"`
	SampleRate    int    `mapstructure:"sample_rate" yaml:"sample_rate"`
	BitsPerSample int    `mapstructure:"bits_per_sample" yaml:"bits_per_sample"`
	Channels      int    `mapstructure:"channels" yaml:"channels"`
}

// SpeechConfig is the speech.config payload.
type SpeechConfig struct {
	Context     ConfigContext `json:"context"`
	Recognition string        `json:"recognition"`
}

// ConfigContext groups the client description.
type ConfigContext struct {
	System SystemInfo `json:"system"`
	OS     OSInfo     `json:"os"`
	Audio  AudioInfo  `json:"audio"`
}

// SystemInfo identifies the client library.
type SystemInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Build   string `json:"build"`
	Lang    string `json:"lang"`
}

// OSInfo identifies the host.
type OSInfo struct {
	Platform string `json:"platform"`
	Name     string `json:"name"`
	Version  string `json:"version"`
}

// AudioInfo wraps the audio source.
type AudioInfo struct {
	Source AudioSource `json:"source"`
}

// AudioSource describes the capture device.
type AudioSource struct {
	BitsPerSample int    `json:"bitspersample"`
	ChannelCount  int    `json:"channelcount"`
	Connectivity  string `json:"connectivity"`
	Manufacturer  string `json:"manufacturer"`
	Model         string `json:"model"`
	SampleRate    int    `json:"samplerate"`
	Type          string `json:"type"`
}

// SpeechContext is the speech.context payload.
type SpeechContext struct {
	PhraseDetection PhraseDetection `json:"phraseDetection"`
	PhraseOutput    PhraseOutput    `json:"phraseOutput"`
	LanguageID      *LanguageID     `json:"languageId,omitempty"`
	Dgi             *Dgi            `json:"dgi,omitempty"`
}

// PhraseDetection selects the recognition mode and language.
type PhraseDetection struct {
	Mode     string `json:"mode"`
	Language string `json:"language,omitempty"`
}

// PhraseOutput selects the result format.
type PhraseOutput struct {
	Format string `json:"format"`
}

// LanguageID enables language identification among Languages.
type LanguageID struct {
	Languages []string      `json:"languages"`
	OnSuccess LanguageEvent `json:"onSuccess"`
	OnUnknown LanguageEvent `json:"onUnknown"`
}

// LanguageEvent is the action taken on an identification outcome.
type LanguageEvent struct {
	Action string `json:"action"`
}

// Dgi carries phrase hints.
type Dgi struct {
	Groups []DgiGroup `json:"Groups"`
}

// DgiGroup is one group of phrase hints.
type DgiGroup struct {
	Type  string    `json:"Type"`
	Items []DgiItem `json:"Items"`
}

// DgiItem is a single phrase hint.
type DgiItem struct {
	Text string `json:"Text"`
}

// ContextOptions drives NewSpeechContext.
type ContextOptions struct {
	Language           string   `mapstructure:"language" yaml:"language"`
	Mode               string   `mapstructure:"mode" yaml:"mode"`
	OutputFormat       string   `mapstructure:"output_format" yaml:"output_format"`
	CandidateLanguages []string `mapstructure:"candidate_languages" yaml:"candidate_languages"`
	Phrases            []string `mapstructure:"phrases" yaml:"phrases"`
}

// NewSpeechConfig builds the speech.config payload for device.
func NewSpeechConfig(device Device, mode string) SpeechConfig {
	device = normalizeDevice(device)
	return SpeechConfig{
		Context: ConfigContext{
			System: SystemInfo{Name: sdkName, Version: sdkVersion, Build: sdkBuild, Lang: sdkBuild},
			OS: OSInfo{
				Platform: runtime.GOOS + "/" + runtime.GOARCH,
				Name:     runtime.GOOS,
				Version:  runtime.Version(),
			},
			Audio: AudioInfo{Source: AudioSource{
				BitsPerSample: device.BitsPerSample,
				ChannelCount:  device.Channels,
				Connectivity:  device.Connectivity,
				Manufacturer:  device.Manufacturer,
				Model:         device.Model,
				SampleRate:    device.SampleRate,
				Type:          device.Type,
			}},
		},
		Recognition: normalizeMode(mode),
	}
}

// NewSpeechContext builds the speech.context payload.
func NewSpeechContext(opts ContextOptions) SpeechContext {
	ctx := SpeechContext{
		PhraseDetection: PhraseDetection{
			Mode:     normalizeMode(opts.Mode),
			Language: strings.TrimSpace(opts.Language),
		},
		PhraseOutput: PhraseOutput{Format: normalizeOutputFormat(opts.OutputFormat)},
	}

	languages := compactStrings(opts.CandidateLanguages)
	if len(languages) > 0 {
		ctx.LanguageID = &LanguageID{
			Languages: languages,
			OnSuccess: LanguageEvent{Action: "Recognize"},
			OnUnknown: LanguageEvent{Action: "None"},
		}
	}

	phrases := compactStrings(opts.Phrases)
	if len(phrases) > 0 {
		items := make([]DgiItem, 0, len(phrases))
		for _, phrase := range phrases {
			items = append(items, DgiItem{Text: phrase})
		}
		ctx.Dgi = &Dgi{Groups: []DgiGroup{{Type: "Generic", Items: items}}}
	}
	return ctx
}

func normalizeDevice(device Device) Device {
	if strings.TrimSpace(device.Manufacturer) == "" {
		device.Manufacturer = "Speech SDK"
	}
	if strings.TrimSpace(device.Model) == "" {
		device.Model = "File"
	}
	if strings.TrimSpace(device.Connectivity) == "" {
		device.Connectivity = "Unknown"
	}
	if strings.TrimSpace(device.Type) == "" {
		device.Type = "File"
	}
	if device.SampleRate <= 0 {
		device.SampleRate = 16000
	}
	if device.BitsPerSample <= 0 {
		device.BitsPerSample = 16
	}
	if device.Channels <= 0 {
		device.Channels = 1
	}
	return device
}

func normalizeMode(mode string) string {
	switch strings.TrimSpace(strings.ToLower(mode)) {
	case ModeInteractive, ModeDictation:
		return strings.TrimSpace(strings.ToLower(mode))
	default:
		return ModeConversation
	}
}

func normalizeOutputFormat(format string) string {
	if strings.TrimSpace(strings.ToLower(format)) == OutputSimple {
		return OutputSimple
	}
	return OutputDetailed
}

func compactStrings(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		out = append(out, value)
	}
	return out
}
