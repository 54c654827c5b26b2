// Package config loads the ottocode configuration once at process start.
// The resulting Config is passed by pointer into every component
// constructor; nothing reads configuration from globals afterwards.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Generator backends.
const (
	BackendGemini = "gemini"
	BackendOpenAI = "openai"
)

// Plain env vars honoured in addition to the OTTOCODE_* keys.
const (
	EnvGoogleAPIKey      = "GOOGLE_API_KEY"
	EnvGPTChatKey        = "GPT_CHAT_KEY"
	EnvGPTChatEndpoint   = "GPT_CHAT_ENDPOINT"
	EnvAzureSpeechKey    = "AZURE_SPEECH_KEY"
	EnvAzureSpeechRegion = "AZURE_SPEECH_REGION"
)

// Config is the root configuration.
type Config struct {
	Generator GeneratorConfig `mapstructure:"generator"`
	Sampling  SamplingConfig  `mapstructure:"sampling"`
	Annotate  AnnotateConfig  `mapstructure:"annotate"`
	Speech    SpeechConfig    `mapstructure:"speech"`
	STT       STTConfig       `mapstructure:"stt"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// GeneratorConfig selects and configures the remote text-generation backend.
type GeneratorConfig struct {
	Backend        string       `mapstructure:"backend"`      // "gemini" or "openai"
	DisplayName    string       `mapstructure:"display_name"` // shown in "<name> API is not configured."
	TimeoutSeconds int          `mapstructure:"timeout_seconds"`
	Gemini         GeminiConfig `mapstructure:"gemini"`
	OpenAI         OpenAIConfig `mapstructure:"openai"`
}

// GeminiConfig holds Google Generative Language API settings.
type GeminiConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

// OpenAIConfig holds settings for an OpenAI-compatible chat endpoint.
type OpenAIConfig struct {
	APIKey   string `mapstructure:"api_key"`
	Endpoint string `mapstructure:"endpoint"`
	Model    string `mapstructure:"model"`
}

// Sampling bounds one kind of remote call.
type Sampling struct {
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float64 `mapstructure:"temperature"`
}

// SamplingConfig groups the per-operation sampling parameters.
type SamplingConfig struct {
	Code    Sampling `mapstructure:"code"`
	Comment Sampling `mapstructure:"comment"`
	Explain Sampling `mapstructure:"explain"`
}

// AnnotateConfig tunes the line annotator.
type AnnotateConfig struct {
	// Concurrency bounds in-flight per-line requests. 1 is strictly sequential.
	Concurrency int `mapstructure:"concurrency"`
}

// SpeechConfig configures narration.
type SpeechConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	AzureKey       string `mapstructure:"azure_key"`
	AzureRegion    string `mapstructure:"azure_region"`
	Voice          string `mapstructure:"voice"`
	ChunkSize      int    `mapstructure:"chunk_size"`
	SerialPlayback bool   `mapstructure:"serial_playback"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// STTConfig configures speech capture.
type STTConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	WhisperBin    string `mapstructure:"whisper_bin"`
	WhisperModel  string `mapstructure:"whisper_model"`
	TempDir       string `mapstructure:"temp_dir"`
	ListenSeconds int    `mapstructure:"listen_seconds"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level string `mapstructure:"level"` // off, normal, verbose
	File  string `mapstructure:"file"`  // "stderr" logs to the console
}

// Load reads the configuration from .env, an optional YAML file, the
// environment and defaults, in increasing order of precedence for env.
// If configFile is non-empty it is used directly; otherwise ./ottocode.yaml
// and ./configs/ottocode.yaml are searched.
func Load(configFile string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("ottocode")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	// OTTOCODE_GENERATOR_BACKEND, OTTOCODE_ANNOTATE_CONCURRENCY, etc.
	v.SetEnvPrefix("OTTOCODE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	cfg.resolveSecrets()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("generator.backend", BackendGemini)
	v.SetDefault("generator.display_name", "")
	v.SetDefault("generator.timeout_seconds", 30)
	v.SetDefault("generator.gemini.api_key", "${"+EnvGoogleAPIKey+"}")
	v.SetDefault("generator.gemini.model", "gemini-1.5-flash-latest")
	v.SetDefault("generator.gemini.base_url", "https://generativelanguage.googleapis.com")
	v.SetDefault("generator.openai.api_key", "${"+EnvGPTChatKey+"}")
	v.SetDefault("generator.openai.endpoint", "${"+EnvGPTChatEndpoint+"}")
	v.SetDefault("generator.openai.model", "")
	v.SetDefault("sampling.code.max_tokens", 150)
	v.SetDefault("sampling.code.temperature", 0.2)
	v.SetDefault("sampling.comment.max_tokens", 50)
	v.SetDefault("sampling.comment.temperature", 0.3)
	v.SetDefault("sampling.explain.max_tokens", 150)
	v.SetDefault("sampling.explain.temperature", 0.3)
	v.SetDefault("annotate.concurrency", 4)
	v.SetDefault("speech.enabled", true)
	v.SetDefault("speech.azure_key", "${"+EnvAzureSpeechKey+"}")
	v.SetDefault("speech.azure_region", "${"+EnvAzureSpeechRegion+"}")
	v.SetDefault("speech.voice", "en-US-AvaNeural")
	v.SetDefault("speech.chunk_size", 200)
	v.SetDefault("speech.serial_playback", false)
	v.SetDefault("speech.timeout_seconds", 120)
	v.SetDefault("stt.enabled", false)
	v.SetDefault("stt.whisper_bin", "whisper-cli")
	v.SetDefault("stt.whisper_model", "bin/ggml-small.bin")
	v.SetDefault("stt.temp_dir", ".otto-stt")
	v.SetDefault("stt.listen_seconds", 5)
	v.SetDefault("logging.level", "normal")
	v.SetDefault("logging.file", ".otto-logs/ottocode.log")
}

// resolveSecrets expands "${VAR}" references in credential fields.
func (c *Config) resolveSecrets() {
	c.Generator.Gemini.APIKey = resolveEnvRef(c.Generator.Gemini.APIKey)
	c.Generator.OpenAI.APIKey = resolveEnvRef(c.Generator.OpenAI.APIKey)
	c.Generator.OpenAI.Endpoint = resolveEnvRef(c.Generator.OpenAI.Endpoint)
	c.Speech.AzureKey = resolveEnvRef(c.Speech.AzureKey)
	c.Speech.AzureRegion = resolveEnvRef(c.Speech.AzureRegion)
}

// resolveEnvRef replaces a "${VAR_NAME}" value with the env var. An unset
// variable resolves to "" so an unconfigured credential stays empty.
func resolveEnvRef(val string) string {
	if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
		return os.Getenv(val[2 : len(val)-1])
	}
	return val
}

// Validate rejects values no component can work with.
func (c *Config) Validate() error {
	switch c.Generator.Backend {
	case BackendGemini, BackendOpenAI:
	default:
		return fmt.Errorf("config: unknown generator backend %q", c.Generator.Backend)
	}
	if c.Annotate.Concurrency < 1 {
		return fmt.Errorf("config: annotate.concurrency must be >= 1, got %d", c.Annotate.Concurrency)
	}
	for name, s := range map[string]Sampling{
		"code":    c.Sampling.Code,
		"comment": c.Sampling.Comment,
		"explain": c.Sampling.Explain,
	} {
		if s.MaxTokens <= 0 {
			return fmt.Errorf("config: sampling.%s.max_tokens must be > 0", name)
		}
		if s.Temperature < 0 || s.Temperature > 2 {
			return fmt.Errorf("config: sampling.%s.temperature out of range: %v", name, s.Temperature)
		}
	}
	if c.STT.ListenSeconds <= 0 {
		return fmt.Errorf("config: stt.listen_seconds must be > 0")
	}
	if c.Speech.TimeoutSeconds <= 0 {
		return fmt.Errorf("config: speech.timeout_seconds must be > 0")
	}
	return nil
}

// GeneratorConfigured reports whether the selected backend has the
// credentials it needs. The answer never changes after Load.
func (c *Config) GeneratorConfigured() bool {
	switch c.Generator.Backend {
	case BackendGemini:
		return c.Generator.Gemini.APIKey != ""
	case BackendOpenAI:
		return c.Generator.OpenAI.APIKey != "" && c.Generator.OpenAI.Endpoint != ""
	default:
		return false
	}
}

// GeneratorName returns the service name shown to the user.
func (c *Config) GeneratorName() string {
	if c.Generator.DisplayName != "" {
		return c.Generator.DisplayName
	}
	if c.Generator.Backend == BackendOpenAI {
		return "OpenAI"
	}
	return "Gemini"
}

// TTSConfigured reports whether Azure TTS credentials are present.
func (c *Config) TTSConfigured() bool {
	return c.Speech.Enabled && c.Speech.AzureKey != "" && c.Speech.AzureRegion != ""
}

// GeneratorTimeout returns the HTTP timeout for generation calls.
func (c *Config) GeneratorTimeout() time.Duration {
	return time.Duration(c.Generator.TimeoutSeconds) * time.Second
}

// NarrationTimeout returns the upper bound for a single narration.
func (c *Config) NarrationTimeout() time.Duration {
	return time.Duration(c.Speech.TimeoutSeconds) * time.Second
}
