package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvGoogleAPIKey, EnvGPTChatKey, EnvGPTChatEndpoint, EnvAzureSpeechKey, EnvAzureSpeechRegion} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ottocode.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(writeConfig(t, "{}\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Generator.Backend != BackendGemini || cfg.GeneratorName() != "Gemini" {
		t.Fatalf("generator = %+v", cfg.Generator)
	}
	if cfg.Sampling.Code != (Sampling{MaxTokens: 150, Temperature: 0.2}) {
		t.Fatalf("code sampling = %+v", cfg.Sampling.Code)
	}
	if cfg.Sampling.Comment != (Sampling{MaxTokens: 50, Temperature: 0.3}) {
		t.Fatalf("comment sampling = %+v", cfg.Sampling.Comment)
	}
	if cfg.Sampling.Explain != (Sampling{MaxTokens: 150, Temperature: 0.3}) {
		t.Fatalf("explain sampling = %+v", cfg.Sampling.Explain)
	}
	if cfg.Annotate.Concurrency != 4 {
		t.Fatalf("concurrency = %d", cfg.Annotate.Concurrency)
	}
	if cfg.STT.ListenSeconds != 5 {
		t.Fatalf("listen seconds = %d", cfg.STT.ListenSeconds)
	}
	if cfg.NarrationTimeout() != 2*time.Minute {
		t.Fatalf("narration timeout = %s", cfg.NarrationTimeout())
	}
	if cfg.GeneratorConfigured() {
		t.Fatal("no key set: generator must not be configured")
	}
	if cfg.TTSConfigured() {
		t.Fatal("no key set: TTS must not be configured")
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvGoogleAPIKey, "g-key")
	t.Setenv("OTTOCODE_ANNOTATE_CONCURRENCY", "2")

	cfg, err := Load(writeConfig(t, `
generator:
  display_name: Gemini Pro
  gemini:
    model: gemini-pro
annotate:
  concurrency: 8
speech:
  timeout_seconds: 30
sampling:
  comment:
    max_tokens: 30
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Generator.DisplayName != "Gemini Pro" || cfg.Generator.Gemini.Model != "gemini-pro" {
		t.Fatalf("generator = %+v", cfg.Generator)
	}
	if cfg.Generator.Gemini.APIKey != "g-key" {
		t.Fatalf("api key = %q", cfg.Generator.Gemini.APIKey)
	}
	if !cfg.GeneratorConfigured() {
		t.Fatal("generator should be configured")
	}
	if cfg.Annotate.Concurrency != 2 {
		t.Fatalf("env must override file: concurrency = %d", cfg.Annotate.Concurrency)
	}
	if cfg.Sampling.Comment.MaxTokens != 30 || cfg.Sampling.Comment.Temperature != 0.3 {
		t.Fatalf("comment sampling = %+v", cfg.Sampling.Comment)
	}
	if cfg.NarrationTimeout() != 30*time.Second {
		t.Fatalf("narration timeout = %s", cfg.NarrationTimeout())
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	clearEnv(t)
	if _, err := Load(writeConfig(t, "generator:\n  backend: llama\n")); err == nil {
		t.Fatal("expected error for unknown backend")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for an explicit missing file")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Generator: GeneratorConfig{Backend: BackendGemini},
			Sampling: SamplingConfig{
				Code:    Sampling{MaxTokens: 150, Temperature: 0.2},
				Comment: Sampling{MaxTokens: 50, Temperature: 0.3},
				Explain: Sampling{MaxTokens: 150, Temperature: 0.3},
			},
			Annotate: AnnotateConfig{Concurrency: 1},
			STT:      STTConfig{ListenSeconds: 5},
			Speech:   SpeechConfig{TimeoutSeconds: 120},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"openai backend", func(c *Config) { c.Generator.Backend = BackendOpenAI }, false},
		{"unknown backend", func(c *Config) { c.Generator.Backend = "local" }, true},
		{"zero concurrency", func(c *Config) { c.Annotate.Concurrency = 0 }, true},
		{"negative tokens", func(c *Config) { c.Sampling.Comment.MaxTokens = -1 }, true},
		{"temperature too high", func(c *Config) { c.Sampling.Explain.Temperature = 3 }, true},
		{"no listen window", func(c *Config) { c.STT.ListenSeconds = 0 }, true},
		{"no narration timeout", func(c *Config) { c.Speech.TimeoutSeconds = 0 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGeneratorConfigured(t *testing.T) {
	tests := []struct {
		name string
		gen  GeneratorConfig
		want bool
	}{
		{"gemini with key", GeneratorConfig{Backend: BackendGemini, Gemini: GeminiConfig{APIKey: "k"}}, true},
		{"gemini without key", GeneratorConfig{Backend: BackendGemini}, false},
		{"openai complete", GeneratorConfig{Backend: BackendOpenAI, OpenAI: OpenAIConfig{APIKey: "k", Endpoint: "https://x"}}, true},
		{"openai without endpoint", GeneratorConfig{Backend: BackendOpenAI, OpenAI: OpenAIConfig{APIKey: "k"}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{Generator: tt.gen}
			if got := c.GeneratorConfigured(); got != tt.want {
				t.Fatalf("GeneratorConfigured() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGeneratorName(t *testing.T) {
	tests := []struct {
		gen  GeneratorConfig
		want string
	}{
		{GeneratorConfig{Backend: BackendGemini}, "Gemini"},
		{GeneratorConfig{Backend: BackendOpenAI}, "OpenAI"},
		{GeneratorConfig{Backend: BackendOpenAI, DisplayName: "Azure OpenAI"}, "Azure OpenAI"},
	}
	for _, tt := range tests {
		c := &Config{Generator: tt.gen}
		if got := c.GeneratorName(); got != tt.want {
			t.Errorf("GeneratorName() = %q, want %q", got, tt.want)
		}
	}
}

func TestResolveEnvRef(t *testing.T) {
	t.Setenv("OTTOCODE_TEST_SECRET", "s3cret")
	tests := []struct {
		in, want string
	}{
		{"${OTTOCODE_TEST_SECRET}", "s3cret"},
		{"${OTTOCODE_TEST_UNSET_VAR}", ""},
		{"literal", "literal"},
		{"${incomplete", "${incomplete"},
	}
	for _, tt := range tests {
		if got := resolveEnvRef(tt.in); got != tt.want {
			t.Errorf("resolveEnvRef(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
