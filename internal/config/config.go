package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Whisper    WhisperConfig    `yaml:"whisper"`
	Audio      AudioConfig      `yaml:"audio"`
	Generator  GeneratorConfig  `yaml:"generator"`
	Credential CredentialConfig `yaml:"credential"`
	Export     ExportConfig     `yaml:"export"`
	Paths      PathsConfig      `yaml:"paths"`
	Logging    LoggingConfig    `yaml:"logging"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}

type WhisperConfig struct {
	Backend    string `yaml:"backend" validate:"oneof=whisper-cli openai"`
	ModelPath  string `yaml:"model_path"`
	BinaryPath string `yaml:"binary_path"`
	Language   string `yaml:"language"`
	Prompt     string `yaml:"prompt"`
	Threads    int    `yaml:"threads" validate:"gte=1"`

	// Remote backend only.
	APIKeyEnv string `yaml:"api_key_env"`
	BaseURL   string `yaml:"base_url"`
	Model     string `yaml:"model"`
}

type AudioConfig struct {
	MaxUploadMB     int           `yaml:"max_upload_mb" validate:"gte=1"`
	MaxDuration     time.Duration `yaml:"max_duration" validate:"gt=0"`
	ResampleQuality int           `yaml:"resample_quality" validate:"gte=1,lte=64"`
}

type GeneratorConfig struct {
	Provider    string        `yaml:"provider" validate:"oneof=replicate openai gemini"`
	Model       string        `yaml:"model" validate:"required"`
	BaseURL     string        `yaml:"base_url"`
	Temperature float64       `yaml:"temperature" validate:"gte=0.01,lte=5"`
	TopP        float64       `yaml:"top_p" validate:"gte=0.01,lte=1"`
	Timeout     time.Duration `yaml:"timeout"`
}

type CredentialConfig struct {
	Env    string `yaml:"env" validate:"required"`
	Prefix string `yaml:"prefix"`
	Length int    `yaml:"length" validate:"gte=0"`
}

type ExportConfig struct {
	PDFSubstitute bool     `yaml:"pdf_substitute"`
	Formats       []string `yaml:"formats" validate:"dive,oneof=txt pdf docx"`
}

type PathsConfig struct {
	Input  string `yaml:"input"`
	Output string `yaml:"output" validate:"required"`
	Temp   string `yaml:"temp"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
}

// Load reads the YAML file at path, fills defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Whisper.Backend == "" {
		c.Whisper.Backend = "whisper-cli"
	}
	if c.Whisper.Backend == "whisper-cli" {
		if c.Whisper.ModelPath == "" {
			return fmt.Errorf("whisper.model_path is required")
		}
		if c.Whisper.BinaryPath == "" {
			return fmt.Errorf("whisper.binary_path is required")
		}
	}
	if c.Whisper.Language == "" {
		c.Whisper.Language = "en"
	}
	if c.Whisper.Threads == 0 {
		c.Whisper.Threads = 4
	}
	if c.Whisper.APIKeyEnv == "" {
		c.Whisper.APIKeyEnv = "OPENAI_API_KEY"
	}
	if c.Whisper.Model == "" {
		c.Whisper.Model = "whisper-1"
	}

	if c.Audio.MaxUploadMB == 0 {
		c.Audio.MaxUploadMB = 200
	}
	if c.Audio.MaxDuration == 0 {
		c.Audio.MaxDuration = 3 * time.Hour
	}
	if c.Audio.ResampleQuality == 0 {
		c.Audio.ResampleQuality = 4
	}

	if c.Generator.Provider == "" {
		c.Generator.Provider = "replicate"
	}
	if c.Generator.Model == "" {
		c.Generator.Model = defaultModel(c.Generator.Provider)
	}
	if c.Generator.Temperature == 0 {
		c.Generator.Temperature = 0.3
	}
	if c.Generator.TopP == 0 {
		c.Generator.TopP = 0.9
	}
	if c.Generator.Timeout == 0 {
		c.Generator.Timeout = 10 * time.Minute
	}

	if c.Credential.Env == "" {
		c.Credential.Env = defaultCredentialEnv(c.Generator.Provider)
	}
	if c.Credential.Prefix == "" && c.Credential.Length == 0 && c.Generator.Provider == "replicate" {
		c.Credential.Prefix = "r8_"
		c.Credential.Length = 40
	}

	if len(c.Export.Formats) == 0 {
		c.Export.Formats = []string{"txt", "pdf"}
	}

	if c.Paths.Output == "" {
		c.Paths.Output = "data/output"
	}
	if c.Paths.Temp == "" {
		c.Paths.Temp = os.TempDir()
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}

	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%s", formatValidationErrors(err))
	}

	return nil
}

func defaultModel(provider string) string {
	switch provider {
	case "openai":
		return "gpt-4o-mini"
	case "gemini":
		return "gemini-2.5-flash"
	default:
		return "snowflake/snowflake-arctic-instruct"
	}
}

func defaultCredentialEnv(provider string) string {
	switch provider {
	case "openai":
		return "OPENAI_API_KEY"
	case "gemini":
		return "GEMINI_API_KEY"
	default:
		return "REPLICATE_API_TOKEN"
	}
}

func formatValidationErrors(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}

	msg := ""
	for i, fe := range verrs {
		if i > 0 {
			msg += "; "
		}
		msg += fmt.Sprintf("field '%s' failed on the '%s' tag", fe.Namespace(), fe.Tag())
		if fe.Param() != "" {
			msg += fmt.Sprintf(" (%s)", fe.Param())
		}
	}
	return msg
}
