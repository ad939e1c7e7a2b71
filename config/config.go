// Package config manages qrforge configuration: TOML files merged in
// precedence order (system < user < project < environment), with `.env`
// support for credentials so runs behave the same in CI and on
// workstations.
package config

// Config represents the full qrforge configuration
type Config struct {
	OpenAI OpenAIConfig `mapstructure:"openai"`
	Synth  SynthConfig  `mapstructure:"synth"`
	Export ExportConfig `mapstructure:"export"`
}

// OpenAIConfig configures the external text-generation service
type OpenAIConfig struct {
	APIKey            string  `mapstructure:"api_key"`
	BaseURL           string  `mapstructure:"base_url"` // empty = api.openai.com
	Model             string  `mapstructure:"model"`
	Temperature       float64 `mapstructure:"temperature"`
	MaxRetries        int     `mapstructure:"max_retries"`
	RetryBackoffMs    int     `mapstructure:"retry_backoff_ms"`
	RequestsPerMinute int     `mapstructure:"requests_per_minute"` // 0 = unlimited
}

// SynthConfig configures the synthesis pipeline
type SynthConfig struct {
	ChunkSize int    `mapstructure:"chunk_size"` // records per bundle file
	OutputDir string `mapstructure:"output_dir"`
}

// ExportConfig configures the header export database connection
type ExportConfig struct {
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port"`
	Database   string `mapstructure:"database"`
	User       string `mapstructure:"user"`
	Password   string `mapstructure:"password"`
	SSLMode    string `mapstructure:"sslmode"`
	OutputFile string `mapstructure:"output_file"`
}

// DefaultDirPermissions is the permission set for created directories
const DefaultDirPermissions = 0o755
