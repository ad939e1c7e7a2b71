package config

import "github.com/spf13/viper"

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Text-generation service defaults
	v.SetDefault("openai.model", "gpt-4o-mini") // Cost-effective default
	v.SetDefault("openai.temperature", 0.6)
	v.SetDefault("openai.max_retries", 3)
	v.SetDefault("openai.retry_backoff_ms", 1500)
	v.SetDefault("openai.requests_per_minute", 0)

	// Synthesis defaults
	v.SetDefault("synth.chunk_size", 250)
	v.SetDefault("synth.output_dir", "output")

	// Header export defaults (HAPI FHIR JPA schema)
	v.SetDefault("export.host", "localhost")
	v.SetDefault("export.port", 5432)
	v.SetDefault("export.database", "hapi")
	v.SetDefault("export.user", "hapi")
	v.SetDefault("export.password", "hapi")
	v.SetDefault("export.sslmode", "disable")
	v.SetDefault("export.output_file", "input/QuestionnaireResponse-Header.csv")
}

// BindSensitiveEnvVars explicitly binds credentials to the environment
// variable names the surrounding tooling already uses.
func BindSensitiveEnvVars(v *viper.Viper) {
	v.BindEnv("openai.api_key", "OPENAI_API_KEY", "QRFORGE_OPENAI_API_KEY")
	v.BindEnv("openai.model", "LLM_MODEL")
	v.BindEnv("openai.temperature", "LLM_TEMPERATURE")
	v.BindEnv("openai.max_retries", "LLM_MAX_RETRIES")

	v.BindEnv("export.host", "DB_HOST")
	v.BindEnv("export.port", "DB_PORT")
	v.BindEnv("export.database", "DB_NAME")
	v.BindEnv("export.user", "DB_USER")
	v.BindEnv("export.password", "DB_PASS")
}
