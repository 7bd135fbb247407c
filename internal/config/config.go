package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// LLM modes.
const (
	ModeFallback = "fallback"
	ModeMerge    = "merge"
)

// Config holds all application configuration.
type Config struct {
	LLM       LLMConfig
	Pipeline  PipelineConfig
	Extractor ExtractorConfig
	S3        S3Config
	Log       LogConfig
}

// ProviderConfig holds settings for a single LLM backend provider.
type ProviderConfig struct {
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
	BaseURL      string `mapstructure:"base_url"`
	Project      string `mapstructure:"project"`
	Location     string `mapstructure:"location"`
}

// LLMConfig holds backend settings with up to three providers.
type LLMConfig struct {
	Mode      string         `mapstructure:"mode"`
	Primary   ProviderConfig `mapstructure:"primary"`
	Secondary ProviderConfig `mapstructure:"secondary"`
	Tertiary  ProviderConfig `mapstructure:"tertiary"`
}

// SecondaryConfig returns the secondary provider config, or nil if not configured.
func (l *LLMConfig) SecondaryConfig() *ProviderConfig {
	if l.Secondary.Provider != "" {
		return &l.Secondary
	}
	return nil
}

// TertiaryConfig returns the tertiary provider config, or nil if not configured.
func (l *LLMConfig) TertiaryConfig() *ProviderConfig {
	if l.Tertiary.Provider != "" {
		return &l.Tertiary
	}
	return nil
}

// Providers returns the configured providers in priority order.
func (l *LLMConfig) Providers() []*ProviderConfig {
	out := []*ProviderConfig{&l.Primary}
	if s := l.SecondaryConfig(); s != nil {
		out = append(out, s)
	}
	if t := l.TertiaryConfig(); t != nil {
		out = append(out, t)
	}
	return out
}

// PipelineConfig holds claim pipeline settings.
type PipelineConfig struct {
	// MaxConcurrency caps concurrently processed documents per claim. 0 means no cap.
	MaxConcurrency        int `mapstructure:"max_concurrency"`
	ClassifierPrefixChars int `mapstructure:"classifier_prefix_chars"`
}

// ExtractorConfig holds text extraction settings.
type ExtractorConfig struct {
	MaxFileSizeMB int64 `mapstructure:"max_file_size_mb"`
}

// MaxFileSizeBytes returns the size limit in bytes.
func (e ExtractorConfig) MaxFileSizeBytes() int64 {
	return e.MaxFileSizeMB * 1024 * 1024
}

// S3Config holds AWS S3 settings for reading claim documents.
type S3Config struct {
	Region    string `mapstructure:"region"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level       string   `mapstructure:"level"`
	Encoding    string   `mapstructure:"encoding"`
	OutputPaths []string `mapstructure:"output_paths"`
	MaxSizeMB   int      `mapstructure:"max_size_mb"`
	MaxBackups  int      `mapstructure:"max_backups"`
	MaxAgeDays  int      `mapstructure:"max_age_days"`
	Compress    bool     `mapstructure:"compress"`
}

// Validate rejects configurations the pipeline cannot run with.
func (c *Config) Validate() error {
	switch c.LLM.Mode {
	case ModeFallback:
	case ModeMerge:
		if c.LLM.SecondaryConfig() == nil {
			return fmt.Errorf("llm mode %q requires a secondary provider", ModeMerge)
		}
	default:
		return fmt.Errorf("unknown llm mode %q", c.LLM.Mode)
	}
	if c.LLM.Primary.Provider == "" {
		return fmt.Errorf("llm.primary.provider is required")
	}
	if c.Pipeline.MaxConcurrency < 0 {
		return fmt.Errorf("pipeline.max_concurrency must not be negative")
	}
	if c.Pipeline.ClassifierPrefixChars <= 0 {
		return fmt.Errorf("pipeline.classifier_prefix_chars must be positive")
	}
	return nil
}

// Load reads configuration from environment variables with the MEDCLAIM_ prefix.
// A .env file in the working directory is loaded first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("MEDCLAIM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// LLM defaults
	v.SetDefault("llm.mode", ModeFallback)
	v.SetDefault("llm.primary.provider", "gemini")
	v.SetDefault("llm.primary.api_key", "")
	v.SetDefault("llm.primary.default_model", "gemini-2.0-flash")
	v.SetDefault("llm.primary.timeout_secs", 120)
	v.SetDefault("llm.primary.base_url", "")
	v.SetDefault("llm.primary.project", "")
	v.SetDefault("llm.primary.location", "us-central1")
	for _, tier := range []string{"secondary", "tertiary"} {
		v.SetDefault("llm."+tier+".provider", "")
		v.SetDefault("llm."+tier+".api_key", "")
		v.SetDefault("llm."+tier+".default_model", "")
		v.SetDefault("llm."+tier+".timeout_secs", 120)
		v.SetDefault("llm."+tier+".base_url", "")
		v.SetDefault("llm."+tier+".project", "")
		v.SetDefault("llm."+tier+".location", "us-central1")
	}

	// Pipeline defaults
	v.SetDefault("pipeline.max_concurrency", 0)
	v.SetDefault("pipeline.classifier_prefix_chars", 500)

	// Extractor defaults
	v.SetDefault("extractor.max_file_size_mb", 50)

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.access_key", "")
	v.SetDefault("s3.secret_key", "")

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("log.output_paths", "stderr")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 7)
	v.SetDefault("log.compress", true)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"llm.mode":                         "MEDCLAIM_LLM_MODE",
		"pipeline.max_concurrency":         "MEDCLAIM_PIPELINE_MAX_CONCURRENCY",
		"pipeline.classifier_prefix_chars": "MEDCLAIM_PIPELINE_CLASSIFIER_PREFIX_CHARS",
		"extractor.max_file_size_mb":       "MEDCLAIM_EXTRACTOR_MAX_FILE_SIZE_MB",
		"s3.region":                        "MEDCLAIM_S3_REGION",
		"s3.endpoint":                      "MEDCLAIM_S3_ENDPOINT",
		"s3.access_key":                    "MEDCLAIM_S3_ACCESS_KEY",
		"s3.secret_key":                    "MEDCLAIM_S3_SECRET_KEY",
		"log.level":                        "MEDCLAIM_LOG_LEVEL",
		"log.encoding":                     "MEDCLAIM_LOG_ENCODING",
		"log.output_paths":                 "MEDCLAIM_LOG_OUTPUT_PATHS",
		"log.max_size_mb":                  "MEDCLAIM_LOG_MAX_SIZE_MB",
		"log.max_backups":                  "MEDCLAIM_LOG_MAX_BACKUPS",
		"log.max_age_days":                 "MEDCLAIM_LOG_MAX_AGE_DAYS",
		"log.compress":                     "MEDCLAIM_LOG_COMPRESS",
	}
	for _, tier := range []string{"primary", "secondary", "tertiary"} {
		for _, field := range []string{"provider", "api_key", "default_model", "timeout_secs", "base_url", "project", "location"} {
			key := "llm." + tier + "." + field
			envBindings[key] = "MEDCLAIM_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		}
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	cfg.LLM = LLMConfig{
		Mode:      strings.ToLower(v.GetString("llm.mode")),
		Primary:   providerConfig(v, "primary"),
		Secondary: providerConfig(v, "secondary"),
		Tertiary:  providerConfig(v, "tertiary"),
	}
	cfg.Pipeline = PipelineConfig{
		MaxConcurrency:        v.GetInt("pipeline.max_concurrency"),
		ClassifierPrefixChars: v.GetInt("pipeline.classifier_prefix_chars"),
	}
	cfg.Extractor = ExtractorConfig{
		MaxFileSizeMB: v.GetInt64("extractor.max_file_size_mb"),
	}
	cfg.S3 = S3Config{
		Region:    v.GetString("s3.region"),
		Endpoint:  v.GetString("s3.endpoint"),
		AccessKey: v.GetString("s3.access_key"),
		SecretKey: v.GetString("s3.secret_key"),
	}

	// Parse log output paths from comma-separated string
	var outputPaths []string
	for _, p := range strings.Split(v.GetString("log.output_paths"), ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			outputPaths = append(outputPaths, p)
		}
	}
	cfg.Log = LogConfig{
		Level:       v.GetString("log.level"),
		Encoding:    v.GetString("log.encoding"),
		OutputPaths: outputPaths,
		MaxSizeMB:   v.GetInt("log.max_size_mb"),
		MaxBackups:  v.GetInt("log.max_backups"),
		MaxAgeDays:  v.GetInt("log.max_age_days"),
		Compress:    v.GetBool("log.compress"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func providerConfig(v *viper.Viper, tier string) ProviderConfig {
	prefix := "llm." + tier + "."
	return ProviderConfig{
		Provider:     strings.ToLower(v.GetString(prefix + "provider")),
		APIKey:       v.GetString(prefix + "api_key"),
		DefaultModel: v.GetString(prefix + "default_model"),
		TimeoutSecs:  v.GetInt(prefix + "timeout_secs"),
		BaseURL:      v.GetString(prefix + "base_url"),
		Project:      v.GetString(prefix + "project"),
		Location:     v.GetString(prefix + "location"),
	}
}
