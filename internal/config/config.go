package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	AppEnv        string `yaml:"app_env"`
	HTTPAddr      string `yaml:"http_addr"`
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	DataDir       string `yaml:"data_dir"`
	SQLitePath    string `yaml:"sqlite_path"`

	SupabaseURL        string `yaml:"supabase_url"`
	SupabaseServiceKey string `yaml:"supabase_service_key"`
	SupabaseBucket     string `yaml:"supabase_bucket"`

	LLMProvider      string `yaml:"llm_provider"`
	GeminiAPIKey     string `yaml:"gemini_api_key"`
	DefaultLLMModel  string `yaml:"default_llm_model"`
	FallbackLLMModel string `yaml:"fallback_llm_model"`

	PexelsAPIKey string `yaml:"pexels_api_key"`

	TaskMaxRetries int `yaml:"task_max_retries"`
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getenvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func Load() Config {
	cfg := Config{
		AppEnv:        getenv("APP_ENV", "development"),
		HTTPAddr:      getenv("HTTP_ADDR", ":8082"),
		RedisAddr:     getenv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		DataDir:       getenv("DATA_DIR", "./data"),
		SQLitePath:    getenv("SQLITE_PATH", "./data/restyler.db"),

		SupabaseURL:        os.Getenv("SUPABASE_URL"),
		SupabaseServiceKey: os.Getenv("SUPABASE_SERVICE_ROLE_KEY"),
		SupabaseBucket:     getenv("SUPABASE_STORAGE_BUCKET", "previews"),

		LLMProvider:      getenv("LLM_PROVIDER", "gemini"),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		DefaultLLMModel:  getenv("DEFAULT_LLM_MODEL", "gemini-1.5-flash"),
		FallbackLLMModel: getenv("FALLBACK_LLM_MODEL", "gemini-1.5-pro"),

		PexelsAPIKey: os.Getenv("PEXELS_API_KEY"),

		TaskMaxRetries: getenvInt("TASK_MAX_RETRIES", 3),
	}

	// Optional YAML overlay for local development. File values replace
	// whatever the environment produced, field by field, empty fields skipped.
	if path := os.Getenv("RESTYLER_CONFIG"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			panic(fmt.Errorf("config file %s: %w", path, err))
		}
	}

	if cfg.RedisAddr == "" {
		panic(fmt.Errorf("REDIS_ADDR is required"))
	}
	return cfg
}

func (c *Config) applyFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var overlay Config
	if err := yaml.Unmarshal(b, &overlay); err != nil {
		return err
	}
	applyString(&c.AppEnv, overlay.AppEnv)
	applyString(&c.HTTPAddr, overlay.HTTPAddr)
	applyString(&c.RedisAddr, overlay.RedisAddr)
	applyString(&c.RedisPassword, overlay.RedisPassword)
	applyString(&c.DataDir, overlay.DataDir)
	applyString(&c.SQLitePath, overlay.SQLitePath)
	applyString(&c.SupabaseURL, overlay.SupabaseURL)
	applyString(&c.SupabaseServiceKey, overlay.SupabaseServiceKey)
	applyString(&c.SupabaseBucket, overlay.SupabaseBucket)
	applyString(&c.LLMProvider, overlay.LLMProvider)
	applyString(&c.GeminiAPIKey, overlay.GeminiAPIKey)
	applyString(&c.DefaultLLMModel, overlay.DefaultLLMModel)
	applyString(&c.FallbackLLMModel, overlay.FallbackLLMModel)
	applyString(&c.PexelsAPIKey, overlay.PexelsAPIKey)
	if overlay.TaskMaxRetries > 0 {
		c.TaskMaxRetries = overlay.TaskMaxRetries
	}
	return nil
}

func applyString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
