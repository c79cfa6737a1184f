package config

import (
	"errors"
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Database struct {
		URL string `mapstructure:"url"`
	} `mapstructure:"database"`
	Server struct {
		Port string `mapstructure:"port"`
	} `mapstructure:"server"`
	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
	App struct {
		Name             string `mapstructure:"name"`
		AssistDailyLimit int    `mapstructure:"assist_daily_limit"`
		InsightHistory   int    `mapstructure:"insight_history"`
		TrendWindowDays  int    `mapstructure:"trend_window_days"`
	} `mapstructure:"app"`
	JWT struct {
		SecretKey      string        `mapstructure:"secret_key"`
		AccessTokenTTL time.Duration `mapstructure:"access_token_ttl"`
	} `mapstructure:"jwt"`
	Auth struct {
		CodeTTL time.Duration `mapstructure:"code_ttl"`
	} `mapstructure:"auth"`
	LLM struct {
		APIKey         string   `mapstructure:"api_key"`
		BaseURL        string   `mapstructure:"base_url"`
		PrimaryModel   string   `mapstructure:"primary_model"`
		FallbackModels []string `mapstructure:"fallback_models"`
		TimeoutSec     int      `mapstructure:"timeout_seconds"`
	} `mapstructure:"llm"`
	Mailer struct {
		Type string `mapstructure:"type"` // "log", "smtp", "ses"
		From string `mapstructure:"from"`
	} `mapstructure:"mailer"`
	SMTP SMTPConfig `mapstructure:"smtp"`
	SES  SESConfig  `mapstructure:"ses"`
	CORS struct {
		AllowedOrigins   []string `mapstructure:"allowed_origins"`
		AllowedMethods   []string `mapstructure:"allowed_methods"`
		AllowedHeaders   []string `mapstructure:"allowed_headers"`
		ExposedHeaders   []string `mapstructure:"exposed_headers"`
		AllowCredentials bool     `mapstructure:"allow_credentials"`
		MaxAge           int      `mapstructure:"max_age"`
	} `mapstructure:"cors"`
}

type SMTPConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	From string `mapstructure:"from"`
}

type SESConfig struct {
	Region          string `mapstructure:"region"`
	From            string `mapstructure:"from"`
	AuthType        string `mapstructure:"auth_type"` // "iam_role" or "static_credentials"
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
}

var Cfg Config

// LoadConfig reads config.yaml from path and overlays environment
// variables. The database URL and LLM API key are required: missing
// values fail startup rather than degrading silently.
func LoadConfig(path string) error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(path)
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("APP")
	viper.AutomaticEnv()
	viper.BindEnv("database.url", "DATABASE_URL")
	viper.BindEnv("jwt.secret_key", "JWT_SECRET_KEY")
	viper.BindEnv("llm.api_key", "LLM_API_KEY")
	viper.BindEnv("llm.base_url", "LLM_BASE_URL")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("Warning: config file not found, relying on environment variables")
		} else {
			log.Printf("Error reading config file: %s\n", err)
			return err
		}
	}

	if err := viper.Unmarshal(&Cfg); err != nil {
		log.Printf("Error unmarshalling config: %s\n", err)
		return err
	}

	// Defaults.
	if Cfg.Server.Port == "" {
		Cfg.Server.Port = DefaultServerPort
	}
	if Cfg.App.Name == "" {
		Cfg.App.Name = AppName
	}
	if Cfg.App.AssistDailyLimit <= 0 {
		Cfg.App.AssistDailyLimit = DefaultAssistDailyLimit
	}
	if Cfg.App.InsightHistory <= 0 {
		Cfg.App.InsightHistory = DefaultInsightHistory
	}
	if Cfg.App.TrendWindowDays <= 0 {
		Cfg.App.TrendWindowDays = DefaultTrendWindowDays
	}
	if Cfg.JWT.AccessTokenTTL <= 0 {
		Cfg.JWT.AccessTokenTTL = DefaultAccessTokenTTL
	}
	if Cfg.Auth.CodeTTL <= 0 {
		Cfg.Auth.CodeTTL = DefaultLoginCodeTTL
	}
	if Cfg.LLM.BaseURL == "" {
		Cfg.LLM.BaseURL = DefaultLLMBaseURL
	}
	if Cfg.LLM.PrimaryModel == "" {
		Cfg.LLM.PrimaryModel = DefaultPrimaryModel
	}
	if len(Cfg.LLM.FallbackModels) == 0 {
		Cfg.LLM.FallbackModels = []string{DefaultFallbackModel1, DefaultFallbackModel2}
	}
	if Cfg.LLM.TimeoutSec <= 0 {
		Cfg.LLM.TimeoutSec = DefaultLLMTimeoutSec
	}
	if Cfg.Mailer.Type == "" {
		Cfg.Mailer.Type = "log"
	}

	// Required values.
	if Cfg.Database.URL == "" {
		return errors.New("config: database.url is required (DATABASE_URL)")
	}
	if Cfg.JWT.SecretKey == "" {
		return errors.New("config: jwt.secret_key is required (JWT_SECRET_KEY)")
	}
	if Cfg.LLM.APIKey == "" {
		return errors.New("config: llm.api_key is required (LLM_API_KEY)")
	}

	log.Println("Config loaded successfully")
	return nil
}
