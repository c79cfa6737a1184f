package config

import "time"

// Application identity.
const (
	AppName    = "FamCoach"
	AppVersion = "0.3.0"
)

// Default settings.
const (
	DefaultServerPort       = ":8080"
	DefaultLogLevel         = "info"
	DefaultAssistDailyLimit = 20
	DefaultInsightHistory   = 5
	DefaultTrendWindowDays  = 14
	DefaultAccessTokenTTL   = 24 * time.Hour
	DefaultLoginCodeTTL     = 10 * time.Minute
)

// Text-generation defaults. The fallback models are tried in order when
// the primary fails or returns empty output.
const (
	DefaultLLMBaseURL     = "https://api.openai.com"
	DefaultPrimaryModel   = "gpt-4o"
	DefaultFallbackModel1 = "gpt-4o-mini"
	DefaultFallbackModel2 = "gpt-3.5-turbo"
	DefaultLLMTimeoutSec  = 60
)
