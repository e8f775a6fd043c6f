package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    string

	MongoDBURI  string
	MongoDBName string

	// JWTSecret signs session tokens. Required: there is intentionally no
	// compiled-in fallback key.
	JWTSecret string

	FrontendURL string
	BackendURL  string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string

	TwilioSID       string
	TwilioAuthToken string
	TwilioFrom      string

	GoogleClientID     string
	GoogleClientSecret string
	FacebookAppID      string
	FacebookAppSecret  string

	CloudinaryName   string
	CloudinaryKey    string
	CloudinarySecret string
}

func LoadConfig() (*Config, error) {
	smtpPort, _ := strconv.Atoi(getEnvWithDefault("SMTP_PORT", "587"))

	cfg := &Config{
		Port:        getEnvWithDefault("PORT", "8080"),
		Environment: getEnvWithDefault("ENVIRONMENT", "development"),
		LogLevel:    getEnvWithDefault("LOG_LEVEL", "info"),

		MongoDBURI:  os.Getenv("MONGODB_URI"),
		MongoDBName: getEnvWithDefault("MONGODB_NAME", "auth_system"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		FrontendURL: getEnvWithDefault("FRONTEND_URL", "http://localhost:3000"),
		BackendURL:  getEnvWithDefault("BACKEND_URL", "http://localhost:8080"),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     smtpPort,
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:     getEnvWithDefault("SMTP_FROM", os.Getenv("SMTP_USER")),

		TwilioSID:       os.Getenv("TWILIO_SID"),
		TwilioAuthToken: os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioFrom:      os.Getenv("TWILIO_PHONE_NUMBER"),

		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		FacebookAppID:      os.Getenv("FACEBOOK_APP_ID"),
		FacebookAppSecret:  os.Getenv("FACEBOOK_APP_SECRET"),

		CloudinaryName:   os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryKey:    os.Getenv("CLOUDINARY_API_KEY"),
		CloudinarySecret: os.Getenv("CLOUDINARY_API_SECRET"),
	}

	// Validate required fields
	if cfg.MongoDBURI == "" {
		return nil, fmt.Errorf("MONGODB_URI is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// Capability checks: optional providers are wired only when fully configured.

func (c *Config) HasSMTP() bool {
	return c.SMTPHost != "" && c.SMTPUser != "" && c.SMTPPassword != ""
}

func (c *Config) HasTwilio() bool {
	return c.TwilioSID != "" && c.TwilioAuthToken != "" && c.TwilioFrom != ""
}

func (c *Config) HasGoogle() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}

func (c *Config) HasFacebook() bool {
	return c.FacebookAppID != "" && c.FacebookAppSecret != ""
}

func (c *Config) HasCloudinary() bool {
	return c.CloudinaryName != "" && c.CloudinaryKey != "" && c.CloudinarySecret != ""
}
