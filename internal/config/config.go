package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config - основная конфигурация приложения
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Gemini   GeminiConfig   `yaml:"gemini"`
	Export   ExportConfig   `yaml:"export"`
	Email    EmailConfig    `yaml:"email"`
}

// ServerConfig - настройки HTTP-сервера
type ServerConfig struct {
	Port string `yaml:"port"`
}

// DatabaseConfig - настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// GeminiConfig - настройки сервиса генерации заметок
type GeminiConfig struct {
	APIKey         string `yaml:"api_key"`
	Model          string `yaml:"model"`            // по умолчанию gemini-1.5-flash
	RequestsPerMin int    `yaml:"requests_per_min"` // лимит запросов к API
}

// ExportConfig - настройки выгрузок
type ExportConfig struct {
	FontsDir string `yaml:"fonts_dir"` // папка с TTF-шрифтами для PDF
}

// EmailConfig - настройки SMTP для отправки OTP-кодов и паспортов станций
type EmailConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	Username  string `yaml:"username"`
	Password  string `yaml:"password"`
	FromEmail string `yaml:"from_email"`
	FromName  string `yaml:"from_name"`
	UseTLS    bool   `yaml:"use_tls"`
}

// Load загружает конфигурацию из YAML-файла
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// Переопределение из переменных окружения
	if envPort := os.Getenv("PORT"); envPort != "" {
		cfg.Server.Port = envPort
	}
	if envDBHost := os.Getenv("DB_HOST"); envDBHost != "" {
		cfg.Database.Host = envDBHost
	}
	if envGeminiKey := os.Getenv("GEMINI_API_KEY"); envGeminiKey != "" {
		cfg.Gemini.APIKey = envGeminiKey
	}
	if envSMTPPassword := os.Getenv("SMTP_PASSWORD"); envSMTPPassword != "" {
		cfg.Email.Password = envSMTPPassword
	}

	return &cfg, nil
}
