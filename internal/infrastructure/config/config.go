package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 應用配置
type Config struct {
	App         AppConfig       `mapstructure:"app"`
	Server      ServerConfig    `mapstructure:"server"`
	Gemini      GeminiConfig    `mapstructure:"gemini"`
	Places      PlacesConfig    `mapstructure:"places"`
	Maps        MapsConfig      `mapstructure:"maps"`
	RateLimit   RateLimitConfig `mapstructure:"rate_limit"`
	DedupWindow time.Duration   `mapstructure:"dedup_window"`
	LogLevel    string          `mapstructure:"log_level"`
}

// AppConfig 應用程式設定
type AppConfig struct {
	Env      string `mapstructure:"env"`
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
	Version  string `mapstructure:"version"`
	Name     string `mapstructure:"name"`
}

// ServerConfig 服務器配置
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// GeminiConfig 生成服務配置
type GeminiConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Temperature float64       `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// PlacesConfig 地點搜尋服務配置
type PlacesConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// MapsConfig 前端地圖金鑰配置（僅回傳給 UI，不參與核心邏輯）
type MapsConfig struct {
	ClientKey string `mapstructure:"client_key"`
}

// RateLimitConfig 速率限制配置
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// LoadConfig 載入設定
func LoadConfig() (*Config, error) {
	// 加載 .env 文件（允許不存在）
	_ = godotenv.Load()

	// 設定預設值
	setDefaults()

	// 設定環境變數前綴
	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// 綁定環境變量
	viper.BindEnv("gemini.api_key", "GEMINI_API_KEY")
	viper.BindEnv("gemini.model", "GEMINI_MODEL")
	viper.BindEnv("gemini.max_tokens", "GEMINI_MAX_TOKENS")
	viper.BindEnv("places.api_key", "GOOGLE_PLACES_API_KEY")
	viper.BindEnv("maps.client_key", "GOOGLE_MAPS_CLIENT_KEY")
	viper.BindEnv("rate_limit.enabled", "RATE_LIMIT_ENABLED")
	viper.BindEnv("rate_limit.requests", "RATE_LIMIT_REQUESTS")
	viper.BindEnv("rate_limit.window", "RATE_LIMIT_WINDOW")
	viper.BindEnv("dedup_window", "DEDUP_WINDOW")
	viper.BindEnv("log_level", "LOG_LEVEL")

	// 設定設定檔名稱和路徑
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	// 讀取設定檔
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// 添加調試日誌（logger 尚未初始化，改用 fmt.Println）
	fmt.Println("Loading configuration",
		"gemini_api_key:", maskAPIKey(viper.GetString("gemini.api_key")),
		"places_api_key:", maskAPIKey(viper.GetString("places.api_key")),
		"gemini_model:", viper.GetString("gemini.model"))

	// 解析設定
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 驗證必要設定
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// maskAPIKey 遮罩 API Key，只顯示前後各 4 個字符
func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// setDefaults 設定預設值
func setDefaults() {
	// 應用程式設定
	viper.SetDefault("app.env", "development")
	viper.SetDefault("app.debug", true)
	viper.SetDefault("app.log_level", "info")
	viper.SetDefault("app.version", "1.0.0")
	viper.SetDefault("app.name", "dish-finder")

	// 伺服器設定
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", "30s")
	// 寫入超時必須涵蓋整條管線的 120 秒請求上限
	viper.SetDefault("server.write_timeout", "150s")
	viper.SetDefault("server.idle_timeout", "120s")

	// 生成服務設定
	viper.SetDefault("gemini.model", "gemini-1.5-flash")
	viper.SetDefault("gemini.max_tokens", 2048)
	viper.SetDefault("gemini.temperature", 0.7)
	viper.SetDefault("gemini.timeout", "60s")

	// 地點搜尋服務設定
	viper.SetDefault("places.timeout", "15s")

	// 限流設定
	viper.SetDefault("rate_limit.enabled", true)
	viper.SetDefault("rate_limit.requests", 100)
	viper.SetDefault("rate_limit.window", "1m")

	// 去重窗口預設
	viper.SetDefault("dedup_window", "1s")
}

// validateConfig 驗證設定
func validateConfig(config *Config) error {
	// 驗證伺服器設定
	if config.Server.Port == 0 {
		return fmt.Errorf("server port is required")
	}

	// 驗證生成服務設定
	if config.Gemini.Model == "" {
		return fmt.Errorf("gemini model is required")
	}
	if config.Gemini.MaxTokens <= 0 {
		return fmt.Errorf("invalid gemini max tokens")
	}

	// 驗證限流設定
	if config.RateLimit.Enabled {
		if config.RateLimit.Requests <= 0 {
			return fmt.Errorf("invalid rate limit requests")
		}
		if config.RateLimit.Window <= 0 {
			return fmt.Errorf("invalid rate limit window")
		}
	}

	return nil
}
