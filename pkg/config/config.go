package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix 是環境變數覆寫設定時使用的前綴，例如 CHATBOT_LLM_API_KEY
const EnvPrefix = "CHATBOT"

type Config struct {
	Server ServerConfig
	DB     DBConfig
	LLM    LLMConfig
	Agent  AgentConfig
	Chat   ChatConfig
	Log    LogConfig
	Auth   AuthConfig
}

type ServerConfig struct {
	Address         string
	Mode            string
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DBConfig struct {
	Driver   string // postgres 或 sqlite
	Path     string // sqlite 檔案路徑
	Host     string
	User     string
	Password string
	Name     string
	Port     int
	SSLMode  string `mapstructure:"sslmode"`
	TimeZone string `mapstructure:"timezone"`
}

type LLMConfig struct {
	APIKey      string `mapstructure:"api_key"`
	BaseURL     string `mapstructure:"base_url"`
	Model       string
	Temperature float64
	Timeout     time.Duration
}

type AgentConfig struct {
	Enabled      bool
	SystemPrompt string `mapstructure:"system_prompt"`
}

type ChatConfig struct {
	NumHistory    int    `mapstructure:"num_history"`
	SystemPrompt  string `mapstructure:"system_prompt"`
	GeneralPrompt string `mapstructure:"general_prompt"`
	Warmup        bool
	WarmupPrompt  string `mapstructure:"warmup_prompt"`
}

type LogConfig struct {
	Level  string
	Format string
}

// AuthConfig 為空時不啟用管理路由的 JWT 驗證
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

// Load 讀取 .env、config.yaml 與 CHATBOT_ 環境變數，並回傳合併後的設定
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	if path := os.Getenv(EnvPrefix + "_CONFIG"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./pkg/config")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", "0.0.0.0:5000")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.path", "chatbot.db")
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "")
	v.SetDefault("db.password", "")
	v.SetDefault("db.name", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "UTC")

	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.model", "gpt-4o-mini")
	v.SetDefault("llm.temperature", 0.2)
	v.SetDefault("llm.timeout", 60*time.Second)

	v.SetDefault("agent.enabled", true)
	v.SetDefault("agent.system_prompt",
		"Rewrite the user's message into a single standalone query that keeps every product name, number and constraint. Reply with the query only.")

	v.SetDefault("chat.num_history", 5)
	v.SetDefault("chat.system_prompt",
		"You are a helpful product assistant. Answer using the query and the conversation so far.")
	v.SetDefault("chat.general_prompt", "You are a friendly assistant.")
	v.SetDefault("chat.warmup", true)
	v.SetDefault("chat.warmup_prompt", "Xin chào, bạn có thể giới thiệu về sản phẩm không?")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("auth.jwt_secret", "")
}

// Validate 檢查設定值是否可用
func (c *Config) Validate() error {
	if c.Server.Address == "" {
		return errors.New("server.address is required")
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("unsupported server.mode %q", c.Server.Mode)
	}
	switch c.DB.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported db.driver %q", c.DB.Driver)
	}
	if c.Chat.NumHistory < 0 {
		return fmt.Errorf("chat.num_history must not be negative, got %d", c.Chat.NumHistory)
	}
	return nil
}
