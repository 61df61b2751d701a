package config

import (
	"time"

	"github.com/spf13/viper"

	pkgconfig "github.com/serenechat/serenechat/pkg/config"
)

type Config struct {
	Server    ServerConfig
	WebSocket WebSocketConfig `mapstructure:"websocket"`
	Chat      ChatConfig
	AI        AIConfig `mapstructure:"ai"`
	Log       LogConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type WebSocketConfig struct {
	PingInterval   time.Duration `mapstructure:"ping_interval"`
	PongWait       time.Duration `mapstructure:"pong_wait"`
	WriteWait      time.Duration `mapstructure:"write_wait"`
	MaxMessageSize int64         `mapstructure:"max_message_size"`
}

type ChatConfig struct {
	DefaultRoom      string        `mapstructure:"default_room"`
	HistoryCapacity  int           `mapstructure:"history_capacity"`
	ContextWindow    int           `mapstructure:"context_window"`
	ReplayWindow     int           `mapstructure:"replay_window"`
	PresenceDebounce time.Duration `mapstructure:"presence_debounce"`
	RosterEnabled    bool          `mapstructure:"roster_enabled"`
}

type AIConfig struct {
	BaseURL       string        `mapstructure:"base_url"`
	APIToken      string        `mapstructure:"api_token"`
	Model         string        `mapstructure:"model"`
	Timeout       time.Duration `mapstructure:"timeout"`
	Structured    bool          `mapstructure:"structured"`
	RequestFormat string        `mapstructure:"request_format"` // "prompt" or "input"
}

type LogConfig struct {
	Level  string
	Pretty bool
}

func Load() (*Config, error) {
	v, err := pkgconfig.Load("./config", "config")
	if err != nil {
		return nil, err
	}

	// Set defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8090)
	v.SetDefault("websocket.ping_interval", "30s")
	v.SetDefault("websocket.pong_wait", "60s")
	v.SetDefault("websocket.write_wait", "10s")
	v.SetDefault("websocket.max_message_size", 4096)
	v.SetDefault("chat.default_room", "lobby")
	v.SetDefault("chat.history_capacity", 100)
	v.SetDefault("chat.context_window", 10)
	v.SetDefault("chat.replay_window", 50)
	v.SetDefault("chat.presence_debounce", "100ms")
	v.SetDefault("chat.roster_enabled", true)
	v.SetDefault("ai.base_url", "https://api.cloudflare.com/client/v4/accounts/default/ai")
	v.SetDefault("ai.api_token", "")
	v.SetDefault("ai.model", "@cf/meta/llama-3.1-8b-instruct")
	v.SetDefault("ai.timeout", "10s")
	v.SetDefault("ai.structured", false)
	v.SetDefault("ai.request_format", "prompt")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	// Override from environment
	v.BindEnv("server.port", "PORT")
	v.BindEnv("chat.default_room", "CHAT_DEFAULT_ROOM")
	v.BindEnv("ai.base_url", "AI_BASE_URL")
	v.BindEnv("ai.api_token", "AI_API_TOKEN")
	v.BindEnv("ai.model", "AI_MODEL")
	v.BindEnv("ai.structured", "AI_STRUCTURED")
	v.BindEnv("log.level", "LOG_LEVEL")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Parse durations
	cfg.WebSocket.PingInterval = parseDuration(v, "websocket.ping_interval", 30*time.Second)
	cfg.WebSocket.PongWait = parseDuration(v, "websocket.pong_wait", 60*time.Second)
	cfg.WebSocket.WriteWait = parseDuration(v, "websocket.write_wait", 10*time.Second)
	cfg.Chat.PresenceDebounce = parseDuration(v, "chat.presence_debounce", 100*time.Millisecond)
	cfg.AI.Timeout = parseDuration(v, "ai.timeout", 10*time.Second)

	return &cfg, nil
}

func parseDuration(v *viper.Viper, key string, defaultVal time.Duration) time.Duration {
	str := v.GetString(key)
	d, err := time.ParseDuration(str)
	if err != nil {
		return defaultVal
	}
	return d
}
