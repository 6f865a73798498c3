// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type ServerConfig struct {
	Host           string   `yaml:"host"`
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"` // empty means same-host only; "*" allows all
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type RoomConfig struct {
	Name          string        `yaml:"name"`
	HistorySize   int           `yaml:"history_size"`
	BotName       string        `yaml:"bot_name"`
	ChunkInterval time.Duration `yaml:"chunk_interval"` // pacing between AI chunks; 0 = no added delay
	Workers       int           `yaml:"workers"`        // background task pool size
}

type AIConfig struct {
	APIKey       string `yaml:"api_key"`  // OpenAI-compatible provider key (SiliconFlow, OpenAI, ...)
	BaseURL      string `yaml:"base_url"` // OpenAI-compatible endpoint
	Model        string `yaml:"model"`
	GeminiKey    string `yaml:"gemini_key"`
	GeminiURL    string `yaml:"gemini_url"`
	GeminiModel  string `yaml:"gemini_model"`
	SystemPrompt string `yaml:"system_prompt"`
}

type WeatherAPIConfig struct {
	WttrURL     string `yaml:"wttr_url"`
	QWeatherKey string `yaml:"qweather_key"`
	QWeatherURL string `yaml:"qweather_url"`
}

type NewsAPIConfig struct {
	Token string `yaml:"token"`
	URL   string `yaml:"url"`
}

type MusicAPIConfig struct {
	Token     string `yaml:"token"`
	SearchURL string `yaml:"search_url"`
	URLAPI    string `yaml:"url_api"`
}

type APIConfig struct {
	Weather WeatherAPIConfig `yaml:"weather"`
	News    NewsAPIConfig    `yaml:"news"`
	Music   MusicAPIConfig   `yaml:"music"`
}

type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret"`
	TTL       time.Duration `yaml:"ttl"`
	DBPath    string        `yaml:"db_path"`
}

// ServerEntry is one selectable endpoint on the login page.
type ServerEntry struct {
	Name string `yaml:"name" json:"name"`
	URL  string `yaml:"url" json:"url"`
}

type FeatureConfig struct {
	Weather *bool `yaml:"weather"`
	News    *bool `yaml:"news"`
	Music   *bool `yaml:"music"`
	AI      *bool `yaml:"ai"`
}

func (f FeatureConfig) enabled(v *bool) bool { return v == nil || *v }

func (f FeatureConfig) WeatherEnabled() bool { return f.enabled(f.Weather) }
func (f FeatureConfig) NewsEnabled() bool    { return f.enabled(f.News) }
func (f FeatureConfig) MusicEnabled() bool   { return f.enabled(f.Music) }
func (f FeatureConfig) AIEnabled() bool      { return f.enabled(f.AI) }

type Config struct {
	Server   ServerConfig  `yaml:"server"`
	Log      LogConfig     `yaml:"log"`
	Room     RoomConfig    `yaml:"room"`
	AI       AIConfig      `yaml:"ai"`
	APIs     APIConfig     `yaml:"apis"`
	Auth     AuthConfig    `yaml:"auth"`
	Servers  []ServerEntry `yaml:"servers"`
	Features FeatureConfig `yaml:"features"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// defaults
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 5000
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Room.Name == "" {
		cfg.Room.Name = "default_room"
	}
	if cfg.Room.HistorySize <= 0 {
		cfg.Room.HistorySize = 1000
	}
	if cfg.Room.BotName == "" {
		cfg.Room.BotName = "川小农"
	}
	if cfg.Room.Workers <= 0 {
		cfg.Room.Workers = 8
	}
	if cfg.AI.BaseURL == "" {
		cfg.AI.BaseURL = "https://api.siliconflow.cn/v1"
	}
	if cfg.AI.Model == "" {
		cfg.AI.Model = "Qwen/Qwen2.5-7B-Instruct"
	}
	if cfg.AI.GeminiModel == "" {
		cfg.AI.GeminiModel = "gemini-2.0-flash"
	}
	if cfg.AI.SystemPrompt == "" {
		cfg.AI.SystemPrompt = "你是川小农，四川农业大学的校园聊天助手。请用友好、简洁的中文回答问题。"
	}
	if cfg.APIs.Weather.WttrURL == "" {
		cfg.APIs.Weather.WttrURL = "https://wttr.in"
	}
	if cfg.APIs.Weather.QWeatherURL == "" {
		cfg.APIs.Weather.QWeatherURL = "https://devapi.qweather.com/v7"
	}
	if cfg.APIs.News.URL == "" {
		cfg.APIs.News.URL = "https://v2.alapi.cn/api/zaobao"
	}
	if cfg.APIs.Music.SearchURL == "" {
		cfg.APIs.Music.SearchURL = "https://v2.alapi.cn/api/music/search"
	}
	if cfg.APIs.Music.URLAPI == "" {
		cfg.APIs.Music.URLAPI = "https://v2.alapi.cn/api/music/url"
	}
	if cfg.Auth.TTL <= 0 {
		cfg.Auth.TTL = 24 * time.Hour
	}
	if cfg.Auth.DBPath == "" {
		cfg.Auth.DBPath = "db/users.db"
	}

	// Minimal validation
	if cfg.Auth.JWTSecret == "" && !dev {
		return nil, errors.New("auth.jwt_secret is required")
	}
	if cfg.Features.AIEnabled() && cfg.AI.APIKey == "" && cfg.AI.GeminiKey == "" && !dev {
		return nil, errors.New("ai enabled but no provider key: set ai.api_key or ai.gemini_key")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}
