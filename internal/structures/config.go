package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type Persistence struct {
	Dir   string `yaml:"dir" validate:"required|unixPath"`
	Key   string `yaml:"key" validate:"required"`
	Quota int64  `yaml:"quota"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Size    int           `yaml:"size"`
	TTL     time.Duration `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// GatewayConfig points the analysis gateway at an OpenAI-compatible endpoint.
// APIKey may be empty; the gateway then reports a configuration error per call.
type GatewayConfig struct {
	BaseURL     string        `yaml:"baseUrl" validate:"required"`
	Model       string        `yaml:"model" validate:"required"`
	Temperature float32       `yaml:"temperature"`
	Timeout     time.Duration `yaml:"timeout"`
	APIKey      string        `yaml:"apiKey"`
}

type CorsConfig struct {
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

type Config struct {
	AppName     string
	Debug       bool
	Path        string
	WebServer   Server        `yaml:"webServer"`
	Persistence Persistence   `yaml:"persistence"`
	Logger      LoggerConfig  `yaml:"logger"`
	Cache       CacheConfig   `yaml:"cache"`
	Metrics     MetricsConfig `yaml:"metrics"`
	Gateway     GatewayConfig `yaml:"gateway"`
	Cors        CorsConfig    `yaml:"cors"`
}
