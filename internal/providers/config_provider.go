package providers

import (
	"fmt"
	"medilens/internal/structures"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const AppName = "MediLens"

func setConfigDefaults(v *viper.Viper) {
	v.SetDefault("persistence.key", "medilens_history")
	v.SetDefault("persistence.quota", 5<<20)
	v.SetDefault("cache.ttl", 30*time.Second)
	v.SetDefault("gateway.baseUrl", "https://generativelanguage.googleapis.com/v1beta/openai/")
	v.SetDefault("gateway.model", "gemini-2.5-flash")
	v.SetDefault("gateway.temperature", 0.4)
	v.SetDefault("gateway.timeout", 60*time.Second)
}

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	v := viper.New()
	filename := filepath.Base(flags.ConfigPath)
	v.AddConfigPath(filepath.Dir(flags.ConfigPath))
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	v.SetConfigType("yaml")
	setConfigDefaults(v)

	v.BindEnv("logger.level", "MEDILENS_LOG_LEVEL")
	v.BindEnv("cache.enabled", "MEDILENS_CACHE_ENABLED")
	v.BindEnv("persistence.quota", "MEDILENS_QUOTA")
	v.BindEnv("gateway.model", "MEDILENS_MODEL")
	v.BindEnv("gateway.apiKey", "MEDILENS_API_KEY", "API_KEY")

	err := v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = v.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = AppName
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
