package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"

	"github.com/beanbocchi/portage/pkg/validator"
)

var (
	once sync.Once
	cfg  *Config
)

// GetConfig loads the configuration once and caches it. It reads config.yaml
// from the working directory (or ./config), then applies environment
// overrides of the form PORTAGE_SECTION_KEY.
func GetConfig() *Config {
	once.Do(func() {
		loaded, err := load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
		cfg = loaded
	})
	return cfg
}

func load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("portage")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine when everything comes from the environment.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validator.Validate(&c); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "dev")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("app.name", "portage")
	v.SetDefault("app.port", 8080)
	v.SetDefault("app.jobBuffer", 16)

	v.SetDefault("sqlite.path", "portage.db")
	v.SetDefault("source.timeoutSeconds", 0)

	v.SetDefault("objectstore.type", "local")
	v.SetDefault("objectstore.local.root", "./objects")

	v.SetDefault("transfer.stagingRoot", "./staging")
	v.SetDefault("transfer.hardCeilingMiB", 0)
	v.SetDefault("transfer.progressIntervalSeconds", 2)
	v.SetDefault("transfer.retryAttempts", 3)
	v.SetDefault("transfer.retryBaseDelaySeconds", 2)
}
