package config

type Config struct {
	// General configuration
	Env string `yaml:"env" mapstructure:"env" validate:"required,oneof=dev staging prod"`
	Log Log    `yaml:"log" mapstructure:"log" validate:"required"`
	App App    `yaml:"app" mapstructure:"app" validate:"required"`

	// Infrastructure components
	Sqlite      Sqlite      `yaml:"sqlite" mapstructure:"sqlite" validate:"required"`
	Source      Source      `yaml:"source" mapstructure:"source" validate:"required"`
	Objectstore Objectstore `yaml:"objectstore" mapstructure:"objectstore" validate:"required"`
	Transfer    Transfer    `yaml:"transfer" mapstructure:"transfer" validate:"required"`
}

type App struct {
	Name      string `yaml:"name" mapstructure:"name" validate:"required"`
	Host      string `yaml:"host" mapstructure:"host"`
	Port      int    `yaml:"port" mapstructure:"port" validate:"required,gte=1,lte=65535"`
	JobBuffer int    `yaml:"jobBuffer" mapstructure:"jobBuffer" validate:"gte=0"`
}

type Log struct {
	Level     string `yaml:"level" mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format    string `yaml:"format" mapstructure:"format" validate:"oneof=json text"`
	AddSource bool   `yaml:"addSource" mapstructure:"addSource"`
}

type Sqlite struct {
	Path string `yaml:"path" mapstructure:"path" validate:"required"`
}

type Source struct {
	// TimeoutSeconds bounds one whole source fetch; 0 disables the bound so
	// very large objects can stream for as long as they need.
	TimeoutSeconds int64 `yaml:"timeoutSeconds" mapstructure:"timeoutSeconds" validate:"gte=0"`
}

type Objectstore struct {
	Type  string           `yaml:"type" mapstructure:"type" validate:"required,oneof=local storj"`
	Local LocalObjectstore `yaml:"local" mapstructure:"local"`
	Storj StorjObjectstore `yaml:"storj" mapstructure:"storj"`
}

type LocalObjectstore struct {
	Root string `yaml:"root" mapstructure:"root"`
}

type StorjObjectstore struct {
	AccessGrant string `yaml:"accessGrant" mapstructure:"accessGrant"`
	Bucket      string `yaml:"bucket" mapstructure:"bucket"`
	Prefix      string `yaml:"prefix" mapstructure:"prefix"`
}

type Transfer struct {
	StagingRoot string `yaml:"stagingRoot" mapstructure:"stagingRoot" validate:"required"`
	// HardCeilingMiB is the absolute object size limit; 0 disables it.
	HardCeilingMiB          int64 `yaml:"hardCeilingMiB" mapstructure:"hardCeilingMiB" validate:"gte=0"`
	ProgressIntervalSeconds int64 `yaml:"progressIntervalSeconds" mapstructure:"progressIntervalSeconds" validate:"gte=0"`
	RetryAttempts           int   `yaml:"retryAttempts" mapstructure:"retryAttempts" validate:"gte=0"`
	RetryBaseDelaySeconds   int64 `yaml:"retryBaseDelaySeconds" mapstructure:"retryBaseDelaySeconds" validate:"gte=0"`
}
