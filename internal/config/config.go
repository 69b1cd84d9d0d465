package config

// Config is the root application configuration: defaults are built in code,
// then overridden by an embedded YAML document, then overridden again by
// environment variables whose name is derived from the yaml tags (see
// loadStructFromEnv in loader.go).
type Config struct {
	Logging  LoggingConfig  `yaml:"logging"`
	Job      JobConfig      `yaml:"job"`
	Database DatabaseConfig `yaml:"database"`
	Storage  StorageConfig  `yaml:"storage"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

type JobConfig struct {
	Name           string `yaml:"name"`
	CommitInterval int    `yaml:"commit_interval"`
	SkipLimit      int    `yaml:"skip_limit"`
}

type DatabaseConfig struct {
	Type string `yaml:"type"`
	DSN  string `yaml:"dsn"`
}

type StorageConfig struct {
	Bucket        string `yaml:"bucket"`
	OutputBaseDir string `yaml:"output_base_dir"`
}

// Default returns the built-in configuration defaults, applied before any
// YAML document or environment variable override.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{Level: "info"},
		Job: JobConfig{
			Name:           "default-job",
			CommitInterval: 10,
			SkipLimit:      0,
		},
		Database: DatabaseConfig{Type: "sqlite"},
	}
}
