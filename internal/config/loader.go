// Package config loads the application's configuration from an embedded
// YAML document, a .env file, and environment variables, in that order of
// increasing precedence.
package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/sboussekeyt/spring-batch-rs/internal/logging"
)

// Load builds a Config from defaults, merges in embeddedYAML (if non-empty),
// loads envFilePath via godotenv (falling back to a bare .env lookup when
// envFilePath is empty), and finally applies any matching environment
// variable overrides. It is intended to be called once at startup.
func Load(envFilePath string, embeddedYAML []byte) (*Config, error) {
	if envFilePath != "" {
		if err := godotenv.Load(envFilePath); err != nil {
			logging.Warnf("env file %q not found or could not be loaded: %v", envFilePath, err)
		}
	} else if err := godotenv.Load(); err != nil {
		logging.Debugf(".env not found or could not be loaded: %v", err)
	}

	cfg := Default()

	if len(embeddedYAML) > 0 {
		var fileCfg Config
		if err := yaml.Unmarshal(embeddedYAML, &fileCfg); err != nil {
			return nil, fmt.Errorf("config: unmarshal embedded yaml: %w", err)
		}
		mergeConfig(cfg, &fileCfg)
	}

	if err := loadStructFromEnv(reflect.ValueOf(cfg).Elem(), ""); err != nil {
		return nil, fmt.Errorf("config: load from environment: %w", err)
	}

	logging.SetLevel(cfg.Logging.Level)
	return cfg, nil
}

// mergeConfig overwrites fields of dest with the corresponding non-zero
// fields of source, recursing into nested structs; zero-valued source fields
// leave dest unchanged.
func mergeConfig(dest, source *Config) {
	mergeStruct(reflect.ValueOf(dest).Elem(), reflect.ValueOf(*source))
}

func mergeStruct(dest, source reflect.Value) {
	for i := 0; i < dest.NumField(); i++ {
		df, sf := dest.Field(i), source.Field(i)
		switch df.Kind() {
		case reflect.Struct:
			mergeStruct(df, sf)
		case reflect.String:
			if sf.String() != "" {
				df.SetString(sf.String())
			}
		case reflect.Int, reflect.Int64:
			if sf.Int() != 0 {
				df.SetInt(sf.Int())
			}
		}
	}
}

// loadStructFromEnv overrides fields of val whose yaml tag, upper-cased and
// prefixed, matches a set environment variable. A nested struct field
// recurses with its tag appended to the prefix, e.g. "database.dsn" becomes
// env var "DATABASE_DSN".
func loadStructFromEnv(val reflect.Value, prefix string) error {
	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		field := val.Field(i)
		fieldType := typ.Field(i)
		yamlTag := fieldType.Tag.Get("yaml")
		if yamlTag == "" || yamlTag == "-" {
			continue
		}
		envVarName := strings.ToUpper(prefix + yamlTag)

		if field.Kind() == reflect.Struct {
			if err := loadStructFromEnv(field, envVarName+"_"); err != nil {
				return err
			}
			continue
		}

		envValue, exists := os.LookupEnv(envVarName)
		if !exists {
			continue
		}
		if err := setField(field, envValue); err != nil {
			return fmt.Errorf("set field %q from env var %q: %w", fieldType.Name, envVarName, err)
		}
	}
	return nil
}

func setField(field reflect.Value, raw string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(raw)
	case reflect.Int, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return err
		}
		field.SetInt(n)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}
		field.SetBool(b)
	default:
		return fmt.Errorf("unsupported field kind %s", field.Kind())
	}
	return nil
}
