package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

var configLogger = zerolog.Nop()

func SetLogger(l zerolog.Logger) {
	configLogger = l
}

// Config represents the complete settings file structure
type Config struct {
	EnvFile string        `yaml:"env_file" default:".env"`
	API     APIConfig     `yaml:"api"`
	App     AppConfig     `yaml:"app"`
	Journal JournalConfig `yaml:"journal"`
	Preview PreviewConfig `yaml:"preview"`
	Logging LoggingConfig `yaml:"logging"`
}

type APIConfig struct {
	Scheme             string `yaml:"scheme" default:"https"`
	TimeoutSeconds     int    `yaml:"timeout_seconds" default:"60"`
	InsecureSkipVerify bool   `yaml:"insecure_skip_verify" default:"false"`
}

// AppConfig is what gets registered with the instance on first run.
type AppConfig struct {
	Name    string `yaml:"name" default:"Amsterdam"`
	Website string `yaml:"website" default:""`
}

type JournalConfig struct {
	Enabled bool   `yaml:"enabled" default:"true"`
	Path    string `yaml:"path" default:".amsterdam.db"`
}

type PreviewConfig struct {
	Style     string `yaml:"style" default:"monokai"`
	Highlight bool   `yaml:"highlight" default:"true"`
}

type LoggingConfig struct {
	Level string `yaml:"level" default:"info"`
}

// LoadConfig reads the settings file at path on top of the defaults.
// A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	config := &Config{}

	// Apply default values first
	applyDefaults(config)

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf(ErrReadSettingsFmt, path, err)
		}
		configLogger.Debug().Str("path", path).Msg("Settings file not found, using defaults")
		return config, nil
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf(ErrParseSettingsFmt, path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) Validate() error {
	switch c.API.Scheme {
	case "http", "https":
	default:
		return fmt.Errorf(ErrInvalidSchemeFmt, c.API.Scheme)
	}
	if c.API.TimeoutSeconds < 0 {
		return fmt.Errorf(ErrInvalidTimeoutFmt, c.API.TimeoutSeconds)
	}
	if c.EnvFile == "" {
		return errors.New(ErrEmptyEnvFile)
	}
	if c.Journal.Enabled && c.Journal.Path == "" {
		return errors.New(ErrEmptyJournalPath)
	}
	return nil
}

func ApplyDefaults(config interface{}) {
	applyDefaults(config)
}

func applyDefaults(config interface{}) {
	v := reflect.ValueOf(config)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		return
	}

	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		if !field.IsValid() || !field.CanSet() {
			continue
		}

		// Recursively apply defaults to nested structs
		if field.Kind() == reflect.Struct {
			applyDefaults(field.Addr().Interface())
			continue
		}

		defaultValue := fieldType.Tag.Get("default")
		if defaultValue == "" {
			continue
		}

		switch field.Kind() {
		case reflect.String:
			field.SetString(defaultValue)
		case reflect.Bool:
			if val, err := strconv.ParseBool(defaultValue); err == nil {
				field.SetBool(val)
			}
		case reflect.Int:
			if val, err := strconv.ParseInt(defaultValue, 10, 64); err == nil {
				field.SetInt(val)
			}
		case reflect.Float64:
			if val, err := strconv.ParseFloat(defaultValue, 64); err == nil {
				field.SetFloat(val)
			}
		case reflect.Slice:
			if field.Len() == 0 && field.Type().Elem().Kind() == reflect.String {
				parts := strings.Split(defaultValue, ",")
				slice := reflect.MakeSlice(field.Type(), len(parts), len(parts))
				for j, part := range parts {
					slice.Index(j).SetString(strings.TrimSpace(part))
				}
				field.Set(slice)
			}
		default:
			configLogger.Warn().
				Str("field_name", fieldType.Name).
				Str("field_type", field.Kind().String()).
				Msg("Unsupported field type for default value")
		}
	}
}
