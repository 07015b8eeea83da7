package settings

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"dario.cat/mergo"
	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// Loader assembles Settings from defaults, environment variables and
// explicit overrides (CLI flags), in that precedence order.
type Loader struct {
	koanf     *koanf.Koanf
	validator *validator.Validate
}

// NewLoader creates a settings loader with validation support.
func NewLoader() *Loader {
	return &Loader{
		koanf:     koanf.New("."),
		validator: validator.New(),
	}
}

// Load builds and validates the settings. overrides may be nil; non-zero
// fields in it win over both defaults and environment.
func (l *Loader) Load(_ context.Context, overrides *Settings) (*Settings, error) {
	if err := l.koanf.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load default settings: %w", err)
	}

	envToPath := envMappings()
	if err := l.koanf.Load(env.Provider(".", env.Opt{
		TransformFunc: func(key, value string) (string, any) {
			if path, ok := envToPath[key]; ok {
				return path, value
			}
			// Everything outside the settings inventory is ignored here;
			// the layer loader owns the document-mapped variables.
			return "", nil
		},
	}), nil); err != nil {
		return nil, fmt.Errorf("load settings from environment: %w", err)
	}

	cfg := &Settings{}
	if err := l.koanf.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           cfg,
			TagName:          "koanf",
		},
	}); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if overrides != nil {
		if err := mergo.Merge(cfg, overrides, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("apply settings overrides: %w", err)
		}
	}

	if err := l.validator.Struct(cfg); err != nil {
		return nil, fmt.Errorf("settings validation failed: %w", err)
	}
	return cfg, nil
}

var (
	cachedMappings map[string]string
	mappingsOnce   sync.Once
)

// envMappings derives the env-var to koanf-path table from the Settings
// struct tags, so the inventory cannot drift from the struct.
func envMappings() map[string]string {
	mappingsOnce.Do(func() {
		cachedMappings = make(map[string]string)
		t := reflect.TypeOf(Settings{})
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			envTag := field.Tag.Get("env")
			koanfTag := field.Tag.Get("koanf")
			if envTag == "" || envTag == "-" || koanfTag == "" {
				continue
			}
			cachedMappings[envTag] = koanfTag
		}
	})
	return cachedMappings
}
