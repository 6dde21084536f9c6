package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/RozmiDan/driftrace/internal/entity"
)

// rawConfig — промежуточный тип, точно повторяет YAML
type rawConfig struct {
	Precision  int      `yaml:"precision"`
	Delay      string   `yaml:"delay"`
	ResetDelay string   `yaml:"resetDelay"`
	LogLevel   string   `yaml:"logLevel"`
	LogFile    string   `yaml:"logFile"`
	Names      rawNames `yaml:"names"`
}

type rawNames struct {
	A string `yaml:"a"`
	B string `yaml:"b"`
}

var allowedLevels = map[string]struct{}{
	"trace": {}, "debug": {}, "info": {}, "warn": {}, "error": {}, "disabled": {},
}

// Load читает YAML и конвертит строковые поля в типы.
// Нет файла или он пустой — берём значения по умолчанию.
func Load(path string) (entity.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return entity.DefaultConfig(), nil
		}
		return entity.Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (entity.Config, error) {
	def := entity.DefaultConfig()
	if len(strings.TrimSpace(string(data))) == 0 {
		return def, nil
	}

	raw := rawConfig{
		Precision:  def.Precision,
		Delay:      def.Delay.String(),
		ResetDelay: def.ResetDelay.String(),
		LogLevel:   def.LogLevel,
		Names:      rawNames{A: def.Names.A, B: def.Names.B},
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return entity.Config{}, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	delay, err := parseDelay("delay", raw.Delay)
	if err != nil {
		return entity.Config{}, err
	}
	resetDelay, err := parseDelay("resetDelay", raw.ResetDelay)
	if err != nil {
		return entity.Config{}, err
	}

	cfg := entity.Config{
		Precision:  raw.Precision,
		Delay:      delay,
		ResetDelay: resetDelay,
		LogLevel:   strings.ToLower(strings.TrimSpace(raw.LogLevel)),
		LogFile:    strings.TrimSpace(raw.LogFile),
		Names:      entity.Names{A: strings.TrimSpace(raw.Names.A), B: strings.TrimSpace(raw.Names.B)},
	}
	if err := Validate(cfg); err != nil {
		return entity.Config{}, err
	}
	return cfg, nil
}

func Validate(cfg entity.Config) error {
	if cfg.Precision != 2 && cfg.Precision != 3 {
		return fmt.Errorf("invalid precision %d: must be 2 or 3", cfg.Precision)
	}
	if _, ok := allowedLevels[cfg.LogLevel]; !ok {
		return fmt.Errorf("invalid logLevel %q", cfg.LogLevel)
	}
	if cfg.Names.A == "" || cfg.Names.B == "" {
		return fmt.Errorf("names.a and names.b must not be empty")
	}
	if cfg.Names.A == cfg.Names.B {
		return fmt.Errorf("names.a and names.b must differ, got %q", cfg.Names.A)
	}
	return nil
}

func parseDelay(key, s string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s %q: must not be negative", key, s)
	}
	return d, nil
}
