package config

import (
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Load reads the optional yaml config at path (empty path or a missing file
// falls back to environment variables only).
func Load(path string) (*AppConfig, error) {
	var cfg AppConfig
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := cleanenv.ReadConfig(path, &cfg); err != nil {
				return nil, err
			}
			return &cfg, nil
		}
	}
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
