package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	ModelSettings struct {
		AdviceModel string  `yaml:"advice_model"`
		TitleModel  string  `yaml:"title_model"`
		Temperature float64 `yaml:"temperature"`
	} `yaml:"model_settings"`
	Playback struct {
		DefaultAnimationSpeed int `yaml:"default_animation_speed"`
	} `yaml:"playback"`
}

func LoadConfig(path string) (*Config, error) {
	config := &Config{}

	_, err := os.Stat(path)
	if os.IsNotExist(err) {
		// Set default values
		config.Server.Addr = ":8080"
		config.ModelSettings.AdviceModel = "gpt-4"
		config.ModelSettings.TitleModel = "gpt-5-mini-2025-08-07"
		config.ModelSettings.Temperature = 1
		config.Playback.DefaultAnimationSpeed = 50
		return config, nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	err = yaml.Unmarshal(file, config)
	if err != nil {
		return nil, err
	}

	return config, nil
}
