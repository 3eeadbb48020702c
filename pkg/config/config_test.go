package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	// Provide a path that definitely doesn't exist
	config, err := LoadConfig("non_existent_config.yml")
	require.NoError(t, err)

	// Verify default values
	assert.Equal(t, ":8080", config.Server.Addr)
	assert.Equal(t, "gpt-4", config.ModelSettings.AdviceModel)
	assert.Equal(t, "gpt-5-mini-2025-08-07", config.ModelSettings.TitleModel)
	assert.Equal(t, 1.0, config.ModelSettings.Temperature)
	assert.Equal(t, 50, config.Playback.DefaultAnimationSpeed)
}

func TestLoadConfig_ValidFile(t *testing.T) {
	// Create a temporary config file
	content := []byte(`
server:
  addr: ":9090"
model_settings:
  advice_model: gpt-4o
  title_model: gpt-4o-mini
  temperature: 0.8
playback:
  default_animation_speed: 75
`)
	tmpfile, err := os.CreateTemp("", "config_test_*.yml")
	require.NoError(t, err)
	defer os.Remove(tmpfile.Name()) // clean up

	if _, err := tmpfile.Write(content); err != nil {
		tmpfile.Close()
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	// Load the config
	config, err := LoadConfig(tmpfile.Name())
	require.NoError(t, err)

	// Verify loaded values
	assert.Equal(t, ":9090", config.Server.Addr)
	assert.Equal(t, "gpt-4o", config.ModelSettings.AdviceModel)
	assert.Equal(t, "gpt-4o-mini", config.ModelSettings.TitleModel)
	assert.Equal(t, 0.8, config.ModelSettings.Temperature)
	assert.Equal(t, 75, config.Playback.DefaultAnimationSpeed)
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	// Create a temporary file with invalid YAML
	content := []byte(`
model_settings:
  temperature: "not a number"
  broken_yaml: [ unclosed bracket
`)
	tmpfile, err := os.CreateTemp("", "config_invalid_*.yml")
	require.NoError(t, err)
	defer os.Remove(tmpfile.Name())

	if _, err := tmpfile.Write(content); err != nil {
		tmpfile.Close()
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	// Attempt to load the config
	config, err := LoadConfig(tmpfile.Name())

	// Should return an error
	assert.Error(t, err)
	assert.Nil(t, config)
}
