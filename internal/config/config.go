// Package config provides configuration management for the loopback
// pipeline.
package config

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"hidloop/internal/input"
)

// Config represents the application configuration.
type Config struct {
	// Keys contains the reserved control-key bindings.
	Keys KeysConfig `json:"keys"`

	// Replay contains replay-loop tuning.
	Replay ReplayConfig `json:"replay"`

	// General contains general application settings.
	General GeneralConfig `json:"general"`
}

// KeysConfig holds the virtual-key codes of the reserved control keys.
// These keys are consumed by the capture hook and never forwarded.
type KeysConfig struct {
	// PauseToggle suspends and resumes capture (default F12).
	PauseToggle uint32 `json:"pause_toggle"`

	// ProfilingToggle switches the performance monitor (default F11).
	ProfilingToggle uint32 `json:"profiling_toggle"`

	// Exit terminates the program (default Esc).
	Exit uint32 `json:"exit"`
}

// ReplayConfig tunes the consumer loop.
type ReplayConfig struct {
	// IdlePollMs is the backoff slept when an iteration drained no
	// samples.
	IdlePollMs int `json:"idle_poll_ms"`
}

// GeneralConfig contains general application settings.
type GeneralConfig struct {
	// ShowTray enables the system tray control surface.
	ShowTray bool `json:"show_tray"`

	// ProfilingEnabled turns the performance monitor on at startup.
	ProfilingEnabled bool `json:"profiling_enabled"`
}

// DefaultConfig returns a new Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Keys: KeysConfig{
			PauseToggle:     input.VKF12,
			ProfilingToggle: input.VKF11,
			Exit:            input.VKEscape,
		},
		Replay: ReplayConfig{
			IdlePollMs: 1,
		},
		General: GeneralConfig{
			ShowTray:         true,
			ProfilingEnabled: false,
		},
	}
}

// Manager handles loading and saving configuration.
type Manager struct {
	mu         sync.Mutex
	configPath string
	config     *Config
}

// NewManager creates a new configuration manager.
func NewManager() (*Manager, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	return &Manager{
		configPath: configPath,
		config:     DefaultConfig(),
	}, nil
}

// getConfigPath returns the path to the configuration file.
func getConfigPath() (string, error) {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			appData = filepath.Join(home, "AppData", "Roaming")
		}
		configDir = filepath.Join(appData, "hidloop")
	default:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = filepath.Join(home, ".config", "hidloop")
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", err
	}

	return filepath.Join(configDir, "config.json"), nil
}

// Load reads the configuration from disk. A missing file is not an
// error; defaults stay in effect.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := os.ReadFile(m.configPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	return json.Unmarshal(data, m.config)
}

// Save writes the configuration to disk.
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := json.MarshalIndent(m.config, "", "  ")
	if err != nil {
		return err
	}

	log.Printf("Config: Saving configuration to %s (%d bytes)", m.configPath, len(data))
	return os.WriteFile(m.configPath, data, 0644)
}

// Get returns the current configuration.
func (m *Manager) Get() *Config {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.config
}

// Set updates the configuration.
func (m *Manager) Set(config *Config) {
	m.mu.Lock()
	m.config = config
	m.mu.Unlock()
}
