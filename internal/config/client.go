package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	EnvDataDir   = "POMFLOW_DATA_DIR"
	EnvConfig    = "POMFLOW_CONFIG"
	EnvServerURL = "POMFLOW_SERVER_URL"

	clientConfigName = "config.toml"
)

// Alarm players selectable in config.toml.
const (
	AlarmPlayerBell    = "bell"
	AlarmPlayerCommand = "command"
	AlarmPlayerNone    = "none"
)

// Client is the pomflow config.toml.
type Client struct {
	Server        Server        `toml:"server"`
	Alarm         Alarm         `toml:"alarm"`
	Notifications Notifications `toml:"notifications"`

	// DataDir holds the state files, the config and the log. It is not read
	// from the file.
	DataDir string `toml:"-"`
}

type Server struct {
	// URL of the sync server. Signing in requires it.
	URL string `toml:"url"`
}

type Alarm struct {
	// Player is bell, command or none.
	Player string `toml:"player"`
	// Command and Args run an external player. Args may use {sound} and
	// {volume} placeholders.
	Command string   `toml:"command"`
	Args    []string `toml:"args"`
}

type Notifications struct {
	Enabled bool `toml:"enabled"`
	// Desktop adds OS popups next to the in-app banner.
	Desktop bool `toml:"desktop"`
}

func defaultClient() Client {
	return Client{
		Alarm:         Alarm{Player: AlarmPlayerBell},
		Notifications: Notifications{Enabled: true, Desktop: true},
	}
}

// LoadClient reads config.toml from the data directory, or from
// POMFLOW_CONFIG when set. A missing file yields the defaults.
func LoadClient() (*Client, error) {
	dataDir, err := DataDir()
	if err != nil {
		return nil, err
	}

	path := os.Getenv(EnvConfig)
	if path == "" {
		path = filepath.Join(dataDir, clientConfigName)
	}

	cfg, err := loadClientFile(path)
	if err != nil {
		return nil, err
	}
	cfg.DataDir = dataDir
	if url := os.Getenv(EnvServerURL); url != "" {
		cfg.Server.URL = url
	}
	cfg.Server.URL = strings.TrimRight(strings.TrimSpace(cfg.Server.URL), "/")
	return cfg, nil
}

// DataDir is POMFLOW_DATA_DIR, or pomflow under the user config directory.
func DataDir() (string, error) {
	if dir := os.Getenv(EnvDataDir); dir != "" {
		return dir, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("get config directory: %w", err)
	}
	return filepath.Join(base, "pomflow"), nil
}

func loadClientFile(path string) (*Client, error) {
	cfg := defaultClient()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}

	cfg.Alarm.Player = strings.ToLower(strings.TrimSpace(cfg.Alarm.Player))
	switch cfg.Alarm.Player {
	case "":
		cfg.Alarm.Player = AlarmPlayerBell
	case AlarmPlayerBell, AlarmPlayerNone:
	case AlarmPlayerCommand:
		if strings.TrimSpace(cfg.Alarm.Command) == "" {
			return nil, fmt.Errorf("config file %s: alarm.command is required for the command player", path)
		}
	default:
		return nil, fmt.Errorf("config file %s: unknown alarm.player %q", path, cfg.Alarm.Player)
	}
	return &cfg, nil
}
