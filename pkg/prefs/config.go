package prefs

import (
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Config describes where the preference record lives.
type Config interface {
	BasePath() string
}

// Settings is the resolved sidenav configuration.
type Settings struct {
	Path             string `json:"path"`
	LogLevel         string `json:"logLevel"`
	CollapseDuration int    `json:"collapseDurationMs"`
	ServerAddr       string `json:"serverAddr"`
	ServerURL        string `json:"serverURL"`
}

// BasePath implements Config.
func (s *Settings) BasePath() string {
	return s.Path
}

// PathConfig is a Config pointing at a fixed directory.
type PathConfig string

// BasePath implements Config.
func (p PathConfig) BasePath() string {
	return string(p)
}

// LoadConfig reads .sidenav.yaml and SIDENAV_* environment variables.
// A missing config file is not an error.
func LoadConfig() (*Settings, error) {
	v := viper.New()
	v.SetDefault("path", "~/.sidenav.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("collapse.duration_ms", 300)
	v.SetDefault("server.addr", ":8086")
	v.SetDefault("server.url", "")
	v.SetConfigName(".sidenav") // .yaml is implicit
	v.SetEnvPrefix("SIDENAV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if override := os.Getenv("SIDENAV_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("prefs: read config: %w", err)
		}
	}

	path, err := homedir.Expand(v.GetString("path"))
	if err != nil {
		return nil, fmt.Errorf("prefs: expand path: %w", err)
	}

	return &Settings{
		Path:             path,
		LogLevel:         v.GetString("log.level"),
		CollapseDuration: v.GetInt("collapse.duration_ms"),
		ServerAddr:       v.GetString("server.addr"),
		ServerURL:        v.GetString("server.url"),
	}, nil
}
