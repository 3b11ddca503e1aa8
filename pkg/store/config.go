package store

import (
	"log"
	"os"
	"path/filepath"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Backend selects which Storage implementation Load builds.
type Backend string

const (
	BackendLocal  Backend = "local"
	BackendRemote Backend = "remote"
)

type Config interface {
	Backend() Backend
	BasePath() string
	BaseURL() string
	APIKey() string
}

// LoadConfig reads .pages.yaml (cwd or PAGES_CONFIG_PATH) with PAGES_* env
// overrides.
func LoadConfig() (Config, error) {
	viper.SetDefault("backend", string(BackendLocal))
	viper.SetDefault("path", "~/.pages/journal.db")
	viper.SetDefault("url", "")
	viper.SetDefault("key", "")
	viper.SetConfigName(".pages") // .yaml is implicit
	viper.SetEnvPrefix("PAGES")
	viper.AutomaticEnv()

	if override := os.Getenv("PAGES_CONFIG_PATH"); override != "" {
		viper.AddConfigPath(override)
	}

	viper.AddConfigPath("./")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Fatalf("error reading config file: %v", err)
			return nil, err
		}
	}

	return &fileConfig{
		Mode: Backend(viper.GetString("backend")),
		Path: viper.GetString("path"),
		URL:  viper.GetString("url"),
		Key:  viper.GetString("key"),
	}, nil
}

type fileConfig struct {
	Mode Backend `json:"backend"`
	Path string  `json:"path"`
	URL  string  `json:"url"`
	Key  string  `json:"key"`
}

func (f *fileConfig) Backend() Backend {
	if f.Mode == BackendRemote {
		return BackendRemote
	}
	return BackendLocal
}

func (f *fileConfig) BasePath() string {
	expanded, err := homedir.Expand(f.Path)
	if err != nil {
		return f.Path
	}
	return filepath.Clean(expanded)
}

func (f *fileConfig) BaseURL() string { return f.URL }
func (f *fileConfig) APIKey() string  { return f.Key }
