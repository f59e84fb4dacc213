package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// FileName is the config file looked up in each config directory
const FileName = "config.toml"

// SystemDirs are searched in order for a system-wide config
var SystemDirs = []string{
	"/etc/askdoc",
	"/usr/local/etc/askdoc",
}

// Load reads the first system-wide config found in systemDirs, then merges
// userDir's config on top of it so user values win.
// Returns the files that were read, lowest priority first.
func Load(v *viper.Viper, systemDirs []string, userDir string) ([]string, error) {
	var loaded []string

	for _, dir := range systemDirs {
		path := filepath.Join(dir, FileName)
		if !fileExists(path) {
			continue
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return loaded, fmt.Errorf("error reading system config file %s: %w", path, err)
		}
		loaded = append(loaded, path)
		break
	}

	userPath := filepath.Join(userDir, FileName)
	if !fileExists(userPath) {
		return loaded, nil
	}

	v.SetConfigFile(userPath)
	if len(loaded) > 0 {
		if err := v.MergeInConfig(); err != nil {
			return loaded, fmt.Errorf("error merging user config file %s: %w", userPath, err)
		}
	} else if err := v.ReadInConfig(); err != nil {
		return loaded, fmt.Errorf("error reading user config file %s: %w", userPath, err)
	}

	return append(loaded, userPath), nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
