package server

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LoadConfig reads configuration from the given YAML file (optional),
// FOOTFALL_* environment variables, and built-in defaults, in that
// precedence order. An empty path skips the file and uses env/defaults only.
func LoadConfig(path string) (*viper.Viper, error) {
	v := viper.New()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("database.path", "footfall.db")
	v.SetDefault("log.level", "info")

	v.SetEnvPrefix("FOOTFALL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %q: %w", path, err)
		}
	}

	return v, nil
}
