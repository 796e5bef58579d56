package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides (SKILLSWAP_API_BASE_URL -> api.base_url)
const EnvPrefix = "SKILLSWAP"

var configDir string
var configFilePath string
var sessionPath string

// getConfigDir returns platform-specific config directory
func getConfigDir() (string, error) {
	if runtime.GOOS == "windows" {
		// Windows: %LOCALAPPDATA%\skillswap
		appData := os.Getenv("LOCALAPPDATA")
		if appData == "" {
			appData = os.Getenv("APPDATA")
		}
		if appData == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			appData = home
		}
		return filepath.Join(appData, "skillswap"), nil
	}

	// Unix-like (macOS, Linux): ~/.config/skillswap
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "skillswap"), nil
}

// getSystemConfigPaths returns platform-specific system config paths
func getSystemConfigPaths() []string {
	if runtime.GOOS == "windows" {
		return []string{filepath.Join(os.Getenv("ProgramFiles"), "SkillSwap", "config.toml")}
	}

	return []string{
		"/etc/skillswap/config.toml",
		"/usr/local/etc/skillswap/config.toml",
	}
}

// Init initializes the configuration
func Init(configPath string) error {
	var err error
	if configPath != "" {
		configDir = filepath.Dir(configPath)
		configFilePath = configPath
	} else {
		configDir, err = getConfigDir()
		if err != nil {
			return err
		}
		configFilePath = filepath.Join(configDir, "config.toml")
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return err
	}

	sessionPath = filepath.Join(configDir, "session.json")

	// A missing .env is fine; it only feeds the SKILLSWAP_* overrides below.
	_ = godotenv.Load()

	viper.Reset()
	viper.SetConfigType("toml")
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	// System config first, user config overrides it
	for _, sysConfigPath := range getSystemConfigPaths() {
		if _, err := os.Stat(sysConfigPath); err == nil {
			viper.SetConfigFile(sysConfigPath)
			_ = viper.ReadInConfig()
			break
		}
	}

	viper.SetConfigFile(configFilePath)
	_ = viper.MergeInConfig()

	return nil
}

func setDefaults() {
	viper.SetDefault("api.base_url", "http://localhost:8080/api")
	viper.SetDefault("api.media_base_url", "http://localhost:8080")
	viper.SetDefault("api.timeout", 30)
	viper.SetDefault("output.format", "text")

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.file", filepath.Join(configDir, "skillswap.log"))

	viper.SetDefault("view.truncate_at", 80)
	viper.SetDefault("upload.max_bytes", 5*1024*1024)
	viper.SetDefault("upload.allowed_types", []string{"image/jpeg", "image/png", "image/webp"})
	viper.SetDefault("profile.max_name", 50)
	viper.SetDefault("profile.max_bio", 100)
	viper.SetDefault("avatar.concurrency", 8)
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// GetString returns a string configuration value
func GetString(key string) string {
	value := viper.GetString(key)
	if key == "log.file" {
		return expandPath(value)
	}
	return value
}

// GetInt returns an int configuration value
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetInt64 returns an int64 configuration value
func GetInt64(key string) int64 {
	return viper.GetInt64(key)
}

// GetBool returns a bool configuration value
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetStringSlice returns a string slice configuration value
func GetStringSlice(key string) []string {
	return viper.GetStringSlice(key)
}

// Set overrides a value for the lifetime of the process without touching the file
func Set(key string, value interface{}) {
	viper.Set(key, value)
}

// SetString sets a string configuration value and persists it
func SetString(key string, value string) error {
	viper.Set(key, value)
	return viper.WriteConfigAs(configFilePath)
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() string {
	return configDir
}

// GetConfigFilePath returns the path of the user config file
func GetConfigFilePath() string {
	return configFilePath
}

// GetSessionPath returns the path to the persisted session file
func GetSessionPath() string {
	return sessionPath
}
