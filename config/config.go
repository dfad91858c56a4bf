package config

import (
	"os"
	"path/filepath"
	"strings"
)

var gitSHA string
var buildDate string

func GetDataDir() string {
	value, exists := os.LookupEnv("SLIDESTACK_DATA_DIR")
	if exists {
		return value
	}
	return "data"
}

// defaults to GetDataDir() / config
func GetConfigDir() string {
	value, exists := os.LookupEnv("SLIDESTACK_CONFIG_DIR")
	if exists {
		return value
	}
	return filepath.Join(GetDataDir(), "config")
}

// defaults to GetConfigDir() / slidestack.yaml
func GetConfigFile() string {
	value, exists := os.LookupEnv("SLIDESTACK_CONFIG_FILE")
	if exists {
		return value
	}
	return filepath.Join(GetConfigDir(), "slidestack.yaml")
}

func GetAddr() string {
	value, exists := os.LookupEnv("SLIDESTACK_ADDR")
	if exists {
		return value
	}
	return ":8080"
}

func GetFfprobe() string {
	value, exists := os.LookupEnv("SLIDESTACK_FFPROBE")
	if exists {
		return value
	}
	return "ffprobe"
}

func GetFfmpeg() string {
	value, exists := os.LookupEnv("SLIDESTACK_FFMPEG")
	if exists {
		return value
	}
	return "ffmpeg"
}

func GetDebug() bool {
	key := "SLIDESTACK_DEBUG"
	if value, exists := os.LookupEnv(key); exists {
		lower := strings.ToLower(value)
		if lower == "on" || lower == "1" || lower == "true" || lower == "yes" {
			return true
		}
	}
	return false
}

func GetGitSHA() string {
	if gitSHA == "" {
		return "<not provided>"
	} else {
		return gitSHA
	}
}

func GetBuildDate() string {
	if buildDate == "" {
		return "<not provided>"
	} else {
		return buildDate
	}
}
