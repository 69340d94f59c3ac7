// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"plantreminder/internal/domain/constant"
)

// Config holds all configuration values for the API server.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to 8080.
	Port int

	// DBPath is the SQLite database file. Defaults to "plants.db".
	DBPath string

	// LogLevel controls the minimum log level. Defaults to "info".
	LogLevel string

	// Location is the timezone daily watering triggers are evaluated in.
	// Read from TZ_NAME as an IANA name; defaults to time.Local.
	Location *time.Location

	// Channel is where fired reminders go. ChannelLine when all LINE values are set.
	Channel constant.DeliveryChannel

	LineChannelSecret string
	LineChannelToken  string
	LineRecipientID   string
}

// Load reads configuration from environment variables and returns a Config.
func Load() (Config, error) {
	cfg := Config{
		DBPath:            getEnv("PLANT_DB_PATH", "plants.db"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		Location:          time.Local,
		Channel:           constant.ChannelLog,
		LineChannelSecret: os.Getenv("CHANNEL_SECRET"),
		LineChannelToken:  os.Getenv("CHANNEL_ACCESS_TOKEN"),
		LineRecipientID:   os.Getenv("LINE_RECIPIENT_ID"),
	}

	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil || port <= 0 || port > 65535 {
		return Config{}, fmt.Errorf("invalid PORT %q", os.Getenv("PORT"))
	}
	cfg.Port = port

	if tz := strings.TrimSpace(os.Getenv("TZ_NAME")); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return Config{}, fmt.Errorf("invalid TZ_NAME %q: %w", tz, err)
		}
		cfg.Location = loc
	}

	lineVars := map[string]string{
		"CHANNEL_SECRET":       cfg.LineChannelSecret,
		"CHANNEL_ACCESS_TOKEN": cfg.LineChannelToken,
		"LINE_RECIPIENT_ID":    cfg.LineRecipientID,
	}
	var set, missing []string
	for _, name := range []string{"CHANNEL_SECRET", "CHANNEL_ACCESS_TOKEN", "LINE_RECIPIENT_ID"} {
		if lineVars[name] == "" {
			missing = append(missing, name)
		} else {
			set = append(set, name)
		}
	}
	switch {
	case len(missing) == 0:
		cfg.Channel = constant.ChannelLine
	case len(set) > 0:
		return Config{}, fmt.Errorf("incomplete LINE configuration, missing: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
