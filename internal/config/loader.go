package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures environment driven configuration values for the booking service.
type Config struct {
	HTTPPort       int
	BackendURL     string
	BackendTimeout time.Duration
	Timezone       string
	MinHour        int
	MaxHour        int
	MaxForwardDays int
	SelectionTTL   time.Duration
}

// Load parses configuration values from the current process environment.
//
// The loader applies sensible defaults for optional fields while validating
// required values and reporting every problem in one pass.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:       8080,
		BackendTimeout: 10 * time.Second,
		Timezone:       "Local",
		MinHour:        9,
		MaxHour:        18,
		MaxForwardDays: 30,
		SelectionTTL:   15 * time.Minute,
	}

	missing := make([]string, 0, 1)
	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("ROOMBOOK_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "ROOMBOOK_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if backendURL := strings.TrimSpace(os.Getenv("ROOMBOOK_BACKEND_URL")); backendURL == "" {
		missing = append(missing, "ROOMBOOK_BACKEND_URL")
	} else {
		cfg.BackendURL = backendURL
	}

	if timeoutValue := strings.TrimSpace(os.Getenv("ROOMBOOK_BACKEND_TIMEOUT")); timeoutValue != "" {
		timeout, err := time.ParseDuration(timeoutValue)
		if err != nil || timeout <= 0 {
			invalid = append(invalid, "ROOMBOOK_BACKEND_TIMEOUT")
		} else {
			cfg.BackendTimeout = timeout
		}
	}

	if tz := strings.TrimSpace(os.Getenv("ROOMBOOK_TIMEZONE")); tz != "" {
		if _, err := time.LoadLocation(tz); err != nil {
			invalid = append(invalid, "ROOMBOOK_TIMEZONE")
		} else {
			cfg.Timezone = tz
		}
	}

	if minValue := strings.TrimSpace(os.Getenv("ROOMBOOK_MIN_HOUR")); minValue != "" {
		minHour, err := strconv.Atoi(minValue)
		if err != nil || minHour < 0 || minHour > 23 {
			invalid = append(invalid, "ROOMBOOK_MIN_HOUR")
		} else {
			cfg.MinHour = minHour
		}
	}

	if maxValue := strings.TrimSpace(os.Getenv("ROOMBOOK_MAX_HOUR")); maxValue != "" {
		maxHour, err := strconv.Atoi(maxValue)
		if err != nil || maxHour < 1 || maxHour > 24 {
			invalid = append(invalid, "ROOMBOOK_MAX_HOUR")
		} else {
			cfg.MaxHour = maxHour
		}
	}

	if daysValue := strings.TrimSpace(os.Getenv("ROOMBOOK_MAX_FORWARD_DAYS")); daysValue != "" {
		days, err := strconv.Atoi(daysValue)
		if err != nil || days < 0 {
			invalid = append(invalid, "ROOMBOOK_MAX_FORWARD_DAYS")
		} else {
			cfg.MaxForwardDays = days
		}
	}

	if ttlValue := strings.TrimSpace(os.Getenv("ROOMBOOK_SELECTION_TTL")); ttlValue != "" {
		ttl, err := time.ParseDuration(ttlValue)
		if err != nil || ttl <= 0 {
			invalid = append(invalid, "ROOMBOOK_SELECTION_TTL")
		} else {
			cfg.SelectionTTL = ttl
		}
	}

	if cfg.MinHour >= cfg.MaxHour {
		invalid = append(invalid, "ROOMBOOK_MIN_HOUR/ROOMBOOK_MAX_HOUR")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables are not set: %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("environment variables have invalid values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
