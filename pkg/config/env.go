package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// getEnv returns the named environment variable, or def when unset or
// empty. Missing variables are not an error here; validation catches the
// required ones later.
func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getEnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getEnvDuration(key string, defMillis int) time.Duration {
	ms := getEnvInt(key, defMillis)
	return time.Duration(ms) * time.Millisecond
}

func getEnvLogLevel(key, def string) string {
	v := strings.ToLower(getEnv(key, def))
	switch v {
	case "debug", "info", "warn", "error":
		return v
	default:
		return def
	}
}
