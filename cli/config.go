// SPDX-License-Identifier: MIT

package cli

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// EnvVar documents one environment variable read by the CLI.
type EnvVar struct {
	Name        string
	Value       any
	Description string
}

// Var returns the environment variable key with surrounding space and
// quotes removed.
func Var(key string) string {
	return strings.Trim(strings.TrimSpace(os.Getenv(key)), "\"'")
}

// LogLevel is configurable via SMALLMAT_DEBUG: 0/false = INFO (default),
// 1/true = DEBUG.
func LogLevel() slog.Level {
	level := slog.LevelInfo
	if s := Var("SMALLMAT_DEBUG"); s != "" {
		if b, _ := strconv.ParseBool(s); b {
			level = slog.LevelDebug
		}
	}
	return level
}

// Jobs is the default batch concurrency, SMALLMAT_JOBS; 0 means GOMAXPROCS.
func Jobs() int {
	if s := Var("SMALLMAT_JOBS"); s != "" {
		n, err := strconv.Atoi(s)
		if err == nil && n >= 0 {
			return n
		}
		slog.Warn("invalid environment variable, using default", "key", "SMALLMAT_JOBS", "value", s, "default", 0)
	}
	return 0
}

// AsMap lists the environment variables with their current values.
func AsMap() map[string]EnvVar {
	return map[string]EnvVar{
		"SMALLMAT_DEBUG": {"SMALLMAT_DEBUG", LogLevel(), "Show debug logging, including kernel specialization (e.g. SMALLMAT_DEBUG=1)"},
		"SMALLMAT_JOBS":  {"SMALLMAT_JOBS", Jobs(), "Default number of concurrent batch evaluations (0 = GOMAXPROCS)"},
	}
}
