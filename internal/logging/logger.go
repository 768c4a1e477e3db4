package logging

import (
	"io"
	"os"
	"time"

	"github.com/hashicorp/go-hclog"
)

// NewLogger creates an hclog logger writing to output (stderr when nil).
// MANIFESTIFY_JSON_LOG=1 switches to JSON lines.
func NewLogger(name string, level string, output io.Writer) hclog.Logger {
	if output == nil {
		output = os.Stderr
	}

	jsonFormat := os.Getenv("MANIFESTIFY_JSON_LOG") == "1"
	if !jsonFormat {
		output = NewPrefixWriter("🖼  ", output)
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:       name,
		Level:      hclog.LevelFromString(level),
		JSONFormat: jsonFormat,
		Output:     output,
		TimeFormat: "2006-01-02T15:04:05Z",
		TimeFn: func() time.Time {
			return time.Now().UTC()
		},
	})
}

// GetLogLevel returns the level from MANIFESTIFY_LOG_LEVEL, defaulting to
// warn.
func GetLogLevel() string {
	level := os.Getenv("MANIFESTIFY_LOG_LEVEL")
	if level == "" {
		level = "warn"
	}
	return level
}
