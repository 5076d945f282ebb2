package logging

import (
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
)

// Setup builds the process logger: JSON records on stdout, mirrored to
// Logstash when ls.Addr is set. The returned closer flushes and releases the
// Logstash connection.
func Setup(level slog.Level, ls LogstashConfig) (*slog.Logger, io.Closer) {
	var (
		out    io.Writer = os.Stdout
		closer io.Closer = nopCloser{}
	)
	if strings.TrimSpace(ls.Addr) != "" {
		shipper, err := NewLogstashShipper(ls)
		if err != nil {
			log.Printf("logstash disabled: %v", err)
		} else {
			out = io.MultiWriter(os.Stdout, shipper)
			closer = shipper
		}
	}

	logger := slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger, closer
}

// ParseLevel maps LOG_LEVEL values to slog levels; unknown values mean info.
func ParseLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
