package main

import (
	"os"
	"strings"

	"github.com/semihalev/ucache/config"
	"github.com/semihalev/zlog/v2"
)

func parseLevel(level string) (zlog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return zlog.LevelDebug, nil
	case "info":
		return zlog.LevelInfo, nil
	case "", "warn":
		return zlog.LevelWarn, nil
	case "error", "crit":
		return zlog.LevelError, nil
	}

	return 0, config.Errorf("log verbosity level unknown: %s", level)
}

// setupLogging sends logs to stderr, stdout is reserved for printer output.
func setupLogging(level string) error {
	lvl, err := parseLevel(level)
	if err != nil {
		return err
	}

	logger := zlog.NewStructured()
	logger.SetWriter(os.Stderr)
	logger.SetLevel(lvl)
	zlog.SetDefault(logger)

	return nil
}
