package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

const (
	logDir      = "logs"
	logFileName = "entangled.log"
	maxLogSize  = 10 * 1024 * 1024 // 10MB
)

// setupLogging returns a file logger in debug mode and a disabled logger otherwise
// The terminal owns stdout and stderr while the game runs, so nothing is ever written there
// A log file over maxLogSize is moved aside with a timestamp suffix before reopening
func setupLogging(debug bool, level zerolog.Level) (zerolog.Logger, *os.File) {
	if !debug {
		return zerolog.New(io.Discard).Level(zerolog.Disabled), nil
	}

	if err := os.MkdirAll(logDir, 0755); err != nil {
		return zerolog.New(io.Discard).Level(zerolog.Disabled), nil
	}

	logPath := filepath.Join(logDir, logFileName)
	if info, err := os.Stat(logPath); err == nil && info.Size() > maxLogSize {
		rotated := filepath.Join(logDir, fmt.Sprintf("entangled_%s.log", time.Now().Format("20060102_150405")))
		_ = os.Rename(logPath, rotated)
	}

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return zerolog.New(io.Discard).Level(zerolog.Disabled), nil
	}

	return zerolog.New(f).Level(level).With().Timestamp().Logger(), f
}
