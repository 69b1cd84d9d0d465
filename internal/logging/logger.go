// Package logging provides a small leveled logging helper shared across the
// engine and its adapters. It wraps the standard log package rather than
// pulling in a structured logging dependency the engine itself has no need
// for.
package logging

import (
	"fmt"
	"log"
	"strings"
)

// Level is a logging verbosity threshold. Lower values are more verbose.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

var level = LevelInfo

// SetLevel sets the global log level from a case-insensitive name
// ("DEBUG", "INFO", "WARN", "ERROR", "FATAL"). Unknown names fall back to INFO.
func SetLevel(name string) {
	switch strings.ToUpper(name) {
	case "DEBUG":
		level = LevelDebug
	case "INFO":
		level = LevelInfo
	case "WARN":
		level = LevelWarn
	case "ERROR":
		level = LevelError
	case "FATAL":
		level = LevelFatal
	default:
		fmt.Printf("logging: unknown level %q, defaulting to INFO\n", name)
		level = LevelInfo
	}
}

func Debugf(format string, v ...interface{}) {
	if level <= LevelDebug {
		log.Printf("[DEBUG] "+format, v...)
	}
}

func Infof(format string, v ...interface{}) {
	if level <= LevelInfo {
		log.Printf("[INFO] "+format, v...)
	}
}

func Warnf(format string, v ...interface{}) {
	if level <= LevelWarn {
		log.Printf("[WARN] "+format, v...)
	}
}

func Errorf(format string, v ...interface{}) {
	if level <= LevelError {
		log.Printf("[ERROR] "+format, v...)
	}
}

func Fatalf(format string, v ...interface{}) {
	log.Fatalf("[FATAL] "+format, v...)
}
