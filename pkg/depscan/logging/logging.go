// Package logging provides structured logging for depscan with per-component
// levels, backed by charmbracelet/log.
//
// Basic usage:
//
//	if err := logging.Init(logging.Config{Level: "info"}); err != nil {
//	    return err
//	}
//	logger := logging.Get("checker")
//	logger.Info("check started", "dir", dir)
package logging

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

// ErrInvalidLevel is returned when an invalid log level string is provided.
var ErrInvalidLevel = errors.New("invalid log level")

// ParseLevel parses a level string into a charmbracelet/log level.
func ParseLevel(s string) (log.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return log.DebugLevel, nil
	case "", "info":
		return log.InfoLevel, nil
	case "warn", "warning":
		return log.WarnLevel, nil
	case "error":
		return log.ErrorLevel, nil
	default:
		return log.InfoLevel, fmt.Errorf("%w: %s", ErrInvalidLevel, s)
	}
}

// Config configures the logging system.
type Config struct {
	// Level is the default level (debug, info, warn, error).
	Level string

	// Components overrides the level per component name.
	Components map[string]string
}

var (
	mu         sync.RWMutex
	defLevel   = log.WarnLevel
	compLevels = map[string]log.Level{}
	loggers    = map[string]*log.Logger{}
)

// Init configures the default and per-component levels. Loggers are written
// to stderr so report output on stdout stays clean. It may be called before
// or after Get; loggers handed out earlier pick up the new levels.
func Init(cfg Config) error {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return err
	}

	comps := make(map[string]log.Level, len(cfg.Components))
	for name, s := range cfg.Components {
		l, err := ParseLevel(s)
		if err != nil {
			return fmt.Errorf("component %s: %w", name, err)
		}
		comps[name] = l
	}

	mu.Lock()
	defer mu.Unlock()
	defLevel = level
	compLevels = comps
	for name, logger := range loggers {
		logger.SetLevel(levelFor(name))
	}
	return nil
}

// Get returns the logger for a component, creating it on first use.
func Get(component string) *log.Logger {
	mu.Lock()
	defer mu.Unlock()

	if logger, ok := loggers[component]; ok {
		return logger
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Prefix: component,
	})
	logger.SetLevel(levelFor(component))
	loggers[component] = logger
	return logger
}

// levelFor resolves the effective level for a component. Callers hold mu.
func levelFor(component string) log.Level {
	if l, ok := compLevels[component]; ok {
		return l
	}
	return defLevel
}
