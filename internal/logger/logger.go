package logger

import (
	"context"
	"io"
	"log"
	"os"
	"strings"
)

type implLogger struct {
	logger  *log.Logger
	level   string
	catalog Catalog
}

// New creates a new Logger instance. Messages are looked up in catalog before
// formatting; a nil catalog logs messages as written.
func New(level string, catalog Catalog) Logger {
	return newWithWriter(os.Stdout, level, catalog)
}

func newWithWriter(w io.Writer, level string, catalog Catalog) *implLogger {
	return &implLogger{
		logger:  log.New(w, "", log.LstdFlags),
		level:   strings.ToLower(level),
		catalog: catalog,
	}
}

func (l *implLogger) shouldLog(level string) bool {
	levels := map[string]int{
		"debug": 0,
		"info":  1,
		"warn":  2,
		"error": 3,
	}

	currentLevel, ok := levels[l.level]
	if !ok {
		currentLevel = 1 // default to info
	}

	targetLevel, ok := levels[level]
	if !ok {
		return true
	}

	return targetLevel >= currentLevel
}

func (l *implLogger) print(prefix, msg string, args ...interface{}) {
	l.logger.Printf(prefix+l.catalog.Lookup(msg), args...)
}

func (l *implLogger) Debug(ctx context.Context, msg string, args ...interface{}) {
	if l.shouldLog("debug") {
		l.print("[DEBUG] ", msg, args...)
	}
}

func (l *implLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	if l.shouldLog("info") {
		l.print("[INFO] ", msg, args...)
	}
}

func (l *implLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	if l.shouldLog("warn") {
		l.print("[WARN] ", msg, args...)
	}
}

func (l *implLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	if l.shouldLog("error") {
		l.print("[ERROR] ", msg, args...)
	}
}
