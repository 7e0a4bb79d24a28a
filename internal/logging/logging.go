// Package logging configures the logrus loggers used across the service.
package logging

import (
	"strings"

	log "github.com/sirupsen/logrus"
)

var fieldMap = log.FieldMap{
	log.FieldKeyTime: "@timestamp",
	log.FieldKeyMsg:  "message",
}

// New returns a logger for level and format. Unknown levels fall back to
// info; format "text" selects the human-readable formatter, anything else JSON.
func New(level, format string) *log.Logger {
	logger := log.New()
	Configure(logger, level, format)
	return logger
}

// Configure applies level and format to logger. It is also applied to the
// standard logger so packages logging through it share the same output.
func Configure(logger *log.Logger, level, format string) {
	lvl, err := log.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		lvl = log.InfoLevel
	}
	var formatter log.Formatter = &log.JSONFormatter{FieldMap: fieldMap}
	if strings.EqualFold(strings.TrimSpace(format), "text") {
		formatter = &log.TextFormatter{FullTimestamp: true}
	}
	logger.SetFormatter(formatter)
	logger.SetLevel(lvl)
	if logger != log.StandardLogger() {
		log.SetFormatter(formatter)
		log.SetLevel(lvl)
	}
}
