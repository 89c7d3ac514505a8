// Package logging holds the shared logrus logger.
package logging

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var log = logrus.New()

func init() {
	log.Formatter = &logrus.TextFormatter{
		DisableColors:    true,
		FullTimestamp:    true,
		QuoteEmptyFields: true,
	}
	log.SetLevel(Level(os.Getenv("MULTIALLOC_LOGLEVEL")))
}

// Get returns the package logger. Its level starts from
// MULTIALLOC_LOGLEVEL and can be changed with SetLevel.
func Get() *logrus.Logger {
	return log
}

// Level maps a level name to a logrus level. Unknown names map to info.
func Level(name string) logrus.Level {
	switch strings.ToLower(name) {
	case "error":
		return logrus.ErrorLevel
	case "warn":
		return logrus.WarnLevel
	case "debug":
		return logrus.DebugLevel
	default:
		return logrus.InfoLevel
	}
}
