// Package logging configures structured, leveled logging for cmd/iexcat
// (the sink implementations do no logging), following rahjooh-CryptoTrade/logger's use
// of logrus with a JSON formatter and caller reporting.
package logging

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// New returns a logrus.Logger writing JSON-formatted entries to stdout at
// the given level (parsed case-insensitively; an unrecognized level falls
// back to info).
func New(level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetReportCaller(true)
	logger.SetFormatter(&logrus.JSONFormatter{
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "message",
		},
	})

	lvl, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)

	return logger
}
