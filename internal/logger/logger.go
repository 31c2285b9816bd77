// Package logger builds the structured logger shared by the binaries.
package logger

import (
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

type Options struct {
	Service string
	Level   string
	Out     io.Writer
}

func New(opts Options) *logrus.Entry {
	log := logrus.New()
	log.Level = parseLevel(opts.Level)
	log.Formatter = &logrus.JSONFormatter{
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "severity",
			logrus.FieldKeyMsg:   "message",
		},
		TimestampFormat: time.RFC3339Nano,
	}
	if opts.Out != nil {
		log.Out = opts.Out
	}

	return log.WithField("service", opts.Service)
}

func parseLevel(lvl string) logrus.Level {
	level, err := logrus.ParseLevel(strings.TrimSpace(lvl))
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}
