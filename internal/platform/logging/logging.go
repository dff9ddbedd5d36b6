// Package logging builds the leveled loggers services write to.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Options controls logger construction.
type Options struct {
	// Level is a logrus level name; empty means info.
	Level string
	// JSON switches from text to JSON output.
	JSON bool
	// Output defaults to stderr.
	Output io.Writer
}

// New returns a logger entry bound to service. Unknown levels fall back to
// info and are reported on the returned entry.
func New(service string, opts Options) *logrus.Entry {
	logger := logrus.New()
	if opts.Output != nil {
		logger.SetOutput(opts.Output)
	} else {
		logger.SetOutput(os.Stderr)
	}
	if opts.JSON {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	entry := logger.WithField("service", strings.TrimSpace(service))

	levelName := strings.TrimSpace(opts.Level)
	if levelName == "" {
		logger.SetLevel(logrus.InfoLevel)
		return entry
	}
	level, err := logrus.ParseLevel(levelName)
	if err != nil {
		logger.SetLevel(logrus.InfoLevel)
		entry.Warnf("unknown log level %q, using info", levelName)
		return entry
	}
	logger.SetLevel(level)
	return entry
}
