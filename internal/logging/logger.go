package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/alexanderramin/reflow/internal/domain"
)

// New builds the collaborator logger for the requested verbosity. Verbosity
// affects tracing only, never scheduling results.
func New(level domain.LogLevel) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05.000",
	})

	switch level {
	case domain.LogSilent:
		log.SetOutput(io.Discard)
	case domain.LogDebug:
		log.SetLevel(logrus.DebugLevel)
	default:
		log.SetLevel(logrus.InfoLevel)
	}
	return log
}
