package ontoenv

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	logOnce sync.Once
	log     *logrus.Logger
)

// Log returns the process-wide logger, initializing it from ONTOENV_LOG on
// first use. The logger is never reconfigured after that.
func Log() *logrus.Logger {
	logOnce.Do(func() {
		log = logrus.New()
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		level := logrus.InfoLevel
		if lvl, err := logrus.ParseLevel(os.Getenv("ONTOENV_LOG")); err == nil {
			level = lvl
		}
		log.SetLevel(level)
	})
	return log
}
