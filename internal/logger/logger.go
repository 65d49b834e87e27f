package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log is the process-wide logger. It is usable before Init with logrus
// defaults so packages and tests can log without setup.
var Log = logrus.New()

// Init configures the global logger from the environment.
// Call it once from main.
//
//	LOG_LEVEL   logrus level name, default "info"
//	LOG_FORMAT  "json" for machine output, anything else for coloured text
func Init() {
	Log = logrus.New()

	logLevel, ok := os.LookupEnv("LOG_LEVEL")
	if !ok {
		logLevel = "info"
	}
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)

	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		Log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
	}

	Log.SetOutput(os.Stdout)
}

// Redirect sends log output to w. The terminal view uses it so log lines do
// not scribble over the screen.
func Redirect(w io.Writer) {
	Log.SetOutput(w)
}

// Component returns an entry tagged with the owning component name.
func Component(name string) *logrus.Entry {
	return Log.WithField("component", name)
}
