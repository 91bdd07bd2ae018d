package config

import (
	"os"

	"github.com/sirupsen/logrus"
)

// ConfigureLogging sets the global logrus formatter and level for the deployment.
func ConfigureLogging(cfg *Config) {
	logrus.SetOutput(os.Stdout)

	if cfg.IsProduction() || IsServerlessMode() {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(GetEnv("LOG_LEVEL", "info"))
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}
