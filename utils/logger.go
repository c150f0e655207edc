package utils

import (
	"os"

	"github.com/sirupsen/logrus"
)

var (
	InfoLogger  *logrus.Logger
	ErrorLogger *logrus.Logger
)

func InitLogger() {
	InfoLogger = logrus.New()
	ErrorLogger = logrus.New()

	// InfoLogger ke stdout, ErrorLogger ke stderr
	InfoLogger.SetOutput(os.Stdout)
	InfoLogger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	ErrorLogger.SetOutput(os.Stderr)
	ErrorLogger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	InfoLogger.SetLevel(logrus.InfoLevel)
	ErrorLogger.SetLevel(logrus.ErrorLevel)

	// LOG_LEVEL=debug untuk tracing retry admission di development
	if os.Getenv("LOG_LEVEL") == "debug" {
		InfoLogger.SetLevel(logrus.DebugLevel)
	}
}
