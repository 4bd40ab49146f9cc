package logger

import (
	"io"
	"os"
	"path/filepath"

	fiberLogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New builds the application logger and the fiber access-log config.
// Both write to stdout and a rotating file under logDir.
func New(logDir string, debug bool) (zerolog.Logger, *fiberLogger.Config, error) {
	if err := os.MkdirAll(logDir, os.ModePerm); err != nil {
		return zerolog.Logger{}, nil, err
	}

	logFile := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, "app.log"),
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	}

	multiWriter := io.MultiWriter(os.Stdout, logFile)

	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	appLogger := zerolog.New(multiWriter).Level(level).With().Timestamp().Logger()

	accessConfig := &fiberLogger.Config{
		Output:     multiWriter,
		Format:     "${time} | ${status} | ${latency} | ${method} | ${path} | ${error}\n",
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Local",
	}

	return appLogger, accessConfig, nil
}
