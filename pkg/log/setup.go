package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/Sriram-PR/pydocs-scraper/pkg/config"
	"github.com/Sriram-PR/pydocs-scraper/pkg/utils"
)

// Setup creates the process logger: console (stderr) plus a size-rotated file
// under the configured log directory. The returned closer flushes the file sink.
func Setup(cfg *config.AppConfig, console io.Writer) (*logrus.Logger, io.Closer, error) {
	logPath := cfg.GetEffectiveLogPath()
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return nil, nil, fmt.Errorf("%w: create log directory: %w", utils.ErrFilesystem, err)
	}

	rotating := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
	}

	log := logrus.New()
	log.SetOutput(io.MultiWriter(console, rotating))
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: config.DateTimeFormat,
		DisableColors:   true, // Same bytes go to the file sink
	})

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.SetLevel(logrus.InfoLevel)
		log.Warnf("Invalid log level '%s', using default 'info'. Error: %v", cfg.LogLevel, err)
	} else {
		log.SetLevel(level)
	}

	return log, rotating, nil
}
