package log

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

type Config struct {
	LogDir     string
	LogPrefix  string
	LogLevel   string
	AutoClear  bool
	ClearHours int
}

var logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(zerolog.InfoLevel)

// InitLogger init logger. Without a log dir, logs go to stderr. Otherwise
// <prefix>.log gets every event and <prefix>.log.wf warnings and above.
func InitLogger(config *Config) error {
	var writer io.Writer = zerolog.ConsoleWriter{Out: os.Stderr}
	if config.LogDir != "" {
		if config.LogPrefix == "" {
			return errors.New("log.file_prefix can not be empty")
		}

		logDir, err := filepath.Abs(config.LogDir)
		if err != nil {
			return errors.Wrap(err, "log.dir")
		}
		err = os.MkdirAll(logDir, 0775)
		if err != nil {
			return errors.Wrap(err, "log.dir")
		}

		clearHours := 0
		if config.AutoClear {
			clearHours = config.ClearHours
		}
		writer = zerolog.MultiLevelWriter(
			NewRotateFileWriter(logDir, config.LogPrefix+".log", clearHours),
			&levelFilterWriter{
				w:   NewRotateFileWriter(logDir, config.LogPrefix+".log.wf", clearHours),
				min: zerolog.WarnLevel,
			})
	}
	tmpLogger := zerolog.New(writer)

	lev := strings.ToLower(config.LogLevel)
	l, err := zerolog.ParseLevel(lev)
	if err != nil || lev == "" {
		l = zerolog.InfoLevel
	}
	logger = tmpLogger.Level(l)
	return nil
}

// levelFilterWriter drops events below min.
type levelFilterWriter struct {
	w   io.Writer
	min zerolog.Level
}

func (lw *levelFilterWriter) Write(p []byte) (int, error) {
	return lw.w.Write(p)
}

func (lw *levelFilterWriter) WriteLevel(l zerolog.Level, p []byte) (int, error) {
	if l < lw.min {
		return len(p), nil
	}
	return lw.w.Write(p)
}

// G returns the logger itself, for handing to packages that take one.
func G() zerolog.Logger {
	return logger
}

func Fatal() *zerolog.Event {
	return logger.Fatal().Timestamp().Caller(1)
}

func Error() *zerolog.Event {
	return logger.Error().Timestamp().Caller(1)
}

func Warn() *zerolog.Event {
	return logger.Warn().Timestamp().Caller(1)
}

func Info() *zerolog.Event {
	return logger.Info().Timestamp().Caller(1)
}

func Debug() *zerolog.Event {
	return logger.Debug().Timestamp().Caller(1)
}
