package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger логгер с printf-интерфейсом поверх zerolog
type Logger struct {
	zl   zerolog.Logger
	file *os.File
}

// New создает логгер. Если filePath пустой, пишет только в stdout,
// иначе дублирует вывод в файл (режим дозаписи).
func New(filePath string, level string) (*Logger, error) {
	var (
		output io.Writer = os.Stdout
		file   *os.File
	)

	if filePath != "" {
		f, err := os.OpenFile(filePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		file = f
		output = io.MultiWriter(os.Stdout, f)
	}

	l := NewWithWriter(output, level)
	l.file = file
	return l, nil
}

// NewWithWriter создает логгер, пишущий в произвольный writer
func NewWithWriter(w io.Writer, level string) *Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	return &Logger{
		zl: zerolog.New(w).
			Level(parseLevel(level)).
			With().
			Timestamp().
			Logger(),
	}
}

func parseLevel(level string) zerolog.Level {
	parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || parsed == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return parsed
}

func (l *Logger) Debug(format string, v ...interface{}) {
	l.zl.Debug().Msgf(format, v...)
}

func (l *Logger) Info(format string, v ...interface{}) {
	l.zl.Info().Msgf(format, v...)
}

func (l *Logger) Warn(format string, v ...interface{}) {
	l.zl.Warn().Msgf(format, v...)
}

func (l *Logger) Error(format string, v ...interface{}) {
	l.zl.Error().Msgf(format, v...)
}

// Fatal логирует сообщение и завершает процесс с кодом 1
func (l *Logger) Fatal(format string, v ...interface{}) {
	l.zl.Fatal().Msgf(format, v...)
}

// Close закрывает файл логов, если он был открыт
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}
