package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

var globalLogger = NewDefault()

func init() {
	configureFromEnv()
}

// configureFromEnv applies LOG_LEVEL and LOG_FORMAT before config is loaded
func configureFromEnv() {
	if level, err := ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		globalLogger.SetLevel(level)
	}
	if format, err := ParseFormat(os.Getenv("LOG_FORMAT")); err == nil {
		globalLogger.SetFormat(format)
	}
}

// ParseLevel parses a log level name. An empty string is an error.
func ParseLevel(level string) (LogLevel, error) {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return DEBUG, nil
	case "INFO":
		return INFO, nil
	case "WARN", "WARNING":
		return WARN, nil
	case "ERROR":
		return ERROR, nil
	case "FATAL":
		return FATAL, nil
	default:
		return INFO, fmt.Errorf("unknown log level %q", level)
	}
}

// ParseFormat parses json or text. Anything else, including "auto", is an error.
func ParseFormat(format string) (LogFormat, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return JSONFormat, nil
	case "text":
		return TextFormat, nil
	default:
		return JSONFormat, fmt.Errorf("unknown log format %q", format)
	}
}

// Options configures the global logger from service settings
type Options struct {
	Level       string
	Format      string
	File        string
	Environment string
}

// Setup reconfigures the global logger. Format "auto" picks text for
// development and JSON elsewhere. When File is set, output goes to a
// rotating log file as well as stdout; the returned closer releases it.
func Setup(opts Options) (io.Closer, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	format, err := ParseFormat(opts.Format)
	if err != nil {
		if !strings.EqualFold(opts.Format, "auto") && opts.Format != "" {
			return nil, err
		}
		format = JSONFormat
		if opts.Environment == "" || opts.Environment == "development" || opts.Environment == "local" {
			format = TextFormat
		}
	}

	globalLogger.SetLevel(level)
	globalLogger.SetFormat(format)

	if opts.File == "" {
		globalLogger.SetOutput(os.Stdout)
		return nopCloser{}, nil
	}

	rotating := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    10, // MB
		MaxBackups: 3,
		MaxAge:     7, // days
		Compress:   true,
	}
	globalLogger.SetOutput(io.MultiWriter(os.Stdout, rotating))
	return rotating, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// GetGlobalLogger returns the global logger instance
func GetGlobalLogger() *Logger {
	return globalLogger
}

// SetGlobalLogger sets the global logger instance
func SetGlobalLogger(logger *Logger) {
	globalLogger = logger
}

// Component returns a global logger tagged with name
func Component(name string) *Logger {
	return globalLogger.WithComponent(name)
}

// Debug logs a debug message using the global logger
func Debug(message string, fields ...map[string]interface{}) {
	globalLogger.log(2, DEBUG, message, firstFields(fields), nil)
}

// Info logs an info message using the global logger
func Info(message string, fields ...map[string]interface{}) {
	globalLogger.log(2, INFO, message, firstFields(fields), nil)
}

// Warn logs a warning message using the global logger
func Warn(message string, fields ...map[string]interface{}) {
	globalLogger.log(2, WARN, message, firstFields(fields), nil)
}

// Error logs an error message using the global logger
func Error(message string, err error, fields ...map[string]interface{}) {
	globalLogger.log(2, ERROR, message, firstFields(fields), err)
}

// Fatal logs a fatal message using the global logger and exits
func Fatal(message string, err error, fields ...map[string]interface{}) {
	globalLogger.log(2, FATAL, message, firstFields(fields), err)
}
