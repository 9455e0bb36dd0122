package logger

import (
	"context"
	"os"

	"estatehub/internal/shared/contextkeys"

	"github.com/sirupsen/logrus"
)

// Logger is the structured logging interface used across modules. Adapters
// and usecases receive it through construction, never from a global.
type Logger interface {
	Debug(args ...interface{})
	Info(args ...interface{})
	Warn(args ...interface{})
	Error(args ...interface{})
	Fatal(args ...interface{})
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Fatalf(format string, args ...interface{})
	WithFields(fields map[string]interface{}) Logger
	WithContext(ctx context.Context) Logger
	WithComponent(component string) Logger
}

// contextFields maps context keys to the log field they populate. Absent or
// empty values are skipped.
var contextFields = map[interface{}]string{
	contextkeys.UserIDKey:    "user_id",
	contextkeys.UserEmailKey: "user_email",
	contextkeys.UserRoleKey:  "user_role",
	contextkeys.RequestIDKey: "request_id",
	contextkeys.ComponentKey: "component",
	contextkeys.OperationKey: "operation",
}

// LogrusLogger implements Logger on top of a logrus entry.
type LogrusLogger struct {
	entry *logrus.Entry
}

// NewLogger builds a logger from the LOG_LEVEL, LOG_FORMAT and ENVIRONMENT
// variables. Production environments default to JSON output.
func NewLogger() Logger {
	format := os.Getenv("LOG_FORMAT")
	switch os.Getenv("ENVIRONMENT") {
	case "production", "prod":
		format = "json"
	}
	return NewLoggerWithConfig(os.Getenv("LOG_LEVEL"), format)
}

// NewLoggerWithConfig builds a logger with an explicit level and format.
// Unknown levels fall back to info; any format other than "json" renders text.
func NewLoggerWithConfig(level, format string) Logger {
	base := logrus.New()
	base.SetOutput(os.Stdout)

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	base.SetLevel(parsed)

	const rfc3339Millis = "2006-01-02T15:04:05.000Z07:00"
	if format == "json" {
		base.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: rfc3339Millis,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		})
	} else {
		base.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	return &LogrusLogger{entry: logrus.NewEntry(base)}
}

func (l *LogrusLogger) Debug(args ...interface{}) { l.entry.Debug(args...) }
func (l *LogrusLogger) Info(args ...interface{})  { l.entry.Info(args...) }
func (l *LogrusLogger) Warn(args ...interface{})  { l.entry.Warn(args...) }
func (l *LogrusLogger) Error(args ...interface{}) { l.entry.Error(args...) }
func (l *LogrusLogger) Fatal(args ...interface{}) { l.entry.Fatal(args...) }

func (l *LogrusLogger) Debugf(format string, args ...interface{}) { l.entry.Debugf(format, args...) }
func (l *LogrusLogger) Infof(format string, args ...interface{})  { l.entry.Infof(format, args...) }
func (l *LogrusLogger) Warnf(format string, args ...interface{})  { l.entry.Warnf(format, args...) }
func (l *LogrusLogger) Errorf(format string, args ...interface{}) { l.entry.Errorf(format, args...) }
func (l *LogrusLogger) Fatalf(format string, args ...interface{}) { l.entry.Fatalf(format, args...) }

// WithFields returns a derived logger carrying the given fields.
func (l *LogrusLogger) WithFields(fields map[string]interface{}) Logger {
	return &LogrusLogger{entry: l.entry.WithFields(logrus.Fields(fields))}
}

// WithContext returns a derived logger carrying the request identity fields
// present in ctx (user id, email, role, request id).
func (l *LogrusLogger) WithContext(ctx context.Context) Logger {
	fields := logrus.Fields{}
	for key, name := range contextFields {
		if val, ok := ctx.Value(key).(string); ok && val != "" {
			fields[name] = val
		}
	}
	return &LogrusLogger{entry: l.entry.WithFields(fields)}
}

// WithComponent tags the logger with a component name.
func (l *LogrusLogger) WithComponent(component string) Logger {
	return &LogrusLogger{entry: l.entry.WithField("component", component)}
}
