// Package logging standardizes the function/package fields every log
// call site in this module stamps onto its logrus entries, ported from
// the crypto package's original package-scoped LoggerHelper so it can
// be shared by store, mailbox, identity, and the rest of the tree.
package logging

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"
)

// Logger carries the function/package fields a call site stamps on
// every entry it logs, plus whatever is added with WithField(s).
type Logger struct {
	function string
	pkg      string
	fields   logrus.Fields
}

// New returns a Logger pre-stamped with pkg and function fields.
func New(pkg, function string) *Logger {
	return &Logger{
		function: function,
		pkg:      pkg,
		fields: logrus.Fields{
			"function": function,
			"package":  pkg,
		},
	}
}

// WithCaller adds the immediate caller's file:line and function name.
func (l *Logger) WithCaller() *Logger {
	if pc, file, line, ok := runtime.Caller(1); ok {
		if fn := runtime.FuncForPC(pc); fn != nil {
			funcName := fn.Name()
			if lastSlash := strings.LastIndex(funcName, "/"); lastSlash >= 0 {
				funcName = funcName[lastSlash+1:]
			}
			l.fields["caller"] = fmt.Sprintf("%s:%d", file, line)
			l.fields["caller_func"] = funcName
		}
	}
	return l
}

// WithField adds a single custom field.
func (l *Logger) WithField(key string, value interface{}) *Logger {
	l.fields[key] = value
	return l
}

// WithFields merges additional fields onto the logger.
func (l *Logger) WithFields(fields logrus.Fields) *Logger {
	for k, v := range fields {
		l.fields[k] = v
	}
	return l
}

// WithError annotates the logger with an error, its type, and the
// operation that produced it.
func (l *Logger) WithError(err error, errorType, operation string) *Logger {
	l.fields["error"] = err.Error()
	l.fields["error_type"] = errorType
	l.fields["operation"] = operation
	return l
}

func (l *Logger) Debug(message string) { logrus.WithFields(l.fields).Debug(message) }
func (l *Logger) Info(message string)  { logrus.WithFields(l.fields).Info(message) }
func (l *Logger) Warn(message string)  { logrus.WithFields(l.fields).Warn(message) }
func (l *Logger) Error(message string) { logrus.WithFields(l.fields).Error(message) }
func (l *Logger) Fatal(message string) { logrus.WithFields(l.fields).Fatal(message) }

// SecureFieldHash previews the first 8 bytes of sensitive data (a key,
// a seed, a ciphertext) as hex, so a log entry can show enough to
// correlate calls without exposing the full secret.
func SecureFieldHash(data []byte, name string) logrus.Fields {
	preview := "nil"
	if len(data) > 0 {
		previewLen := 8
		if len(data) < previewLen {
			previewLen = len(data)
		}
		preview = fmt.Sprintf("%x", data[:previewLen])
		if len(data) > previewLen {
			preview += "..."
		}
	}

	return logrus.Fields{
		name + "_preview": preview,
		name + "_size":    len(data),
	}
}

// OperationFields builds standardized operation/status fields for
// call sites that log a multi-step operation's outcome.
func OperationFields(operation, status string, additional ...logrus.Fields) logrus.Fields {
	fields := logrus.Fields{
		"operation": operation,
		"status":    status,
	}

	for _, extra := range additional {
		for k, v := range extra {
			fields[k] = v
		}
	}

	return fields
}
