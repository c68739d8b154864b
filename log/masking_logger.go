/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package log

import (
	"errors"
	"fmt"
	"io"

	"github.com/ssgreg/logf"
)

// StringMasker hides secrets in a string.
type StringMasker interface {
	Mask(s string) string
}

// MaskingLogger masks secrets in messages, string fields and errors before passing them on.
// Transport errors carry the request URL, so a token in a query string would otherwise end up in logs.
type MaskingLogger struct {
	log    FieldLogger
	masker StringMasker
}

var _ FieldLogger = MaskingLogger{}

// NewMaskingLogger wraps l.
func NewMaskingLogger(l FieldLogger, m StringMasker) FieldLogger {
	return MaskingLogger{l, m}
}

// With returns a logger that adds masked fs to every entry.
func (l MaskingLogger) With(fs ...Field) FieldLogger {
	return MaskingLogger{l.log.With(l.maskFields(fs)...), l.masker}
}

// Debug logs at "debug" level.
func (l MaskingLogger) Debug(msg string, fs ...Field) {
	l.log.Debug(l.masker.Mask(msg), l.maskFields(fs)...)
}

// Info logs at "info" level.
func (l MaskingLogger) Info(msg string, fs ...Field) {
	l.log.Info(l.masker.Mask(msg), l.maskFields(fs)...)
}

// Warn logs at "warn" level.
func (l MaskingLogger) Warn(msg string, fs ...Field) {
	l.log.Warn(l.masker.Mask(msg), l.maskFields(fs)...)
}

// Error logs at "error" level.
func (l MaskingLogger) Error(msg string, fs ...Field) {
	l.log.Error(l.masker.Mask(msg), l.maskFields(fs)...)
}

// Debugf logs a formatted message at "debug" level.
func (l MaskingLogger) Debugf(format string, args ...interface{}) {
	l.log.Debug(l.masker.Mask(fmt.Sprintf(format, args...)))
}

// Infof logs a formatted message at "info" level.
func (l MaskingLogger) Infof(format string, args ...interface{}) {
	l.log.Info(l.masker.Mask(fmt.Sprintf(format, args...)))
}

// Warnf logs a formatted message at "warn" level.
func (l MaskingLogger) Warnf(format string, args ...interface{}) {
	l.log.Warn(l.masker.Mask(fmt.Sprintf(format, args...)))
}

// Errorf logs a formatted message at "error" level.
func (l MaskingLogger) Errorf(format string, args ...interface{}) {
	l.log.Error(l.masker.Mask(fmt.Sprintf(format, args...)))
}

// AtLevel calls fn only if the level is enabled.
func (l MaskingLogger) AtLevel(level Level, fn func(logFunc LogFunc)) {
	l.log.AtLevel(level, func(logFunc LogFunc) {
		fn(func(msg string, fs ...Field) {
			logFunc(l.masker.Mask(msg), l.maskFields(fs)...)
		})
	})
}

// WithLevel returns a logger that additionally drops messages below level.
func (l MaskingLogger) WithLevel(level Level) FieldLogger {
	return MaskingLogger{l.log.WithLevel(level), l.masker}
}

// maskFields copies fs only if at least one field has changed.
func (l MaskingLogger) maskFields(fs []Field) []Field {
	var masked []Field
	for i, field := range fs {
		newField, changed := l.maskField(field)
		if !changed {
			continue
		}
		if masked == nil {
			masked = append([]Field(nil), fs...)
		}
		masked[i] = newField
	}
	if masked == nil {
		return fs
	}
	return masked
}

func (l MaskingLogger) maskField(field Field) (Field, bool) {
	switch field.Type {
	case logf.FieldTypeBytesToString:
		s := string(field.Bytes)
		if m := l.masker.Mask(s); m != s {
			return String(field.Key, m), true
		}
	case logf.FieldTypeBytes, logf.FieldTypeRawBytes:
		s := string(field.Bytes)
		if m := l.masker.Mask(s); m != s {
			return logf.ConstBytes(field.Key, []byte(m)), true
		}
	case logf.FieldTypeError:
		err, ok := field.Any.(error)
		if !ok || err == nil {
			break
		}
		s := err.Error()
		if m := l.masker.Mask(s); m != s {
			return logf.NamedError(field.Key, newMaskedError(err, l.masker, m)), true
		}
	}
	return field, false
}

func newMaskedError(err error, m StringMasker, masked string) error {
	if _, ok := err.(fmt.Formatter); ok {
		return maskedError{s: masked, verbose: m.Mask(fmt.Sprintf("%+v", err))}
	}
	return errors.New(masked)
}

// maskedError keeps the verbose form for the "error_verbose" field.
type maskedError struct {
	s       string
	verbose string
}

func (e maskedError) Error() string {
	return e.s
}

func (e maskedError) Format(f fmt.State, _ rune) {
	_, _ = io.WriteString(f, e.verbose)
}
