/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func captureOutput(t *testing.T, output Output, fn func()) []byte {
	t.Helper()

	r, w, err := os.Pipe()
	require.NoError(t, err)

	oldStdout, oldStderr := os.Stdout, os.Stderr
	if output == OutputStderr {
		os.Stderr = w
	} else {
		os.Stdout = w
	}
	defer func() {
		os.Stdout, os.Stderr = oldStdout, oldStderr
	}()

	go func() {
		fn()
		_ = w.Close()
	}()

	var buf bytes.Buffer
	_, err = io.Copy(&buf, r)
	require.NoError(t, err)
	return buf.Bytes()
}

func TestLoggerToStd(t *testing.T) {
	tests := []struct {
		name   string
		output Output
		level  Level
		msg    string
		err    error
	}{
		{name: "info to stdout", output: OutputStdout, level: LevelInfo, msg: "cache swept"},
		{name: "warn to stdout", output: OutputStdout, level: LevelWarn, msg: "retrying request"},
		{name: "error to stdout", output: OutputStdout, level: LevelError, msg: "request failed", err: errors.New("boom")},
		{name: "info to stderr", output: OutputStderr, level: LevelInfo, msg: "cache swept"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := captureOutput(t, tt.output, func() {
				logger, closer := NewLogger(&Config{Output: tt.output, Format: FormatJSON, Level: LevelInfo})
				switch tt.level {
				case LevelInfo:
					logger.Info(tt.msg)
				case LevelWarn:
					logger.Warn(tt.msg)
				case LevelError:
					logger.Error(tt.msg, Error(tt.err))
				}
				closer()
			})

			var entry map[string]interface{}
			require.NoError(t, json.Unmarshal(out, &entry))
			require.Equal(t, string(tt.level), entry["level"])
			require.Equal(t, tt.msg, entry["msg"])
			require.Equal(t, os.Getpid(), int(entry["pid"].(float64)))
			if tt.err != nil {
				require.Equal(t, tt.err.Error(), entry["error"])
			}
		})
	}
}

func TestLoggerTextFormat(t *testing.T) {
	out := captureOutput(t, OutputStderr, func() {
		logger, closer := NewLogger(&Config{Output: OutputStderr, NoColor: true, Format: FormatText, Level: LevelInfo})
		logger.AtLevel(LevelError, func(logFunc LogFunc) {
			logFunc("request failed", Error(errors.New("some error")))
		})
		logger.Debug("must be filtered out")
		closer()
	})

	require.Contains(t, string(out), `|ERRO|`)
	require.Contains(t, string(out), ` request failed `)
	require.Contains(t, string(out), `error="some error"`)
	require.Contains(t, string(out), fmt.Sprintf(`pid=%d`, os.Getpid()))
	require.NotContains(t, string(out), "must be filtered out")
}

func TestLoggerWithLevel(t *testing.T) {
	out := captureOutput(t, OutputStdout, func() {
		logger, closer := NewLogger(&Config{Output: OutputStdout, Format: FormatJSON, Level: LevelDebug})
		logger.WithLevel(LevelWarn).Info("dropped")
		logger.With(String("key", "GET /products")).Warnf("retry %d", 1)
		closer()
	})

	require.NotContains(t, string(out), "dropped")
	require.Contains(t, string(out), `"msg":"retry 1"`)
	require.Contains(t, string(out), `"key":"GET /products"`)
}
