/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package logtest

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MartinBugar/martyx-industries-fe-sub001/log"
)

func TestRecorder(t *testing.T) {
	logRecorder := NewRecorder()
	logRecorder.Warn("retrying request", log.Int("attempt", 2), log.String("method", "GET"))
	logRecorder.With(log.String("key", "k1")).Info("joined in-flight request")
	logRecorder.Debugf("retrying request %d", 3)

	require.Len(t, logRecorder.Entries(), 3)

	_, found := logRecorder.FindEntry("foobar")
	require.False(t, found)

	logEntry, found := logRecorder.FindEntry("retrying request")
	require.True(t, found)
	require.Equal(t, log.LevelWarn, logEntry.Level)

	attemptField, found := logEntry.FindField("attempt")
	require.True(t, found)
	require.Equal(t, 2, int(attemptField.Int))

	methodField, found := logEntry.FindField("method")
	require.True(t, found)
	require.Equal(t, "GET", string(methodField.Bytes))

	joinEntry, found := logRecorder.FindEntry("joined in-flight request")
	require.True(t, found)
	_, found = joinEntry.FindField("key")
	require.True(t, found)

	require.Len(t, logRecorder.FindEntriesWithPrefix("retrying request"), 2)

	logRecorder.Reset()
	require.Empty(t, logRecorder.Entries())
}
