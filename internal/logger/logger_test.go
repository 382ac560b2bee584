package logger

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestLogger() (*logrus.Logger, *bytes.Buffer) {
	log := logrus.New()
	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.DebugLevel)
	return log, buf
}

func parseLogOutput(buf *bytes.Buffer) map[string]interface{} {
	var logEntry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		return nil
	}
	return logEntry
}

func TestNewLogger(t *testing.T) {
	log := NewLogger("debug", "production")
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, log.Formatter)

	log = NewLogger("bogus", "development")
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, log.Formatter)
}

func TestEngineLoggerPick(t *testing.T) {
	log, buf := setupTestLogger()
	engineLogger := NewEngineLogger(log)

	engineLogger.LogPick(1001, 42, "Over 1.5", 0.81)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "engine", logEntry["component"])
	assert.Equal(t, "Over 1.5", logEntry["market_label"])
	assert.Equal(t, float64(1001), logEntry["fixture_id"])
}

func TestEngineLoggerNoPick(t *testing.T) {
	log, buf := setupTestLogger()
	NewEngineLogger(log).LogNoPick(1001, 42, "no-bet", "1X", 0.6)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "no-bet", logEntry["status"])
}

func TestEngineLoggerTrialIsDebug(t *testing.T) {
	log, buf := setupTestLogger()
	log.SetLevel(logrus.InfoLevel)

	NewEngineLogger(log).LogTrial("run-1", "league:39", 3, 40, 0.82, 0.4, true)
	assert.Empty(t, buf.String())
}

func TestEngineLoggerOptimization(t *testing.T) {
	log, buf := setupTestLogger()
	NewEngineLogger(log).LogOptimization("run-1", "team:39:42", 31, 0, false, true, 120)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "warning", logEntry["level"])
	assert.Equal(t, true, logEntry["truncated"])
}

func TestEngineLoggerReplayAndCalibration(t *testing.T) {
	log, buf := setupTestLogger()
	engineLogger := NewEngineLogger(log)

	engineLogger.LogReplayCompleted(380, 2, 120, 0.8, 0.32, 15)
	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, float64(120), logEntry["picks"])

	buf.Reset()
	engineLogger.LogCalibration(39, 2023, "Under 3.5", 1.03, 140)
	logEntry = parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "Under 3.5", logEntry["market_line"])
}

func TestAuditLoggerSettingsStored(t *testing.T) {
	log, buf := setupTestLogger()
	auditLogger := NewAuditLogger(log)

	auditLogger.LogSettingsStored("run-1", "team:39:42", "abc123", true, 25, 0.84, 0.4, time.Unix(1700000000, 0))

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "audit", logEntry["component"])
	assert.Equal(t, "abc123", logEntry["settings_hash"])
	assert.Equal(t, float64(1700000000), logEntry["timestamp"])
}
