// Package logger provides audit logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// AuditLogger provides dedicated audit trail logging for persisted settings.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogSettingsStored logs persisted settings for a scope.
func (al *AuditLogger) LogSettingsStored(runID, scope, settingsHash string, meetsCriteria bool, picks int, hitRate, coverage float64, timestamp time.Time) {
	al.WithFields(logrus.Fields{
		"run_id":         runID,
		"scope":          scope,
		"settings_hash":  settingsHash,
		"meets_criteria": meetsCriteria,
		"picks":          picks,
		"hit_rate":       hitRate,
		"coverage":       coverage,
		"timestamp":      timestamp.Unix(),
	}).Info("Settings stored")
}

// LogSettingsChange logs a change of settings fingerprint for a scope.
func (al *AuditLogger) LogSettingsChange(scope, oldHash, newHash string) {
	al.WithFields(logrus.Fields{
		"scope":    scope,
		"old_hash": oldHash,
		"new_hash": newHash,
	}).Info("Settings changed")
}
