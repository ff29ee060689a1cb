package models

import "time"

// AgentStatus is the scheduler's single live state.
type AgentStatus string

const (
	StatusIdle        AgentStatus = "IDLE"
	StatusScanningHTF AgentStatus = "SCANNING_HTF"
	StatusScanningMTF AgentStatus = "SCANNING_MTF"
	StatusScanningLTF AgentStatus = "SCANNING_LTF"
	StatusAnalyzing   AgentStatus = "ANALYZING"
	StatusExecuting   AgentStatus = "EXECUTING"
	StatusCooldown    AgentStatus = "COOLDOWN"
)

// LogSeverity classifies agent log entries for display.
type LogSeverity string

const (
	SeverityInfo    LogSeverity = "INFO"
	SeveritySuccess LogSeverity = "SUCCESS"
	SeverityWarning LogSeverity = "WARNING"
	SeverityError   LogSeverity = "ERROR"
)

// AgentLogEntry is one line of the scheduler's audit trail. Entries are
// observational only and never read back into decision logic.
type AgentLogEntry struct {
	ID        string      `json:"id"`
	Timestamp time.Time   `json:"timestamp"`
	Message   string      `json:"message"`
	Severity  LogSeverity `json:"severity"`
}
