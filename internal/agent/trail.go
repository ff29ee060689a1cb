package agent

import (
	"sync"

	"github.com/google/uuid"

	"github.com/dyike/ChartPilotGo/internal/models"
)

// maxTrailEntries bounds the audit trail; the oldest entries are dropped.
const maxTrailEntries = 50

// Trail is the scheduler's append-only audit log. Entries are observational
// and never feed back into decisions.
type Trail struct {
	mu      sync.Mutex
	entries []models.AgentLogEntry
	clock   Clock
}

// NewTrail creates an empty trail.
func NewTrail(clock Clock) *Trail {
	return &Trail{clock: clock}
}

// Append records a new entry, evicting the oldest past the cap.
func (t *Trail) Append(severity models.LogSeverity, message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = append(t.entries, models.AgentLogEntry{
		ID:        uuid.NewString(),
		Timestamp: t.clock.Now(),
		Message:   message,
		Severity:  severity,
	})
	if len(t.entries) > maxTrailEntries {
		t.entries = t.entries[len(t.entries)-maxTrailEntries:]
	}
}

// Entries returns a copy of the trail, oldest first.
func (t *Trail) Entries() []models.AgentLogEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]models.AgentLogEntry, len(t.entries))
	copy(out, t.entries)
	return out
}
