// Package provider supplies per-timeframe market snapshots to the capture
// orchestrator. Implementations switch their visible timeframe on command
// and hand out immutable snapshots when ready.
package provider

import "github.com/dyike/ChartPilotGo/internal/models"

// SnapshotProvider is the chart/snapshot capability. SetTimeframe is a
// side-effecting command with no synchronous result; IsReady reports
// whether live data exists for the current timeframe; Snapshot returns nil
// when no snapshot is available.
type SnapshotProvider interface {
	SetTimeframe(label string)
	IsReady() bool
	Snapshot() *models.MarketSnapshot
}
