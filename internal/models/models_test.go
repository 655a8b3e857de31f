// FilePath: internal/models/models_test.go
package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONRoundTrip(t *testing.T) {
	in := JSON{"firmware": "4.2.1", "thrusters": 6.0}

	val, err := in.Value()
	require.NoError(t, err)

	var fromBytes JSON
	require.NoError(t, fromBytes.Scan(val))
	assert.Equal(t, in, fromBytes)

	// SQLite hands back TEXT columns as string.
	var fromString JSON
	require.NoError(t, fromString.Scan(string(val.([]byte))))
	assert.Equal(t, in, fromString)
}

func TestDeploymentWindow(t *testing.T) {
	start := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)

	open := &SensorDeployment{StartTime: start}
	assert.False(t, open.IsActiveAt(start.Add(-time.Second)))
	assert.True(t, open.IsActiveAt(start))
	assert.True(t, open.IsActiveAt(start.Add(24*time.Hour)))

	closed := &SensorDeployment{StartTime: start, EndTime: &end}
	assert.True(t, closed.IsActiveAt(end.Add(-time.Second)))
	// Half-open: the end instant is outside the window.
	assert.False(t, closed.IsActiveAt(end))
}

func TestDeploymentOverlaps(t *testing.T) {
	start := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)
	d := &SensorDeployment{StartTime: start, EndTime: &end}

	later := end.Add(time.Hour)
	assert.True(t, d.Overlaps(start.Add(time.Hour), nil))
	assert.True(t, d.Overlaps(start.Add(-time.Hour), &later))
	// Touching windows do not overlap.
	assert.False(t, d.Overlaps(end, nil))
	assert.False(t, d.Overlaps(start.Add(-time.Hour), &start))

	openEnded := &SensorDeployment{StartTime: start}
	assert.True(t, openEnded.Overlaps(end.Add(240*time.Hour), nil))
	assert.False(t, openEnded.Overlaps(start.Add(-2*time.Hour), &start))
}

func TestRoverHardwareState(t *testing.T) {
	hw := &RoverHardware{}
	assert.Equal(t, HardwareDraft, hw.State())

	hw.ID = "rhw_1"
	hw.Active = true
	assert.Equal(t, HardwareActive, hw.State())

	hw.Active = false
	assert.Equal(t, HardwareSuperseded, hw.State())
}
