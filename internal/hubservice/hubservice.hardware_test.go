// FilePath: internal/hubservice/hubservice.hardware_test.go
package hubservice_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deepsea-systems/rovhub/internal/errors"
	"github.com/deepsea-systems/rovhub/internal/models"
)

func TestActivateConfigurationSupersedesPrevious(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	t0 := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)

	first := &models.RoverHardware{
		Name:           "bluerov2",
		EffectiveFrom:  t0,
		HardwareConfig: models.JSON{"firmware": "4.1.0"},
	}
	require.NoError(t, svc.ActivateConfiguration(ctx, first))
	assert.Equal(t, models.HardwareActive, first.State())

	second := &models.RoverHardware{
		Name:           "bluerov2",
		EffectiveFrom:  t0.Add(24 * time.Hour),
		HardwareConfig: models.JSON{"firmware": "4.2.1"},
	}
	require.NoError(t, svc.ActivateConfiguration(ctx, second))

	active, err := svc.ActiveConfiguration(ctx, "bluerov2")
	require.NoError(t, err)
	assert.Equal(t, second.ID, active.ID)
	assert.Equal(t, "4.2.1", active.HardwareConfig["firmware"])

	history, err := svc.ConfigurationHistory(ctx, "bluerov2")
	require.NoError(t, err)
	require.Len(t, history, 2)

	activeCount := 0
	for _, hw := range history {
		if hw.Active {
			activeCount++
		}
	}
	assert.Equal(t, 1, activeCount)

	// The superseded row is retained, not deleted.
	old, err := svc.Hardware.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, old.Active)
	assert.Equal(t, models.HardwareSuperseded, old.State())
}

func TestActivateConfigurationPerNameIsolation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	a := &models.RoverHardware{Name: "bluerov2"}
	b := &models.RoverHardware{Name: "falcon"}
	require.NoError(t, svc.ActivateConfiguration(ctx, a))
	require.NoError(t, svc.ActivateConfiguration(ctx, b))

	// Different names do not supersede each other.
	gotA, err := svc.ActiveConfiguration(ctx, "bluerov2")
	require.NoError(t, err)
	assert.Equal(t, a.ID, gotA.ID)

	gotB, err := svc.ActiveConfiguration(ctx, "falcon")
	require.NoError(t, err)
	assert.Equal(t, b.ID, gotB.ID)
}

func TestDeactivateConfiguration(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	hw := &models.RoverHardware{Name: "bluerov2"}
	require.NoError(t, svc.ActivateConfiguration(ctx, hw))
	require.NoError(t, svc.DeactivateConfiguration(ctx, hw.ID))

	_, err := svc.ActiveConfiguration(ctx, "bluerov2")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))

	// Deactivating an already superseded row is rejected.
	err = svc.DeactivateConfiguration(ctx, hw.ID)
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
}

func TestConfigurationAtTimeTravel(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	t0 := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	t1 := t0.AddDate(0, 1, 0)

	v1 := &models.RoverHardware{
		Name:           "bluerov2",
		EffectiveFrom:  t0,
		HardwareConfig: models.JSON{"firmware": "4.1.0"},
	}
	require.NoError(t, svc.ActivateConfiguration(ctx, v1))

	v2 := &models.RoverHardware{
		Name:           "bluerov2",
		EffectiveFrom:  t1,
		HardwareConfig: models.JSON{"firmware": "4.2.1"},
	}
	require.NoError(t, svc.ActivateConfiguration(ctx, v2))

	// Mid-June still resolves to the first configuration.
	got, err := svc.ConfigurationAt(ctx, "bluerov2", t0.AddDate(0, 0, 14))
	require.NoError(t, err)
	assert.Equal(t, v1.ID, got.ID)

	got, err = svc.ConfigurationAt(ctx, "bluerov2", t1.AddDate(0, 0, 14))
	require.NoError(t, err)
	assert.Equal(t, v2.ID, got.ID)

	// Before any configuration existed.
	_, err = svc.ConfigurationAt(ctx, "bluerov2", t0.AddDate(0, 0, -1))
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestActivateConfigurationValidation(t *testing.T) {
	svc := newTestService(t)

	err := svc.ActivateConfiguration(context.Background(), &models.RoverHardware{})
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
}
