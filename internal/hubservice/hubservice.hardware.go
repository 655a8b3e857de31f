// FilePath: internal/hubservice/hubservice.hardware.go
package hubservice

import (
	"context"
	"time"

	nuts "github.com/vaudience/go-nuts"

	"github.com/deepsea-systems/rovhub/internal/database"
	"github.com/deepsea-systems/rovhub/internal/errors"
	"github.com/deepsea-systems/rovhub/internal/models"
	"github.com/deepsea-systems/rovhub/internal/schema"
)

// ActivateConfiguration commits a new hardware configuration as the active
// one for its rover name. If an active row exists it is superseded and the
// new row inserted inside one transaction, so the one-active-per-name
// invariant holds at every commit boundary. When two activations for the
// same name race, the partial unique index fails the loser with a unique
// constraint violation instead of leaving two active rows.
func (s *HubService) ActivateConfiguration(ctx context.Context, hw *models.RoverHardware) error {
	if hw.ID == "" {
		hw.ID = nuts.NID("rhw", 12)
	}
	if hw.EffectiveFrom.IsZero() {
		hw.EffectiveFrom = time.Now().UTC()
	}
	hw.EffectiveFrom = hw.EffectiveFrom.UTC()
	if hw.CreatedAt.IsZero() {
		hw.CreatedAt = time.Now().UTC()
	}
	hw.CreatedAt = hw.CreatedAt.UTC()
	hw.Active = true

	if err := s.Engine.Validate(ctx, schema.RoverHardware, hw); err != nil {
		return err
	}

	tx, err := s.Hardware.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	superseded, err := s.Hardware.DeactivateActive(ctx, tx, hw.Name, hw.ID)
	if err != nil {
		return err
	}
	if err := s.Hardware.Insert(ctx, tx, hw); err != nil {
		return err
	}
	// Re-check the partial-uniqueness predicate before commit; the index is
	// the backstop for backends where this read is not serialized.
	if err := s.Engine.CheckUnique(ctx, tx, schema.RoverHardware, hw); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		if database.IsUniqueViolation(err) {
			return errors.NewUniqueConstraintError(schema.RoverHardware, "name", "active", err)
		}
		return errors.NewDatabaseError("failed to commit activation", err)
	}

	s.Cache.InvalidateActiveConfig(ctx, hw.Name)
	s.Cache.SetActiveConfig(ctx, hw)

	if superseded > 0 {
		nuts.L.Infof("[HardwareService] Activated %s for %q, superseded %d previous configuration(s)", hw.ID, hw.Name, superseded)
	} else {
		nuts.L.Infof("[HardwareService] Activated %s as first configuration for %q", hw.ID, hw.Name)
	}
	return nil
}

// DeactivateConfiguration moves an active configuration to superseded
// without activating a replacement. Fails when the row is already
// superseded.
func (s *HubService) DeactivateConfiguration(ctx context.Context, id string) error {
	hw, err := s.Hardware.Get(ctx, id)
	if err != nil {
		return err
	}
	n, err := s.Hardware.Deactivate(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.NewValidationError("configuration is already superseded", nil).
			WithEntity(schema.RoverHardware).WithField("active")
	}
	s.Cache.InvalidateActiveConfig(ctx, hw.Name)
	nuts.L.Infof("[HardwareService] Deactivated configuration %s for %q", id, hw.Name)
	return nil
}

// ActiveConfiguration returns the currently active configuration for a
// rover name, read through the cache when one is attached.
func (s *HubService) ActiveConfiguration(ctx context.Context, name string) (*models.RoverHardware, error) {
	if hw := s.Cache.GetActiveConfig(ctx, name); hw != nil {
		return hw, nil
	}
	hw, err := s.Hardware.GetActive(ctx, name)
	if err != nil {
		return nil, err
	}
	s.Cache.SetActiveConfig(ctx, hw)
	return hw, nil
}

// ConfigurationAt answers "what configuration was in effect at time at" from
// the retained history.
func (s *HubService) ConfigurationAt(ctx context.Context, name string, at time.Time) (*models.RoverHardware, error) {
	return s.Hardware.ActiveAt(ctx, name, at)
}

// ConfigurationHistory returns all configurations for a rover name, newest
// effective_from first. Superseded rows are never deleted.
func (s *HubService) ConfigurationHistory(ctx context.Context, name string) ([]*models.RoverHardware, error) {
	return s.Hardware.History(ctx, name)
}
