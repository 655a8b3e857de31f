// FilePath: internal/hubservice/hubservice.telemetry.go
package hubservice

import (
	"context"
	"time"

	"github.com/segmentio/ksuid"
	nuts "github.com/vaudience/go-nuts"

	"github.com/deepsea-systems/rovhub/internal/errors"
	"github.com/deepsea-systems/rovhub/internal/models"
	"github.com/deepsea-systems/rovhub/internal/repository"
)

// IngestSamples validates and stores one batch of navigation samples for a
// mission. Ids and UTC normalization are applied here; the batch commits as
// a whole. Returns the ingestion batch id for log correlation.
func (s *HubService) IngestSamples(ctx context.Context, missionID string, samples []models.NavSample) (string, error) {
	batchID := ksuid.New().String()
	if len(samples) == 0 {
		return batchID, nil
	}

	// One existence check for the whole batch instead of per-row validation;
	// samples carry no other foreign keys.
	if _, err := s.Missions.Get(ctx, missionID); err != nil {
		return "", err
	}

	for i := range samples {
		samples[i].MissionID = missionID
		if samples[i].ID == "" {
			samples[i].ID = nuts.NID("nav", 16)
		}
		samples[i].Timestamp = samples[i].Timestamp.UTC()
	}

	if err := s.NavSamples.InsertBatch(ctx, samples); err != nil {
		return "", err
	}
	nuts.L.Infof("[TelemetryService] Ingested %d sample(s) for mission %s (batch %s)", len(samples), missionID, batchID)
	return batchID, nil
}

// SampleSequence is a finite, re-iterable range query result: every call to
// All re-executes the query and reflects a consistent read at that moment.
// Callers needing one snapshot across several queries must wrap them in a
// transaction themselves.
type SampleSequence struct {
	repo  repository.NavSampleRepository
	query models.SampleRange
}

// All executes the range query and returns the matching samples, ordered
// ascending by the queried field.
func (q *SampleSequence) All(ctx context.Context) ([]models.NavSample, error) {
	return q.repo.Range(ctx, q.query)
}

// RangeQuery builds a re-iterable range query over an indexed NavSample
// attribute (yaw_deg, depth_m, roll_deg, pitch_deg), bounds inclusive,
// optionally scoped to one mission.
func (s *HubService) RangeQuery(query models.SampleRange) *SampleSequence {
	return &SampleSequence{repo: s.NavSamples, query: query}
}

// SamplesBetween returns a mission's samples in [start, end], time-ordered.
func (s *HubService) SamplesBetween(ctx context.Context, missionID string, start, end time.Time) ([]models.NavSample, error) {
	return s.NavSamples.TimeRange(ctx, missionID, start, end)
}

// RecentSamples returns the newest n samples for a mission.
func (s *HubService) RecentSamples(ctx context.Context, missionID string, n int) ([]models.NavSample, error) {
	if n <= 0 || n > 1000 {
		n = 100
	}
	return s.NavSamples.Recent(ctx, missionID, n)
}

// NearestSample returns the navigation sample closest in time to at for a
// mission; the media pipeline uses it to annotate assets with pose/depth.
func (s *HubService) NearestSample(ctx context.Context, missionID string, at time.Time) (*models.NavSample, error) {
	return s.NavSamples.Nearest(ctx, missionID, at)
}

// AnnotateMedia correlates each asset with the nearest navigation sample of
// its mission. Assets for missions without samples come back unannotated.
func (s *HubService) AnnotateMedia(ctx context.Context, assets []models.MediaAsset) ([]models.AnnotatedMedia, error) {
	out := make([]models.AnnotatedMedia, 0, len(assets))
	for _, asset := range assets {
		sample, err := s.NavSamples.Nearest(ctx, asset.MissionID, asset.Timestamp)
		if err != nil {
			if errors.IsNotFound(err) {
				out = append(out, models.AnnotatedMedia{Asset: asset})
				continue
			}
			return nil, err
		}
		out = append(out, models.AnnotatedMedia{Asset: asset, Sample: sample})
	}
	return out, nil
}
