package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/pocketsiem/pocketsiem/internal/siem/model"
)

const (
	attackSurfacePoints = 12
	attackSurfaceStep   = 5 * time.Minute
)

// maxMockTrafficBytes bounds the placeholder traffic figure per bucket.
const maxMockTrafficBytes = 10 << 20

// AttackSurface produces the fixed 12-point, 5-minute-bucket time series
// covering the trailing hour, oldest bucket first. Each point's timestamp
// and label refer to the bucket's window end.
//
// Window bounds are inclusive on both ends, matching the store's range
// query: a report whose ReportedAt lands exactly on a bucket boundary is
// counted in both adjacent buckets. The traffic figure is a placeholder
// until the VPN agent reports real volumes.
func (s *ThreatService) AttackSurface(ctx context.Context) ([]model.AttackSurfacePoint, error) {
	now := s.now()
	points := make([]model.AttackSurfacePoint, 0, attackSurfacePoints)

	for i := attackSurfacePoints - 1; i >= 0; i-- {
		end := now.Add(-time.Duration(i) * attackSurfaceStep)
		start := end.Add(-attackSurfaceStep)

		reports, err := s.store.FindInRange(ctx, start, end)
		if err != nil {
			return nil, fmt.Errorf("query bucket ending %s: %w", end.Format("15:04"), err)
		}

		points = append(points, model.AttackSurfacePoint{
			Timestamp:      end.UnixMilli(),
			TimeLabel:      end.Format("15:04"),
			ThreatCount:    len(reports),
			NetworkTraffic: rand.Int63n(maxMockTrafficBytes),
		})
	}
	return points, nil
}
