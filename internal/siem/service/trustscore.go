package service

import (
	"context"
	"fmt"
	"time"

	"github.com/pocketsiem/pocketsiem/internal/siem/model"
	"go.uber.org/zap"
)

// trustScoreWindow is the trailing window the trust score is computed over.
const trustScoreWindow = 24 * time.Hour

// Severity bucket thresholds. Reports below severitySuspicious fall into
// no bucket at all.
const (
	severityCritical   = 75
	severityHigh       = 50
	severitySuspicious = 25
)

// Dashboard placeholders until the VPN agent feeds real figures.
const (
	placeholderAppsMonitored  = 25
	placeholderDataUsageBytes = int64(512 << 20)
)

// DeviceStats computes the device trust score and severity-bucket counts
// over reports from the trailing 24 hours.
//
// trust = max(0, 100 - floor(S / max(1, N))) where S is the severity sum
// and N the report count. max(1, N) makes the empty window well defined:
// no reports yields a score of 100. Severity values are not clamped, so
// out-of-range inputs flow through the arithmetic as-is.
func (s *ThreatService) DeviceStats(ctx context.Context) (*model.DeviceStats, error) {
	since := s.now().Add(-trustScoreWindow)
	reports, err := s.store.FindSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("load recent reports: %w", err)
	}

	severitySum := 0
	var critical, high, suspicious int
	for _, r := range reports {
		severitySum += r.UserSeverity
		switch {
		case r.UserSeverity >= severityCritical:
			critical++
		case r.UserSeverity >= severityHigh:
			high++
		case r.UserSeverity >= severitySuspicious:
			suspicious++
		}
	}

	n := len(reports)
	trust := 100 - severitySum/max(1, n)
	if trust < 0 {
		trust = 0
	}

	s.logger.Debug("device stats computed",
		zap.Int("reports", n),
		zap.Int("trust_score", trust),
	)

	return &model.DeviceStats{
		DeviceTrustScore:      trust,
		AppsMonitored:         placeholderAppsMonitored,
		ThreatsBlocked:        n,
		DataUsageBytes:        placeholderDataUsageBytes,
		CriticalThreats:       critical,
		HighThreats:           high,
		SuspiciousConnections: suspicious,
	}, nil
}
