// Package service contains the threat-analysis business logic: report
// ingestion, reputation checks, and the aggregations that feed the device
// dashboard.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/pocketsiem/pocketsiem/internal/reputation"
	"github.com/pocketsiem/pocketsiem/internal/siem/model"
	"go.uber.org/zap"
)

// defaultProviderTimeout bounds the external reputation lookup, the one
// call in the system with external-latency risk.
const defaultProviderTimeout = 5 * time.Second

// ReportStore is the persistence interface consumed by the threat service.
// *repository.ReportRepository and *repository.MemoryStore satisfy it.
//
// Append assigns the report's identity and timestamps. FindInRange treats
// both bounds as inclusive and returns ascending order; FindByIP returns
// newest first.
type ReportStore interface {
	Append(ctx context.Context, report *model.ThreatReport) error
	FindByIP(ctx context.Context, ip string) ([]model.ThreatReport, error)
	FindByApp(ctx context.Context, appName string) ([]model.ThreatReport, error)
	CountSince(ctx context.Context, ip string, since time.Time) (int, error)
	FindSince(ctx context.Context, since time.Time) ([]model.ThreatReport, error)
	FindInRange(ctx context.Context, start, end time.Time) ([]model.ThreatReport, error)
}

// ReputationChecker answers reputation queries. *reputation.Cache satisfies it.
type ReputationChecker interface {
	Get(ctx context.Context, ip string) (*reputation.Record, error)
}

// ThreatService coordinates the report store, the reputation cache, and the
// aggregation logic. Every operation runs to completion within the call
// that invoked it; the service holds no state of its own beyond injected
// collaborators.
type ThreatService struct {
	store           ReportStore
	rep             ReputationChecker
	providerTimeout time.Duration
	now             func() time.Time
	logger          *zap.Logger
}

// NewThreatService creates a ThreatService.
func NewThreatService(store ReportStore, rep ReputationChecker, logger *zap.Logger) *ThreatService {
	return &ThreatService{
		store:           store,
		rep:             rep,
		providerTimeout: defaultProviderTimeout,
		now:             time.Now,
		logger:          logger,
	}
}

// SetProviderTimeout overrides the reputation lookup timeout.
func (s *ThreatService) SetProviderTimeout(d time.Duration) {
	if d > 0 {
		s.providerTimeout = d
	}
}

// SetClock overrides the clock used to anchor aggregation windows.
func (s *ThreatService) SetClock(now func() time.Time) {
	s.now = now
}

// CheckReputation returns the reputation verdict for ip, consulting the
// cache first. The lookup is bounded by the provider timeout; a timeout
// surfaces as an error and is never cached, so a later call retries.
// The caller boundary is responsible for IP syntax validation.
func (s *ThreatService) CheckReputation(ctx context.Context, ip string) (*reputation.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, s.providerTimeout)
	defer cancel()

	s.logger.Info("checking reputation", zap.String("ip", ip))
	return s.rep.Get(ctx, ip)
}

// SubmitReport persists a new threat report. UserSeverity defaults to 0
// when absent; values outside 0-100 are stored unclamped. Each call
// creates a new row, so repeated identical submissions produce repeated
// rows.
func (s *ThreatService) SubmitReport(ctx context.Context, req *model.ReportRequest) (*model.ThreatReport, error) {
	if !model.ValidIP(req.TargetIP) {
		return nil, &model.ErrValidation{Msg: "invalid target IP address"}
	}

	severity := 0
	if req.UserSeverity != nil {
		severity = *req.UserSeverity
	}

	report := &model.ThreatReport{
		AppName:      req.AppName,
		TargetIP:     req.TargetIP,
		Protocol:     req.Protocol,
		Description:  req.Description,
		DeviceID:     req.DeviceID,
		UserSeverity: severity,
	}
	if err := s.store.Append(ctx, report); err != nil {
		return nil, fmt.Errorf("append report: %w", err)
	}

	s.logger.Info("threat report stored",
		zap.String("app", report.AppName),
		zap.String("target_ip", report.TargetIP),
		zap.Int("severity", report.UserSeverity),
	)
	return report, nil
}

// ReportsForIP returns all reports for ip, newest first.
func (s *ThreatService) ReportsForIP(ctx context.Context, ip string) ([]model.ThreatReport, error) {
	return s.store.FindByIP(ctx, ip)
}

// ReportsForApp returns all reports submitted for appName.
func (s *ThreatService) ReportsForApp(ctx context.Context, appName string) ([]model.ThreatReport, error) {
	return s.store.FindByApp(ctx, appName)
}

// RecentReportCount counts reports for ip within the trailing 24 hours.
func (s *ThreatService) RecentReportCount(ctx context.Context, ip string) (int, error) {
	since := s.now().Add(-trustScoreWindow)
	return s.store.CountSince(ctx, ip, since)
}
