package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pocketsiem/pocketsiem/internal/siem/model"
)

// MemoryStore is an in-memory report store with the same query semantics as
// ReportRepository (inclusive range bounds, newest-first per-IP ordering).
// It backs the dev in-memory mode and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	reports []model.ThreatReport
	now     func() time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

// SetClock overrides the clock used to assign ReportedAt/CreatedAt.
// Tests use this to append reports at controlled instants.
func (m *MemoryStore) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

// Append stores a copy of the report, assigning ID and timestamps.
func (m *MemoryStore) Append(_ context.Context, report *model.ThreatReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	report.ID = uuid.New()
	now := m.now().UTC()
	report.ReportedAt = now
	report.CreatedAt = now
	m.reports = append(m.reports, *report)
	return nil
}

// FindByIP returns reports for ip ordered by ReportedAt descending.
func (m *MemoryStore) FindByIP(_ context.Context, ip string) ([]model.ThreatReport, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []model.ThreatReport
	for _, r := range m.reports {
		if r.TargetIP == ip {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ReportedAt.After(out[j].ReportedAt)
	})
	return out, nil
}

// FindByApp returns reports for appName in insertion order.
func (m *MemoryStore) FindByApp(_ context.Context, appName string) ([]model.ThreatReport, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []model.ThreatReport
	for _, r := range m.reports {
		if r.AppName == appName {
			out = append(out, r)
		}
	}
	return out, nil
}

// CountSince counts reports for ip with ReportedAt >= since.
func (m *MemoryStore) CountSince(_ context.Context, ip string, since time.Time) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, r := range m.reports {
		if r.TargetIP == ip && !r.ReportedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

// FindSince returns reports with ReportedAt >= since.
func (m *MemoryStore) FindSince(_ context.Context, since time.Time) ([]model.ThreatReport, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []model.ThreatReport
	for _, r := range m.reports {
		if !r.ReportedAt.Before(since) {
			out = append(out, r)
		}
	}
	return out, nil
}

// FindInRange returns reports with start <= ReportedAt <= end, ascending.
func (m *MemoryStore) FindInRange(_ context.Context, start, end time.Time) ([]model.ThreatReport, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []model.ThreatReport
	for _, r := range m.reports {
		if !r.ReportedAt.Before(start) && !r.ReportedAt.After(end) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ReportedAt.Before(out[j].ReportedAt)
	})
	return out, nil
}

// Len returns the number of stored reports.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.reports)
}
