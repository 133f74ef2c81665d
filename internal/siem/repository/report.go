// Package repository provides persistence for threat reports. The primary
// implementation runs against PostgreSQL; an in-memory implementation with
// identical semantics backs tests and the dev in-memory mode.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pocketsiem/pocketsiem/internal/siem/model"
)

// ReportRepository stores and queries threat reports in PostgreSQL.
//
// Append assigns the report's identity and both timestamps; every query
// method pushes its filtering down into SQL so aggregation never loads the
// full report set into memory.
type ReportRepository struct {
	db *pgxpool.Pool
}

// NewReportRepository creates a new ReportRepository.
func NewReportRepository(db *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{db: db}
}

// Append persists a new report, assigning its ID, ReportedAt, and
// CreatedAt. Any durability failure surfaces to the caller; there is no
// partial-write state because the insert is a single statement.
func (r *ReportRepository) Append(ctx context.Context, report *model.ThreatReport) error {
	report.ID = uuid.New()
	now := time.Now().UTC()
	report.ReportedAt = now
	report.CreatedAt = now

	_, err := r.db.Exec(ctx, `
		INSERT INTO threat_reports (
			id, app_name, target_ip, protocol, description,
			device_id, user_severity, reported_at, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		report.ID, report.AppName, report.TargetIP, report.Protocol,
		report.Description, report.DeviceID, report.UserSeverity,
		report.ReportedAt, report.CreatedAt,
	)
	return err
}

// FindByIP returns all reports for the given target IP, newest first.
func (r *ReportRepository) FindByIP(ctx context.Context, ip string) ([]model.ThreatReport, error) {
	return r.query(ctx, `
		SELECT id, app_name, target_ip, protocol, description,
		       device_id, user_severity, reported_at, created_at
		FROM threat_reports
		WHERE target_ip = $1
		ORDER BY reported_at DESC`, ip)
}

// FindByApp returns all reports submitted for the given application.
func (r *ReportRepository) FindByApp(ctx context.Context, appName string) ([]model.ThreatReport, error) {
	return r.query(ctx, `
		SELECT id, app_name, target_ip, protocol, description,
		       device_id, user_severity, reported_at, created_at
		FROM threat_reports
		WHERE app_name = $1`, appName)
}

// CountSince counts reports for ip with reported_at >= since.
func (r *ReportRepository) CountSince(ctx context.Context, ip string, since time.Time) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM threat_reports
		WHERE target_ip = $1 AND reported_at >= $2`, ip, since,
	).Scan(&n)
	return n, err
}

// FindSince returns all reports with reported_at >= since.
func (r *ReportRepository) FindSince(ctx context.Context, since time.Time) ([]model.ThreatReport, error) {
	return r.query(ctx, `
		SELECT id, app_name, target_ip, protocol, description,
		       device_id, user_severity, reported_at, created_at
		FROM threat_reports
		WHERE reported_at >= $1`, since)
}

// FindInRange returns reports with start <= reported_at <= end, ascending.
// Both bounds are inclusive: a report exactly on a bucket boundary appears
// in the ranges on either side of it.
func (r *ReportRepository) FindInRange(ctx context.Context, start, end time.Time) ([]model.ThreatReport, error) {
	return r.query(ctx, `
		SELECT id, app_name, target_ip, protocol, description,
		       device_id, user_severity, reported_at, created_at
		FROM threat_reports
		WHERE reported_at BETWEEN $1 AND $2
		ORDER BY reported_at ASC`, start, end)
}

func (r *ReportRepository) query(ctx context.Context, sql string, args ...any) ([]model.ThreatReport, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []model.ThreatReport
	for rows.Next() {
		rep, err := scan(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, rep)
	}
	return reports, rows.Err()
}

func scan(rows pgx.Rows) (model.ThreatReport, error) {
	var rep model.ThreatReport
	err := rows.Scan(
		&rep.ID, &rep.AppName, &rep.TargetIP, &rep.Protocol,
		&rep.Description, &rep.DeviceID, &rep.UserSeverity,
		&rep.ReportedAt, &rep.CreatedAt,
	)
	return rep, err
}
