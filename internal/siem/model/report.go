// Package model defines the core domain types for the pocketSIEM backend:
// threat reports submitted by client devices and the aggregate views
// (device stats, attack-surface series) computed from them.
package model

import (
	"regexp"
	"time"

	"github.com/google/uuid"
)

// ThreatReport is one crowd-sourced observation of suspicious network
// activity, submitted by a client device and persisted by the report store.
// Reports are append-only: once stored they are never mutated or deleted.
type ThreatReport struct {
	ID          uuid.UUID `json:"id"`
	AppName     string    `json:"app_name"`
	TargetIP    string    `json:"target_ip"`
	Protocol    string    `json:"protocol,omitempty"`
	Description string    `json:"description,omitempty"`
	DeviceID    string    `json:"device_id"`

	// UserSeverity is the caller-supplied 0–100 threat rating. It is stored
	// and aggregated as-is, without clamping.
	UserSeverity int `json:"user_severity"`

	// ReportedAt is assigned by the store at submission time and is the key
	// all time-window aggregation runs against. Clients cannot supply it.
	ReportedAt time.Time `json:"reported_at"`

	// CreatedAt is the persistence timestamp, kept for audit only.
	CreatedAt time.Time `json:"created_at"`
}

// ReportRequest is the payload for submitting a new threat report.
type ReportRequest struct {
	AppName     string `json:"app_name"    binding:"required"`
	TargetIP    string `json:"target_ip"   binding:"required"`
	Protocol    string `json:"protocol"`
	Description string `json:"description"`
	DeviceID    string `json:"device_id"   binding:"required"`
	// UserSeverity defaults to 0 when absent from the request body.
	UserSeverity *int `json:"user_severity"`
}

// DeviceStats is the aggregate security posture of the reporting device,
// computed over the trailing 24-hour report window.
type DeviceStats struct {
	// DeviceTrustScore is 100 minus the average reported severity in the
	// window, floored at 0. An empty window yields 100: no evidence of
	// threats means maximal trust.
	DeviceTrustScore      int   `json:"device_trust_score"`
	AppsMonitored         int   `json:"apps_monitored"`
	ThreatsBlocked        int   `json:"threats_blocked"`
	DataUsageBytes        int64 `json:"data_usage_bytes"`
	CriticalThreats       int   `json:"critical_threats"`
	HighThreats           int   `json:"high_threats"`
	SuspiciousConnections int   `json:"suspicious_connections"`
}

// AttackSurfacePoint is one 5-minute bucket in the attack-surface chart.
type AttackSurfacePoint struct {
	// Timestamp is the bucket's window end in epoch milliseconds.
	Timestamp int64 `json:"timestamp"`
	// TimeLabel is the window end formatted as "HH:mm" for chart axes.
	TimeLabel      string `json:"time_label"`
	ThreatCount    int    `json:"threat_count"`
	NetworkTraffic int64  `json:"network_traffic"`
}

// Connection is one entry in the live connection monitor listing.
type Connection struct {
	AppName         string `json:"app_name"`
	AppPackage      string `json:"app_package"`
	DestinationIP   string `json:"destination_ip"`
	Port            int    `json:"port"`
	Protocol        string `json:"protocol"`
	Status          string `json:"status"` // SAFE, SUSPICIOUS, MALICIOUS
	DataTransferred int64  `json:"data_transferred"`
	Timestamp       int64  `json:"timestamp"`
}

// Connection status values.
const (
	ConnStatusSafe       = "SAFE"
	ConnStatusSuspicious = "SUSPICIOUS"
	ConnStatusMalicious  = "MALICIOUS"
)

var (
	ipv4Pattern = regexp.MustCompile(`^(?:[0-9]{1,3}\.){3}[0-9]{1,3}$`)
	ipv6Pattern = regexp.MustCompile(`^([0-9a-fA-F]{0,4}:){2,7}[0-9a-fA-F]{0,4}$`)
)

// ValidIP reports whether s is syntactically an IPv4 dotted-quad or IPv6
// colon-hex literal. This is a syntax check only; no normalization is
// performed, so "192.168.1.1" and "192.168.001.001" are both valid and
// remain distinct values everywhere downstream.
func ValidIP(s string) bool {
	return ipv4Pattern.MatchString(s) || ipv6Pattern.MatchString(s)
}

// ErrValidation is returned by service methods when the caller supplies
// invalid input. Handlers map it to HTTP 400.
type ErrValidation struct{ Msg string }

func (e *ErrValidation) Error() string { return e.Msg }
