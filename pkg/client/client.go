// Package client is a small Go SDK for the pocketSIEM HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Reputation is the verdict returned by CheckReputation.
type Reputation struct {
	IP          string `json:"ip"`
	RiskScore   int    `json:"risk_score"`
	Category    string `json:"category"`
	IsMalicious bool   `json:"is_malicious"`
	Source      string `json:"source"`
}

// Report mirrors a stored threat report.
type Report struct {
	ID           string    `json:"id"`
	AppName      string    `json:"app_name"`
	TargetIP     string    `json:"target_ip"`
	Protocol     string    `json:"protocol,omitempty"`
	Description  string    `json:"description,omitempty"`
	DeviceID     string    `json:"device_id"`
	UserSeverity int       `json:"user_severity"`
	ReportedAt   time.Time `json:"reported_at"`
	CreatedAt    time.Time `json:"created_at"`
}

// ReportRequest is the payload for SubmitReport.
type ReportRequest struct {
	AppName      string `json:"app_name"`
	TargetIP     string `json:"target_ip"`
	Protocol     string `json:"protocol,omitempty"`
	Description  string `json:"description,omitempty"`
	DeviceID     string `json:"device_id"`
	UserSeverity *int   `json:"user_severity,omitempty"`
}

// DeviceStats is the aggregate returned by DeviceStats.
type DeviceStats struct {
	DeviceTrustScore      int   `json:"device_trust_score"`
	AppsMonitored         int   `json:"apps_monitored"`
	ThreatsBlocked        int   `json:"threats_blocked"`
	DataUsageBytes        int64 `json:"data_usage_bytes"`
	CriticalThreats       int   `json:"critical_threats"`
	HighThreats           int   `json:"high_threats"`
	SuspiciousConnections int   `json:"suspicious_connections"`
}

// AttackSurfacePoint is one bucket of the attack-surface series.
type AttackSurfacePoint struct {
	Timestamp      int64  `json:"timestamp"`
	TimeLabel      string `json:"time_label"`
	ThreatCount    int    `json:"threat_count"`
	NetworkTraffic int64  `json:"network_traffic"`
}

// Client talks to a pocketSIEM server.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Option is a functional option for configuring a Client.
type Option func(*Client)

// WithAPIKey sets the X-API-Key header sent with every request.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithHTTPClient sets a custom http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a Client for the server at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CheckReputation fetches the reputation verdict for ip.
func (c *Client) CheckReputation(ctx context.Context, ip string) (*Reputation, error) {
	var rec Reputation
	path := "/api/v1/reputation?ip=" + url.QueryEscape(ip)
	if err := c.do(ctx, http.MethodGet, path, nil, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// SubmitReport submits a new threat report.
func (c *Client) SubmitReport(ctx context.Context, req *ReportRequest) (*Report, error) {
	var rep Report
	if err := c.do(ctx, http.MethodPost, "/api/v1/report", req, &rep); err != nil {
		return nil, err
	}
	return &rep, nil
}

// ReportsForIP fetches all reports for ip, newest first.
func (c *Client) ReportsForIP(ctx context.Context, ip string) ([]Report, error) {
	var reports []Report
	path := "/api/v1/reports/ip/" + url.PathEscape(ip)
	if err := c.do(ctx, http.MethodGet, path, nil, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

// DeviceStats fetches the device trust score and threat buckets.
func (c *Client) DeviceStats(ctx context.Context) (*DeviceStats, error) {
	var stats DeviceStats
	if err := c.do(ctx, http.MethodGet, "/api/v1/device-stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// AttackSurface fetches the 12-point attack-surface series.
func (c *Client) AttackSurface(ctx context.Context) ([]AttackSurfacePoint, error) {
	var points []AttackSurfacePoint
	if err := c.do(ctx, http.MethodGet, "/api/v1/attack-surface", nil, &points); err != nil {
		return nil, err
	}
	return points, nil
}

// do performs one JSON request/response round trip.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rdr io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		rdr = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Error string `json:"error"`
		}
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s %s: %s (HTTP %d)", method, path, apiErr.Error, resp.StatusCode)
		}
		return fmt.Errorf("%s %s: HTTP %d", method, path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
