package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pocketsiem/pocketsiem/pkg/client"
)

func TestCheckReputation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-API-Key"); got != "secret" {
			http.Error(w, `{"error":"invalid API key"}`, http.StatusUnauthorized)
			return
		}
		if r.URL.Path != "/api/v1/reputation" || r.URL.Query().Get("ip") != "185.220.101.4" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"ip":           "185.220.101.4",
			"risk_score":   85,
			"category":     "Malware",
			"is_malicious": true,
			"source":       "mock-intel",
		})
	}))
	defer srv.Close()

	c := client.New(srv.URL, client.WithAPIKey("secret"))
	rec, err := c.CheckReputation(context.Background(), "185.220.101.4")
	if err != nil {
		t.Fatal(err)
	}
	if !rec.IsMalicious || rec.RiskScore != 85 || rec.Source != "mock-intel" {
		t.Errorf("unexpected record %+v", rec)
	}
}

func TestSubmitReport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/report" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var req client.ReportRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatal(err)
		}
		if req.UserSeverity != nil {
			t.Errorf("expected omitted severity, got %d", *req.UserSeverity)
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(client.Report{
			ID:       "3f1d1a2e-0000-0000-0000-000000000000",
			AppName:  req.AppName,
			TargetIP: req.TargetIP,
			DeviceID: req.DeviceID,
		})
	}))
	defer srv.Close()

	c := client.New(srv.URL)
	rep, err := c.SubmitReport(context.Background(), &client.ReportRequest{
		AppName:  "com.example.app",
		TargetIP: "203.0.113.9",
		DeviceID: "device-9",
	})
	if err != nil {
		t.Fatal(err)
	}
	if rep.ID == "" || rep.TargetIP != "203.0.113.9" {
		t.Errorf("unexpected report %+v", rep)
	}
}

func TestErrorBodySurfaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(map[string]string{"error": "reputation provider unavailable"})
	}))
	defer srv.Close()

	c := client.New(srv.URL)
	_, err := c.CheckReputation(context.Background(), "203.0.113.1")
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "reputation provider unavailable") ||
		!strings.Contains(err.Error(), "502") {
		t.Errorf("error %q should carry the server message and status", err)
	}
}
