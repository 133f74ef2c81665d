package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pocketsiem/pocketsiem/internal/reputation"
	"github.com/pocketsiem/pocketsiem/internal/siem/handler"
	"github.com/pocketsiem/pocketsiem/internal/siem/model"
	"github.com/pocketsiem/pocketsiem/internal/siem/repository"
	"github.com/pocketsiem/pocketsiem/internal/siem/service"
	"go.uber.org/zap"
)

const testKey = "test-key-123"

// newRouter builds the API surface the way main does: a v1 group behind
// API-key auth, backed by the in-memory store and the mock provider.
func newRouter(t *testing.T, keys []string) (*gin.Engine, *repository.MemoryStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := repository.NewMemoryStore()
	cache := reputation.NewCache(reputation.NewMockProvider(), zap.NewNop())
	svc := service.NewThreatService(store, cache, zap.NewNop())
	h := handler.NewThreatHandler(svc, zap.NewNop())

	router := gin.New()
	v1 := router.Group("/api/v1", handler.APIKeyAuth(keys))
	h.Register(v1)
	return router, store
}

func doRequest(t *testing.T, router *gin.Engine, method, path, key string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if key != "" {
		req.Header.Set("X-API-Key", key)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAPIKeyAuth(t *testing.T) {
	router, _ := newRouter(t, []string{testKey})

	tests := []struct {
		name string
		key  string
		want int
	}{
		{"missing key", "", http.StatusUnauthorized},
		{"wrong key", "wrong", http.StatusUnauthorized},
		{"valid key", testKey, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, router, http.MethodGet, "/api/v1/device-stats", tt.key, nil)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestAPIKeyAuth_emptyListDisablesGate(t *testing.T) {
	router, _ := newRouter(t, nil)

	w := doRequest(t, router, http.MethodGet, "/api/v1/device-stats", "", nil)
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 with auth disabled", w.Code)
	}
}

func TestCheckReputation(t *testing.T) {
	router, _ := newRouter(t, []string{testKey})

	w := doRequest(t, router, http.MethodGet, "/api/v1/reputation?ip=185.220.101.4", testKey, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var rec reputation.Record
	if err := json.Unmarshal(w.Body.Bytes(), &rec); err != nil {
		t.Fatal(err)
	}
	if !rec.IsMalicious || rec.Category != "Malware" {
		t.Errorf("unexpected record %+v", rec)
	}
}

func TestCheckReputation_invalidIP(t *testing.T) {
	router, _ := newRouter(t, []string{testKey})

	w := doRequest(t, router, http.MethodGet, "/api/v1/reputation?ip=not-an-ip", testKey, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestSubmitReport(t *testing.T) {
	router, _ := newRouter(t, []string{testKey})

	body := []byte(`{"app_name":"com.example.app","target_ip":"203.0.113.9","device_id":"device-9"}`)
	w := doRequest(t, router, http.MethodPost, "/api/v1/report", testKey, body)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var report model.ThreatReport
	if err := json.Unmarshal(w.Body.Bytes(), &report); err != nil {
		t.Fatal(err)
	}
	if report.UserSeverity != 0 {
		t.Errorf("severity = %d, want 0 when omitted", report.UserSeverity)
	}
	if report.ReportedAt.IsZero() {
		t.Error("expected server-assigned reported_at")
	}

	// The stored report is visible through the query endpoint.
	w = doRequest(t, router, http.MethodGet, "/api/v1/reports/ip/203.0.113.9", testKey, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var reports []model.ThreatReport
	if err := json.Unmarshal(w.Body.Bytes(), &reports); err != nil {
		t.Fatal(err)
	}
	if len(reports) != 1 || reports[0].ID != report.ID {
		t.Fatalf("got %d reports, want the submitted one", len(reports))
	}
}

func TestSubmitReport_missingFields(t *testing.T) {
	router, _ := newRouter(t, []string{testKey})

	body := []byte(`{"target_ip":"203.0.113.9"}`)
	w := doRequest(t, router, http.MethodPost, "/api/v1/report", testKey, body)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for missing required fields", w.Code)
	}
}

func TestSubmitReport_invalidTargetIP(t *testing.T) {
	router, _ := newRouter(t, []string{testKey})

	body := []byte(`{"app_name":"a","target_ip":"999.999.999.999.9","device_id":"d"}`)
	w := doRequest(t, router, http.MethodPost, "/api/v1/report", testKey, body)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestRecentReportCount(t *testing.T) {
	router, store := newRouter(t, []string{testKey})

	ctx := context.Background()
	old := time.Now().Add(-25 * time.Hour)
	store.SetClock(func() time.Time { return old })
	rep := model.ThreatReport{AppName: "a", TargetIP: "203.0.113.9", DeviceID: "d"}
	if err := store.Append(ctx, &rep); err != nil {
		t.Fatal(err)
	}
	store.SetClock(time.Now)
	rep2 := model.ThreatReport{AppName: "a", TargetIP: "203.0.113.9", DeviceID: "d"}
	if err := store.Append(ctx, &rep2); err != nil {
		t.Fatal(err)
	}

	w := doRequest(t, router, http.MethodGet, "/api/v1/reports/ip/203.0.113.9/count", testKey, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp struct {
		IP    string `json:"ip"`
		Count int    `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Count != 1 {
		t.Errorf("count = %d, want 1 (only the recent report)", resp.Count)
	}
}

func TestAttackSurface(t *testing.T) {
	router, _ := newRouter(t, []string{testKey})

	w := doRequest(t, router, http.MethodGet, "/api/v1/attack-surface", testKey, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var points []model.AttackSurfacePoint
	if err := json.Unmarshal(w.Body.Bytes(), &points); err != nil {
		t.Fatal(err)
	}
	if len(points) != 12 {
		t.Errorf("got %d points, want 12", len(points))
	}
}

func TestRateLimiter_burstExhaustion(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(handler.RateLimiter(1, 2))
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 3)
	for i := range codes {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		codes[i] = w.Code
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
		t.Errorf("burst requests got %v, want both 200", codes[:2])
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Errorf("third request got %d, want 429", codes[2])
	}
}

func TestLiveConnections(t *testing.T) {
	router, _ := newRouter(t, []string{testKey})

	w := doRequest(t, router, http.MethodGet, "/api/v1/live-connections", testKey, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var conns []model.Connection
	if err := json.Unmarshal(w.Body.Bytes(), &conns); err != nil {
		t.Fatal(err)
	}
	if len(conns) == 0 {
		t.Error("expected a non-empty connection list")
	}
}
