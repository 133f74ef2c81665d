package reputation

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"
)

// mockSource is the provider identity stamped on mock verdicts.
const mockSource = "mock-intel"

var mockCategories = []string{"Safe", "Low Risk", "Suspicious", "Botnet", "Malware"}

// MockProvider is a stand-in for a real threat-intelligence API
// (AbuseIPDB, VirusTotal, ...). It returns pseudo-random verdicts, with
// two fixed ranges that always score high so threat paths can be
// exercised end to end:
//
//	185.220.101.*  → score 85, Malware
//	198.51.100.*   → score 60, Botnet
type MockProvider struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewMockProvider creates a MockProvider seeded from the current time.
func NewMockProvider() *MockProvider {
	return &MockProvider{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// Lookup implements Provider. It never fails.
func (p *MockProvider) Lookup(_ context.Context, ip string) (*Record, error) {
	p.mu.Lock()
	score := p.rng.Intn(101)
	category := mockCategories[p.rng.Intn(len(mockCategories))]
	p.mu.Unlock()

	switch {
	case strings.HasPrefix(ip, "185.220.101."):
		score, category = 85, "Malware"
	case strings.HasPrefix(ip, "198.51.100."):
		score, category = 60, "Botnet"
	}

	return &Record{
		IP:          ip,
		RiskScore:   score,
		Category:    category,
		IsMalicious: score >= maliciousThreshold,
		Source:      mockSource,
	}, nil
}
