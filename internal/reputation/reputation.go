// Package reputation provides IP reputation lookups backed by a pluggable
// threat-intelligence provider, with a process-wide cache that memoizes
// verdicts per IP and collapses concurrent misses into a single provider
// call.
package reputation

import (
	"context"
	"errors"
)

// maliciousThreshold is the risk score at or above which an IP is
// considered malicious.
const maliciousThreshold = 70

// Record is the cached verdict about one IP address.
type Record struct {
	IP        string `json:"ip"`
	RiskScore int    `json:"risk_score"` // 0–100
	// Category is provider-defined free vocabulary: "Safe", "Suspicious",
	// "Botnet", "Malware", ...
	Category    string `json:"category"`
	IsMalicious bool   `json:"is_malicious"` // derived: RiskScore >= 70
	Source      string `json:"source"`
}

// ErrProviderUnavailable signals a transient lookup failure. Results are
// never cached when a lookup fails with any error; the caller may retry.
var ErrProviderUnavailable = errors.New("reputation provider unavailable")

// Provider answers "what is the risk of this IP". Implementations should
// wrap transient transport failures with ErrProviderUnavailable so callers
// can distinguish them from permanent errors.
type Provider interface {
	Lookup(ctx context.Context, ip string) (*Record, error)
}
