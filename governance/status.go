package governance

import (
	"encoding/json"
	"os"
	"time"
)

// Status is the externally produced release-gate authorization. The
// file is written by a governance pipeline this module does not own, so
// parsing is defensive: a missing or malformed file is "no status", not
// an error.
type Status struct {
	GeneratedAt       time.Time `json:"generatedAt"`
	ExpiresAt         time.Time `json:"expiresAt"`
	AllowPaperTrading bool      `json:"allowPaperTrading"`
	AllowLiveTrading  bool      `json:"allowLiveTrading"`
	ReasonCodes       []string  `json:"reasonCodes"`
}

// AgeHours is how long ago the status was generated.
func (s *Status) AgeHours(now time.Time) float64 {
	return now.Sub(s.GeneratedAt).Hours()
}

// Expired reports whether the status is past its expiry.
func (s *Status) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// loadStatus reads and parses the status file. nil means no usable
// status was available; the gate treats that like an expired one.
func loadStatus(path string) *Status {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var st Status
	if err := json.Unmarshal(data, &st); err != nil {
		return nil
	}
	if st.GeneratedAt.IsZero() {
		return nil
	}
	return &st
}
