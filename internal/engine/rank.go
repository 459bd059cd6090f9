// Package engine ranks and matches visited directories.
//
// Ranking:
//   - frequency = ln(visits) + 1
//   - recency   = 1 / (age_hours + 1)
//   - rank      = 0.7*frequency + 0.3*recency
//   - Age is measured in whole seconds and clamped at zero, so a clock
//     that moved backwards never produces a recency above 1.
package engine

import (
	"math"
	"time"
)

const (
	frequencyWeight = 0.7
	recencyWeight   = 0.3
)

// Rank scores an entry from its visit count and last access time.
// Visit counts below 1 are treated as 1.
func Rank(visits int64, lastAccess, now time.Time) float64 {
	if visits < 1 {
		visits = 1
	}
	age := now.Unix() - lastAccess.Unix()
	if age < 0 {
		age = 0
	}
	ageHours := float64(age) / 3600.0

	frequency := math.Log(float64(visits)) + 1.0
	recency := 1.0 / (ageHours + 1.0)
	return frequency*frequencyWeight + recency*recencyWeight
}
