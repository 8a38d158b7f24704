package telemetry

import (
	"time"

	"github.com/awender/podlink/internal/bridges/freesleep"
)

// Sample is one side's normalized biometric reading.
//
// Nil fields mean the device had no reading, which is distinct from a
// reading of zero.
type Sample struct {
	HeartRate       *float64  `json:"heart_rate,omitempty"`
	RespirationRate *float64  `json:"respiration_rate,omitempty"`
	HRV             *float64  `json:"hrv,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
}

// IsEmpty reports whether the sample carries no readings at all.
func (s Sample) IsEmpty() bool {
	return s.HeartRate == nil && s.RespirationRate == nil && s.HRV == nil
}

// Normalize maps raw device vitals to a Sample stamped with at.
//
// Pointer fields are copied, not aliased, so later mutation of the raw
// value cannot change an already-published sample.
func Normalize(raw freesleep.Vitals, at time.Time) Sample {
	return Sample{
		HeartRate:       copyFloat(raw.HeartRate),
		RespirationRate: copyFloat(raw.RespiratoryRate),
		HRV:             copyFloat(raw.HRV),
		Timestamp:       at,
	}
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
