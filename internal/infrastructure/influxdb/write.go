package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteVitals writes a biometric vitals sample for one pod side.
//
// Nil field pointers mean the sensor reported no reading for this cycle
// and are omitted from the point rather than written as zero.
// The write is non-blocking; data is batched and sent asynchronously.
//
// Parameters:
//   - deviceID: Logical device identifier for the side (e.g., "pod-left")
//   - heartRate: Heart rate in BPM, nil if absent
//   - respirationRate: Breaths per minute, nil if absent
//   - hrv: Heart rate variability in ms, nil if absent
//   - at: Timestamp of the polling cycle the sample belongs to
func (c *Client) WriteVitals(deviceID string, heartRate, respirationRate, hrv *float64, at time.Time) {
	if !c.IsConnected() {
		return
	}

	fields := map[string]interface{}{}
	if heartRate != nil {
		fields["heart_rate"] = *heartRate
	}
	if respirationRate != nil {
		fields["respiration_rate"] = *respirationRate
	}
	if hrv != nil {
		fields["hrv"] = *hrv
	}
	if len(fields) == 0 {
		return
	}

	point := write.NewPoint(
		"vitals",
		map[string]string{
			"device_id": deviceID,
		},
		fields,
		at,
	)

	c.writeAPI.WritePoint(point)
}

// WriteSideTemperature writes the thermal state of one pod side.
//
// Parameters:
//   - deviceID: Logical device identifier for the side
//   - currentF: Current surface temperature in Fahrenheit
//   - targetF: Target temperature in Fahrenheit
//   - heating: Whether the side is actively conditioning
//   - at: Timestamp of the polling cycle
func (c *Client) WriteSideTemperature(deviceID string, currentF, targetF float64, heating bool, at time.Time) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"side_temperature",
		map[string]string{
			"device_id": deviceID,
		},
		map[string]interface{}{
			"current_f": currentF,
			"target_f":  targetF,
			"heating":   heating,
		},
		at,
	)

	c.writeAPI.WritePoint(point)
}

// WritePodStatus writes pod-wide hardware state.
//
// Parameters:
//   - podID: Logical identifier for the whole pod
//   - waterLevel: Reservoir level reported by the firmware
//   - priming: Whether a prime cycle is in progress
//   - at: Timestamp of the polling cycle
func (c *Client) WritePodStatus(podID string, waterLevel string, priming bool, at time.Time) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"pod_status",
		map[string]string{
			"pod_id": podID,
		},
		map[string]interface{}{
			"water_level": waterLevel,
			"priming":     priming,
		},
		at,
	)

	c.writeAPI.WritePoint(point)
}

// WritePoint writes a custom point with full control over tags and fields.
//
// Use this for measurements that don't fit the helper methods.
//
// Parameters:
//   - measurement: The measurement name (table)
//   - tags: Key-value pairs for indexing (low cardinality)
//   - fields: Key-value pairs for the actual data
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, time.Now())
	c.writeAPI.WritePoint(point)
}

// WritePointWithTime writes a custom point with a specific timestamp.
//
// Use this when the timestamp is not "now" (e.g., delayed data).
func (c *Client) WritePointWithTime(measurement string, tags map[string]string, fields map[string]interface{}, timestamp time.Time) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, timestamp)
	c.writeAPI.WritePoint(point)
}
