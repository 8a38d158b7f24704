package freesleep

import (
	"context"
	"net/url"

	"github.com/awender/podlink/internal/pod"
)

// SideStatus is one side's slice of the device status document.
type SideStatus struct {
	CurrentTemperatureF float64 `json:"currentTemperatureF"`
	TargetTemperatureF  float64 `json:"targetTemperatureF"`
	IsOn                bool    `json:"isOn"`
}

// PodSettings is the pod-level settings block inside device status.
type PodSettings struct {
	LEDBrightness int `json:"ledBrightness"`
}

// firmwareInfo carries the firmware's self-reported version.
type firmwareInfo struct {
	Version string `json:"version"`
}

// DeviceStatus is the device's status snapshot.
type DeviceStatus struct {
	Left       SideStatus   `json:"left"`
	Right      SideStatus   `json:"right"`
	WaterLevel string       `json:"waterLevel"`
	IsPriming  bool         `json:"isPriming"`
	Settings   PodSettings  `json:"settings"`
	FreeSleep  firmwareInfo `json:"freeSleep"`
}

// SideFor returns the status block for a side.
func (s DeviceStatus) SideFor(side pod.SideIndex) SideStatus {
	if side == pod.Right {
		return s.Right
	}
	return s.Left
}

// FirmwareVersion returns the firmware's self-reported version, empty
// if the device did not include one.
func (s DeviceStatus) FirmwareVersion() string {
	return s.FreeSleep.Version
}

// SideSettings is one side's slice of the settings document.
type SideSettings struct {
	AwayMode bool `json:"awayMode"`
}

// PrimePodDaily is the daily-priming settings block.
type PrimePodDaily struct {
	Enabled bool   `json:"enabled"`
	Time    string `json:"time"`
}

// Settings is the device's settings document.
type Settings struct {
	Left          SideSettings  `json:"left"`
	Right         SideSettings  `json:"right"`
	PrimePodDaily PrimePodDaily `json:"primePodDaily"`
	RebootDaily   bool          `json:"rebootDaily"`
}

// Vitals is the raw per-side vitals summary as the device reports it.
// Pointer fields are nil when the device omits or nulls them.
type Vitals struct {
	HeartRate       *float64 `json:"heartRate"`
	RespiratoryRate *float64 `json:"respiratoryRate"`
	HRV             *float64 `json:"hrv"`
}

// FetchStatus reads the device status snapshot.
func (c *Client) FetchStatus(ctx context.Context) (DeviceStatus, error) {
	var out DeviceStatus
	err := c.get(ctx, deviceStatusEndpoint, nil, &out)
	return out, err
}

// FetchSettings reads the device settings document.
func (c *Client) FetchSettings(ctx context.Context) (Settings, error) {
	var out Settings
	err := c.get(ctx, settingsEndpoint, nil, &out)
	return out, err
}

// FetchVitals reads the vitals summary for one side.
func (c *Client) FetchVitals(ctx context.Context, side pod.SideIndex) (Vitals, error) {
	var out Vitals
	query := url.Values{"side": []string{side.String()}}
	err := c.get(ctx, vitalsEndpoint, query, &out)
	return out, err
}
