package freesleep

import (
	"context"
	"fmt"

	"github.com/awender/podlink/internal/pod"
	"github.com/awender/podlink/internal/schedule"
)

// wirePower is the device's power block shape.
type wirePower struct {
	On            string `json:"on"`
	OnTemperature *int   `json:"onTemperature,omitempty"`
	Enabled       bool   `json:"enabled"`
}

// wireAlarm is the device's alarm block shape.
type wireAlarm struct {
	Time             string `json:"time"`
	Enabled          bool   `json:"enabled"`
	AlarmTemperature *int   `json:"alarmTemperature,omitempty"`
}

// wireDay is one per-side per-day schedule document. The device keys
// temperatures by "HH:MM" rather than using a list.
type wireDay struct {
	Power        *wirePower     `json:"power,omitempty"`
	Temperatures map[string]int `json:"temperatures,omitempty"`
	Alarm        *wireAlarm     `json:"alarm,omitempty"`
}

// WriteDaySchedule writes one side's schedule for one weekday.
//
// The write is idempotent: the device replaces the day's document, so
// repeating an identical write leaves it in the same state and retries
// are safe.
func (c *Client) WriteDaySchedule(ctx context.Context, side pod.SideIndex, day schedule.Weekday, ds schedule.DaySchedule) error {
	if !side.Valid() {
		return fmt.Errorf("freesleep: invalid side %d", int(side))
	}
	if !day.Valid() {
		return fmt.Errorf("freesleep: invalid weekday %d", int(day))
	}

	body := map[string]any{
		side.String(): map[string]any{
			day.String(): encodeDay(ds),
		},
	}
	return c.post(ctx, schedulesEndpoint, body, true)
}

// encodeDay converts the internal DaySchedule to the device's shape.
func encodeDay(ds schedule.DaySchedule) wireDay {
	out := wireDay{}

	if ds.Power != nil {
		out.Power = &wirePower{
			On:            string(ds.Power.On),
			OnTemperature: ds.Power.OnTemperature,
			Enabled:       true,
		}
	}

	if len(ds.Temperatures) > 0 {
		out.Temperatures = make(map[string]int, len(ds.Temperatures))
		for _, p := range ds.Temperatures {
			out.Temperatures[string(p.Time)] = p.Temperature
		}
	}

	if ds.Alarm != nil {
		out.Alarm = &wireAlarm{
			Time:             string(ds.Alarm.Time),
			Enabled:          ds.Alarm.Enabled,
			AlarmTemperature: ds.Alarm.AlarmTemperature,
		}
	}

	return out
}
